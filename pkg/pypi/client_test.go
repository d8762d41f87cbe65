package pypi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// fakeRegistry serves profile pages and package JSON documents while
// recording every request path in order.
type fakeRegistry struct {
	requests []string
	profiles map[string]string      // username -> profile page HTML
	packages map[string]apiResponse // package name -> JSON document
}

func (f *fakeRegistry) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.requests = append(f.requests, r.URL.Path)

		if rest, ok := strings.CutPrefix(r.URL.Path, "/user/"); ok {
			if page, ok := f.profiles[strings.TrimSuffix(rest, "/")]; ok {
				fmt.Fprint(w, page)
				return
			}
		}
		if rest, ok := strings.CutPrefix(r.URL.Path, "/pypi/"); ok {
			if name, ok := strings.CutSuffix(rest, "/json"); ok {
				if doc, ok := f.packages[name]; ok {
					json.NewEncoder(w).Encode(doc)
					return
				}
			}
		}
		http.NotFound(w, r)
	}
}

func profilePage(entries ...[2]string) string {
	var b strings.Builder
	b.WriteString("<html><body><div class=\"package-list\">")
	for _, e := range entries {
		fmt.Fprintf(&b, `<a class="package-snippet" href="/project/%s/">
			<h3 class="package-snippet__title">%s</h3>
			<p class="package-snippet__description">%s</p>
		</a>`, e[0], e[0], e[1])
	}
	b.WriteString("</div></body></html>")
	return b.String()
}

func testRegistry(t *testing.T, reg *fakeRegistry) string {
	t.Helper()
	server := httptest.NewServer(reg.handler())
	t.Cleanup(server.Close)
	return server.URL
}

func TestSetUsername(t *testing.T) {
	c := New()
	if got := c.Username(); got != "" {
		t.Fatalf("expected empty username on new client, got %q", got)
	}

	if err := c.SetUsername("testuser"); err != nil {
		t.Fatalf("SetUsername failed: %v", err)
	}
	if got := c.Username(); got != "testuser" {
		t.Errorf("expected username testuser, got %q", got)
	}

	// Reassignment overwrites.
	if err := c.SetUsername("otheruser"); err != nil {
		t.Fatalf("SetUsername failed: %v", err)
	}
	if got := c.Username(); got != "otheruser" {
		t.Errorf("expected username otheruser, got %q", got)
	}
}

func TestSetUsername_Empty(t *testing.T) {
	c := New()
	err := c.SetUsername("")
	if err == nil {
		t.Fatal("expected error for empty username")
	}
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("expected *Error, got %T", err)
	}
}

func TestNewForUser_Empty(t *testing.T) {
	reg := &fakeRegistry{}
	serverURL := testRegistry(t, reg)

	if _, err := NewForUser("", WithBaseURL(serverURL)); err == nil {
		t.Fatal("expected error for empty username")
	}
	if len(reg.requests) != 0 {
		t.Errorf("expected no requests, got %d", len(reg.requests))
	}
}

func TestClient_UserPackages(t *testing.T) {
	reg := &fakeRegistry{
		profiles: map[string]string{
			"testuser": profilePage(
				[2]string{"package1", "Description1"},
				[2]string{"package2", "Description2"},
			),
		},
	}
	c, err := NewForUser("testuser", WithBaseURL(testRegistry(t, reg)))
	if err != nil {
		t.Fatal(err)
	}

	packages, err := c.UserPackages(context.Background())
	if err != nil {
		t.Fatalf("UserPackages failed: %v", err)
	}

	if len(packages) != 2 {
		t.Fatalf("expected 2 packages, got %d", len(packages))
	}
	if packages[0].Name != "package1" || packages[0].Summary != "Description1" {
		t.Errorf("unexpected first package: %+v", packages[0])
	}
	if packages[1].Name != "package2" || packages[1].Summary != "Description2" {
		t.Errorf("unexpected second package: %+v", packages[1])
	}
	if len(reg.requests) != 1 || reg.requests[0] != "/user/testuser/" {
		t.Errorf("expected single request to /user/testuser/, got %v", reg.requests)
	}
}

func TestClient_UserPackages_NoUsername(t *testing.T) {
	reg := &fakeRegistry{}
	c := New(WithBaseURL(testRegistry(t, reg)))

	if _, err := c.UserPackages(context.Background()); err == nil {
		t.Fatal("expected error when username is not set")
	}
	if len(reg.requests) != 0 {
		t.Errorf("expected no requests, got %d", len(reg.requests))
	}
}

func TestClient_UserPackages_ZeroPackages(t *testing.T) {
	reg := &fakeRegistry{
		profiles: map[string]string{"emptyuser": profilePage()},
	}
	c, _ := NewForUser("emptyuser", WithBaseURL(testRegistry(t, reg)))

	packages, err := c.UserPackages(context.Background())
	if err != nil {
		t.Fatalf("UserPackages failed: %v", err)
	}
	if len(packages) != 0 {
		t.Errorf("expected empty listing, got %d packages", len(packages))
	}
}

func TestClient_UserPackages_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	c, _ := NewForUser("testuser", WithBaseURL(server.URL))
	if _, err := c.UserPackages(context.Background()); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestClient_PackageDetails(t *testing.T) {
	reg := &fakeRegistry{
		packages: map[string]apiResponse{
			"package1": {
				Info: apiInfo{
					Name:           "package1",
					Version:        "1.1.0",
					Summary:        "Description1",
					Author:         "Author1",
					AuthorEmail:    "author1@example.com",
					License:        "MIT",
					HomePage:       "https://example.com/package1",
					Keywords:       "python,pypi",
					Classifiers:    []string{"Programming Language :: Python :: 3"},
					RequiresPython: ">=3.9",
					RequiresDist:   []string{"requests>=2.0", "beautifulsoup4"},
				},
				Releases: map[string][]apiFile{
					"1.0.0": {{
						Filename:      "package1-1.0.0.tar.gz",
						PackageType:   "sdist",
						PythonVersion: "source",
						UploadTime:    "2024-01-01T00:00:00",
						URL:           "https://files.example.com/package1-1.0.0.tar.gz",
						MD5Digest:     "d41d8cd98f00b204e9800998ecf8427e",
						Size:          1024,
						Digests:       map[string]string{"sha256": "abc123"},
					}},
					"1.1.0": {{Filename: "package1-1.1.0.tar.gz"}},
				},
				URLs: []apiFile{{Filename: "package1-1.1.0.tar.gz", PackageType: "sdist"}},
			},
		},
	}
	c := New(WithBaseURL(testRegistry(t, reg)))

	details, err := c.PackageDetails(context.Background(), "package1")
	if err != nil {
		t.Fatalf("PackageDetails failed: %v", err)
	}

	if details.Name != "package1" || details.Version != "1.1.0" {
		t.Errorf("unexpected identity: %s %s", details.Name, details.Version)
	}
	if details.Author != "Author1" || details.AuthorEmail != "author1@example.com" {
		t.Errorf("unexpected author fields: %q %q", details.Author, details.AuthorEmail)
	}
	if details.License != "MIT" || details.Summary != "Description1" {
		t.Errorf("unexpected license/summary: %q %q", details.License, details.Summary)
	}
	if details.HomePage != "https://example.com/package1" {
		t.Errorf("unexpected home page: %q", details.HomePage)
	}
	if len(details.Dependencies) != 2 || details.Dependencies[0] != "requests>=2.0" {
		t.Errorf("unexpected dependencies: %v", details.Dependencies)
	}

	// Only the non-current release appears in OlderVersions.
	if len(details.OlderVersions) != 1 {
		t.Fatalf("expected 1 older version, got %d", len(details.OlderVersions))
	}
	older := details.OlderVersions[0]
	if older.Version != "1.0.0" || older.SHA256Digest != "abc123" || older.Size != 1024 {
		t.Errorf("unexpected older version: %+v", older)
	}

	if len(reg.requests) != 1 || reg.requests[0] != "/pypi/package1/json" {
		t.Errorf("expected single request to /pypi/package1/json, got %v", reg.requests)
	}
}

func TestClient_PackageDetails_AbsentFieldsDefault(t *testing.T) {
	reg := &fakeRegistry{
		packages: map[string]apiResponse{
			"bare": {Info: apiInfo{Name: "bare", Version: "0.1.0"}},
		},
	}
	c := New(WithBaseURL(testRegistry(t, reg)))

	details, err := c.PackageDetails(context.Background(), "bare")
	if err != nil {
		t.Fatalf("PackageDetails failed: %v", err)
	}

	if details.Author != "" || details.License != "" || details.HomePage != "" {
		t.Errorf("expected empty defaults, got %+v", details)
	}
	if details.Dependencies == nil || len(details.Dependencies) != 0 {
		t.Errorf("expected empty non-nil dependencies, got %#v", details.Dependencies)
	}
	if details.Classifiers == nil || details.Downloads == nil || details.OlderVersions == nil {
		t.Error("expected slice fields to be non-nil")
	}
}

func TestClient_PackageDetails_EmptyName(t *testing.T) {
	reg := &fakeRegistry{}
	c := New(WithBaseURL(testRegistry(t, reg)))

	if _, err := c.PackageDetails(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty package name")
	}
	if len(reg.requests) != 0 {
		t.Errorf("expected no requests, got %d", len(reg.requests))
	}
}

func TestClient_PackageDetails_NotFound(t *testing.T) {
	reg := &fakeRegistry{}
	c := New(WithBaseURL(testRegistry(t, reg)))

	_, err := c.PackageDetails(context.Background(), "nonexistent-package")
	if err == nil {
		t.Fatal("expected error for missing package")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not-found message, got %q", err.Error())
	}
}

func TestClient_PackageDetails_BadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>not json</html>")
	}))
	defer server.Close()

	c := New(WithBaseURL(server.URL))
	if _, err := c.PackageDetails(context.Background(), "package1"); err == nil {
		t.Fatal("expected error for unparseable response body")
	}
}

func TestClient_AllPackageDetails(t *testing.T) {
	reg := &fakeRegistry{
		profiles: map[string]string{
			"testuser": profilePage(
				[2]string{"package1", "Description1"},
				[2]string{"package2", "Description2"},
				[2]string{"package3", "Description3"},
			),
		},
		packages: map[string]apiResponse{
			"package1": {Info: apiInfo{Name: "package1", Version: "1.0.0"}},
			"package2": {Info: apiInfo{Name: "package2", Version: "2.0.0"}},
			"package3": {Info: apiInfo{Name: "package3", Version: "3.0.0"}},
		},
	}
	c, _ := NewForUser("testuser", WithBaseURL(testRegistry(t, reg)))

	details, err := c.AllPackageDetails(context.Background())
	if err != nil {
		t.Fatalf("AllPackageDetails failed: %v", err)
	}

	if len(details) != 3 {
		t.Fatalf("expected 3 details, got %d", len(details))
	}
	for i, name := range []string{"package1", "package2", "package3"} {
		if details[i].Name != name {
			t.Errorf("result %d: expected %s, got %s", i, name, details[i].Name)
		}
	}

	wantRequests := []string{
		"/user/testuser/",
		"/pypi/package1/json",
		"/pypi/package2/json",
		"/pypi/package3/json",
	}
	if len(reg.requests) != len(wantRequests) {
		t.Fatalf("expected %d requests, got %v", len(wantRequests), reg.requests)
	}
	for i, want := range wantRequests {
		if reg.requests[i] != want {
			t.Errorf("request %d: expected %s, got %s", i, want, reg.requests[i])
		}
	}
}

func TestClient_AllPackageDetails_ZeroPackages(t *testing.T) {
	reg := &fakeRegistry{
		profiles: map[string]string{"emptyuser": profilePage()},
	}
	c, _ := NewForUser("emptyuser", WithBaseURL(testRegistry(t, reg)))

	details, err := c.AllPackageDetails(context.Background())
	if err != nil {
		t.Fatalf("AllPackageDetails failed: %v", err)
	}
	if len(details) != 0 {
		t.Errorf("expected empty result, got %d", len(details))
	}
	// Only the listing request, no detail calls.
	if len(reg.requests) != 1 {
		t.Errorf("expected exactly 1 request, got %v", reg.requests)
	}
}

func TestClient_AllPackageDetails_MiddleFailure(t *testing.T) {
	// package2 is listed on the profile but does not exist, so the whole
	// operation must fail with no partial result.
	reg := &fakeRegistry{
		profiles: map[string]string{
			"testuser": profilePage(
				[2]string{"package1", "Description1"},
				[2]string{"package2", "Description2"},
				[2]string{"package3", "Description3"},
			),
		},
		packages: map[string]apiResponse{
			"package1": {Info: apiInfo{Name: "package1", Version: "1.0.0"}},
			"package3": {Info: apiInfo{Name: "package3", Version: "3.0.0"}},
		},
	}
	c, _ := NewForUser("testuser", WithBaseURL(testRegistry(t, reg)))

	details, err := c.AllPackageDetails(context.Background())
	if err == nil {
		t.Fatal("expected error when a detail fetch fails")
	}
	if details != nil {
		t.Errorf("expected no partial result, got %d details", len(details))
	}
	if !strings.Contains(err.Error(), "package2") {
		t.Errorf("expected error to name the failing package, got %q", err.Error())
	}
	// Fetching stops at the failing package; package3 is never requested.
	if len(reg.requests) != 3 {
		t.Errorf("expected 3 requests (list, package1, package2), got %v", reg.requests)
	}
}

func TestClient_AllPackageDetails_NoUsername(t *testing.T) {
	reg := &fakeRegistry{}
	c := New(WithBaseURL(testRegistry(t, reg)))

	if _, err := c.AllPackageDetails(context.Background()); err == nil {
		t.Fatal("expected error when username is not set")
	}
	if len(reg.requests) != 0 {
		t.Errorf("expected no requests, got %d", len(reg.requests))
	}
}
