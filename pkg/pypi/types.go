package pypi

import "sort"

// PackageSummary is one entry from a user's profile page listing.
type PackageSummary struct {
	Name    string `json:"name"`    // Package name as shown on the profile page
	Summary string `json:"summary"` // Short description (may be empty)
}

// PackageDetails holds normalized metadata for one package, flattened from
// the registry's nested JSON document.
//
// Every field is always present in the struct; values the registry omits are
// zero values ("" or empty slices), never missing keys. Dependencies keeps
// the declared requirement strings verbatim, in the order the registry
// returned them.
type PackageDetails struct {
	Name           string           `json:"name"`
	Version        string           `json:"version"` // Latest released version
	Summary        string           `json:"summary"`
	Author         string           `json:"author"`
	AuthorEmail    string           `json:"author_email"`
	License        string           `json:"license"`
	HomePage       string           `json:"home_page"`
	Keywords       string           `json:"keywords"`
	Classifiers    []string         `json:"classifiers"`
	RequiresPython string           `json:"requires_python"`
	Dependencies   []string         `json:"dependencies"`   // requires_dist strings, upstream order
	Downloads      []ReleaseFile    `json:"downloads"`      // Files of the current release
	OlderVersions  []ReleaseSummary `json:"older_versions"` // All releases except the current one
}

// ReleaseFile describes one downloadable file of a release.
type ReleaseFile struct {
	Filename          string `json:"filename"`
	PackageType       string `json:"packagetype"` // "sdist" or "bdist_wheel"
	PythonVersion     string `json:"python_version"`
	UploadTime        string `json:"upload_time"`
	UploadTimeISO8601 string `json:"upload_time_iso_8601"`
	URL               string `json:"url"`
	MD5Digest         string `json:"md5_digest"`
	SHA256Digest      string `json:"sha256_digest"`
	Size              int64  `json:"size"`
}

// ReleaseSummary describes a historical release, keyed by version and
// summarized by its first uploaded file.
type ReleaseSummary struct {
	Version string `json:"version"`
	ReleaseFile
}

// apiResponse mirrors the registry's package JSON document
// (https://pypi.org/pypi/<name>/json).
type apiResponse struct {
	Info     apiInfo              `json:"info"`
	Releases map[string][]apiFile `json:"releases"`
	URLs     []apiFile            `json:"urls"`
}

type apiInfo struct {
	Name           string   `json:"name"`
	Version        string   `json:"version"`
	Summary        string   `json:"summary"`
	Author         string   `json:"author"`
	AuthorEmail    string   `json:"author_email"`
	License        string   `json:"license"`
	HomePage       string   `json:"home_page"`
	Keywords       string   `json:"keywords"`
	Classifiers    []string `json:"classifiers"`
	RequiresPython string   `json:"requires_python"`
	RequiresDist   []string `json:"requires_dist"`
}

type apiFile struct {
	Filename          string            `json:"filename"`
	PackageType       string            `json:"packagetype"`
	PythonVersion     string            `json:"python_version"`
	UploadTime        string            `json:"upload_time"`
	UploadTimeISO8601 string            `json:"upload_time_iso_8601"`
	URL               string            `json:"url"`
	MD5Digest         string            `json:"md5_digest"`
	Size              int64             `json:"size"`
	Digests           map[string]string `json:"digests"`
}

// newPackageDetails flattens the registry document into PackageDetails.
// Absent upstream fields become zero values; slice fields are never nil so
// JSON output always carries the same keys.
func newPackageDetails(data *apiResponse) *PackageDetails {
	details := &PackageDetails{
		Name:           data.Info.Name,
		Version:        data.Info.Version,
		Summary:        data.Info.Summary,
		Author:         data.Info.Author,
		AuthorEmail:    data.Info.AuthorEmail,
		License:        data.Info.License,
		HomePage:       data.Info.HomePage,
		Keywords:       data.Info.Keywords,
		Classifiers:    data.Info.Classifiers,
		RequiresPython: data.Info.RequiresPython,
		Dependencies:   data.Info.RequiresDist,
		Downloads:      newReleaseFiles(data.URLs),
		OlderVersions:  newReleaseSummaries(data.Releases, data.Info.Version),
	}
	if details.Classifiers == nil {
		details.Classifiers = []string{}
	}
	if details.Dependencies == nil {
		details.Dependencies = []string{}
	}
	return details
}

func newReleaseFiles(files []apiFile) []ReleaseFile {
	out := make([]ReleaseFile, 0, len(files))
	for _, f := range files {
		out = append(out, newReleaseFile(f))
	}
	return out
}

// newReleaseSummaries summarizes every release except the current version by
// its first uploaded file. Releases arrive as an unordered map, so versions
// are sorted for stable output.
func newReleaseSummaries(releases map[string][]apiFile, current string) []ReleaseSummary {
	versions := make([]string, 0, len(releases))
	for v := range releases {
		if v != current {
			versions = append(versions, v)
		}
	}
	sort.Strings(versions)

	out := make([]ReleaseSummary, 0, len(versions))
	for _, v := range versions {
		summary := ReleaseSummary{Version: v}
		if files := releases[v]; len(files) > 0 {
			summary.ReleaseFile = newReleaseFile(files[0])
		}
		out = append(out, summary)
	}
	return out
}

func newReleaseFile(f apiFile) ReleaseFile {
	return ReleaseFile{
		Filename:          f.Filename,
		PackageType:       f.PackageType,
		PythonVersion:     f.PythonVersion,
		UploadTime:        f.UploadTime,
		UploadTimeISO8601: f.UploadTimeISO8601,
		URL:               f.URL,
		MD5Digest:         f.MD5Digest,
		SHA256Digest:      f.Digests["sha256"],
		Size:              f.Size,
	}
}
