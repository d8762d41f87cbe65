package pypi

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Profile page selectors. These follow the markup pypi.org uses for the
// package listing on https://pypi.org/user/<username>/.
const (
	snippetSelector = "a.package-snippet"
	titleSelector   = "h3.package-snippet__title"
	summarySelector = "p.package-snippet__description"
)

// parseProfile extracts package summaries from a user profile page, in
// document order. A page with no package snippets yields an empty slice.
// A snippet without a title is treated as a parse failure for the whole
// page, since it means the markup no longer matches expectations.
func parseProfile(r io.Reader) ([]PackageSummary, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, wrapError(err, "error parsing user profile page")
	}

	packages := []PackageSummary{}
	var parseErr *Error
	doc.Find(snippetSelector).EachWithBreak(func(_ int, snippet *goquery.Selection) bool {
		name := strings.TrimSpace(snippet.Find(titleSelector).Text())
		if name == "" {
			parseErr = newError("error parsing package details: snippet has no title")
			return false
		}
		packages = append(packages, PackageSummary{
			Name:    name,
			Summary: strings.TrimSpace(snippet.Find(summarySelector).Text()),
		})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return packages, nil
}
