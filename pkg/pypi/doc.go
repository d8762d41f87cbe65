// Package pypi fetches and normalizes package metadata from the Python
// Package Index (https://pypi.org).
//
// # Overview
//
// The package is built around [Client], which holds a PyPI username and
// exposes three fetch operations:
//
//   - [Client.UserPackages]: scrape the user's profile page for the list of
//     published packages (name + summary)
//   - [Client.PackageDetails]: fetch the JSON metadata for one package and
//     flatten it into [PackageDetails]
//   - [Client.AllPackageDetails]: list the user's packages, then fetch
//     details for each one sequentially
//
// # Usage
//
//	client, err := pypi.NewForUser("wolfsoftware")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	details, err := client.AllPackageDetails(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, d := range details {
//	    fmt.Println(d.Name, d.Version)
//	}
//
// The username may also be set (or replaced) after construction with
// [Client.SetUsername]. [Client.PackageDetails] does not depend on the
// username and works on an unset client.
//
// # Errors
//
// Every failure — unset username, transport error, non-success HTTP status,
// unparseable response, missing package — surfaces as a single error kind,
// [*Error], carrying a human-readable message. There are no structured error
// codes; callers that need to distinguish causes branch on the message text
// or unwrap the underlying error. Failures are never retried: one failed
// request immediately aborts the operation.
//
// # Fetching model
//
// All calls are synchronous and blocking, one request at a time.
// [Client.AllPackageDetails] is strictly sequential and all-or-nothing: if
// any single package fetch fails, the whole operation fails with no partial
// result. Responses are never cached; every call hits the registry.
package pypi
