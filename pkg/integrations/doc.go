// Package integrations provides the HTTP plumbing shared by registry clients.
//
// # Overview
//
// [Client] wraps an [http.Client] with default headers, status code
// classification, and retry:
//
//   - 200: success
//   - 404: [ErrNotFound], never retried
//   - 429 and 5xx: [ErrNetwork] wrapped in [httputil.RetryableError]
//   - transport failures: [ErrNetwork], retried
//   - anything else: [ErrNetwork], not retried
//
// Redirects are followed by the underlying [http.Client].
//
// Registry-specific clients live in subpackages:
//
//   - [crates]: crates.io index and static archive host
//
// [crates]: github.com/matzehuels/cratesync/pkg/integrations/crates
// [httputil.RetryableError]: github.com/matzehuels/cratesync/pkg/httputil.RetryableError
package integrations
