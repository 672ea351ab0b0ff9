// Package httputil provides retry infrastructure for registry clients.
//
// # Retry
//
// [Retry] wraps a fetch with automatic retry for transient failures. Only
// errors wrapped in [RetryableError] are retried; callers decide what is
// transient (network errors, 5xx, 429) when they classify a response:
//
//	err := httputil.Retry(ctx, httputil.Policy{Attempts: 5, Delay: time.Second}, func() error {
//	    return fetchArchive(ctx, url)
//	})
//
// The delay doubles after every failed attempt. Cancelling ctx aborts the
// wait between attempts and returns ctx.Err().
//
// # Defaults
//
//   - [DefaultPolicy]: 3 attempts, 1s initial delay (index documents)
//   - [ArchivePolicy]: 5 attempts, 1s initial delay (crate archives)
package httputil
