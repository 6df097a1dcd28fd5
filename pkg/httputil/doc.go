// Package httputil provides HTTP utilities for the components registry client.
//
// # Retry
//
// [Retry] and [Policy.Do] wrap a request with automatic retry for transient
// failures. Only errors wrapped in [RetryableError] are retried, so the caller
// decides what is transient (typically connection errors and 5xx responses):
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    ...
//	})
//
// Delays double after each failed attempt, capped by [Policy.MaxDelay].
// Defaults ([DefaultPolicy]): 3 attempts, 1 second base delay.
//
// Nothing in this package caches responses: registry answers are only valid
// for the export run that asked for them.
package httputil
