package middleware

import "errors"

// ErrRetryExhausted is returned by the retry decorator when all attempts have
// been consumed without a successful response. It is wrapped together with
// the last underlying error, so callers can inspect either with [errors.Is]:
//
//	if errors.Is(err, middleware.ErrRetryExhausted) {
//	    // all retries failed
//	}
var ErrRetryExhausted = errors.New("nodeflow: all retry attempts exhausted")
