package resilience

import (
	"errors"
	"net"
	"strings"
	"syscall"
)

// Class buckets a failure for retry-policy purposes.
type Class int

const (
	// ClassFatal is never retried; the document yields nothing and the run
	// continues.
	ClassFatal Class = iota

	// ClassRateLimit is quota or rate-limit exhaustion; retried after a fixed
	// cooldown.
	ClassRateLimit

	// ClassOverload is temporary service overload or a flaky network; retried
	// on the exponential schedule.
	ClassOverload
)

// TransientError wraps an error that is safe to retry, carrying its retry
// class and, when known, the HTTP status that produced it.
type TransientError struct {
	Err        error
	Class      Class
	StatusCode int
}

func (e *TransientError) Error() string {
	return e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// NewRateLimitError marks err as rate-limit exhaustion.
func NewRateLimitError(err error, statusCode int) *TransientError {
	return &TransientError{Err: err, Class: ClassRateLimit, StatusCode: statusCode}
}

// NewOverloadError marks err as temporary service overload.
func NewOverloadError(err error, statusCode int) *TransientError {
	return &TransientError{Err: err, Class: ClassOverload, StatusCode: statusCode}
}

// ClassFromStatus maps an HTTP status code to a retry class.
func ClassFromStatus(statusCode int) Class {
	switch statusCode {
	case 429:
		return ClassRateLimit
	case 408, 500, 502, 503, 504, 529:
		return ClassOverload
	default:
		return ClassFatal
	}
}

// Message heuristics for errors wrapped by HTTP clients that don't expose a
// typed status. Rate-limit patterns are checked first: quota exhaustion must
// not fall through to the shorter overload backoff.
var (
	rateLimitPatterns = []string{
		"429",
		"quota",
		"resource_exhausted",
		"rate limit",
		"rate_limit",
	}
	overloadPatterns = []string{
		"503",
		"529",
		"overloaded",
		"connection reset by peer",
		"broken pipe",
		"temporary failure in name resolution",
		"no such host",
		"tls handshake timeout",
		"i/o timeout",
		"server closed idle connection",
		"transport connection broken",
	}
)

// ClassOf classifies err for retry purposes: typed TransientError in the
// chain first, then network-level transience, then message heuristics.
// Anything unrecognized is fatal for the document.
func ClassOf(err error) Class {
	if err == nil {
		return ClassFatal
	}

	var te *TransientError
	if errors.As(err, &te) {
		return te.Class
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ClassOverload
	}
	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return ClassOverload
	}

	msg := strings.ToLower(err.Error())
	for _, p := range rateLimitPatterns {
		if strings.Contains(msg, p) {
			return ClassRateLimit
		}
	}
	for _, p := range overloadPatterns {
		if strings.Contains(msg, p) {
			return ClassOverload
		}
	}

	return ClassFatal
}

// IsTransient reports whether err is retryable at all.
func IsTransient(err error) bool {
	return ClassOf(err) != ClassFatal
}
