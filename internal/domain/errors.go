package domain

import "errors"

// Domain errors.
var (
	// ErrMissingURL is returned when the request carries no usable url field.
	ErrMissingURL = errors.New("URL is required")

	// ErrInvalidURL is returned when the url is not an absolute http(s) URL.
	ErrInvalidURL = errors.New("invalid URL format")

	// ErrUnsupportedURL is returned when no extractor recognises the URL's site.
	ErrUnsupportedURL = errors.New("unsupported URL")

	// ErrPrivateOrRemoved is returned when the media exists but cannot be accessed.
	ErrPrivateOrRemoved = errors.New("media is private, removed or unavailable")

	// ErrUpstreamUnavailable is returned when the remote host cannot be reached or refuses the request.
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")

	// ErrExtractionTimeout is returned when the extraction exceeds its wall-clock limit.
	ErrExtractionTimeout = errors.New("extraction timed out")

	// ErrDiskIO is returned when the artifact cannot be written or located on disk.
	ErrDiskIO = errors.New("disk or I/O failure")

	// ErrScopeReleased is returned when opening a file in an already released scope.
	ErrScopeReleased = errors.New("scope already released")
)

// ErrorKind is the machine-readable code surfaced to API clients.
type ErrorKind string

const (
	KindMissingURL          ErrorKind = "missing_url"
	KindInvalidURL          ErrorKind = "invalid_url"
	KindUnsupportedURL      ErrorKind = "unsupported_url"
	KindPrivateOrRemoved    ErrorKind = "private_or_removed"
	KindUpstreamUnavailable ErrorKind = "upstream_unavailable"
	KindTimeout             ErrorKind = "timeout"
	KindDiskIO              ErrorKind = "disk_or_io"
	KindInternal            ErrorKind = "internal"
	KindNotFound            ErrorKind = "not_found"
	KindMethodNotAllowed    ErrorKind = "method_not_allowed"
	KindUnauthorized        ErrorKind = "unauthorized"
	KindRateLimited         ErrorKind = "rate_limited"
	KindOverloaded          ErrorKind = "overloaded"
)

// ValidationError reports a request rejected before extraction.
type ValidationError struct {
	Kind ErrorKind
	Err  error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for the given kind.
func NewValidationError(kind ErrorKind) *ValidationError {
	err := ErrMissingURL
	if kind == KindInvalidURL {
		err = ErrInvalidURL
	}
	return &ValidationError{Kind: kind, Err: err}
}

// extractionSentinels maps each extraction kind to its sentinel.
var extractionSentinels = map[ErrorKind]error{
	KindUnsupportedURL:      ErrUnsupportedURL,
	KindPrivateOrRemoved:    ErrPrivateOrRemoved,
	KindUpstreamUnavailable: ErrUpstreamUnavailable,
	KindTimeout:             ErrExtractionTimeout,
	KindDiskIO:              ErrDiskIO,
}

// ExtractionError wraps a failure reported by the retrieval library.
// Detail carries the library's own message for logs; it is never sent to clients.
type ExtractionError struct {
	Kind   ErrorKind
	Op     string
	Detail string
}

func (e *ExtractionError) Error() string {
	msg := e.Op + ": " + e.sentinel().Error()
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// Unwrap lets errors.Is match the kind's sentinel error.
func (e *ExtractionError) Unwrap() error {
	return e.sentinel()
}

func (e *ExtractionError) sentinel() error {
	if err, ok := extractionSentinels[e.Kind]; ok {
		return err
	}
	return ErrUpstreamUnavailable
}

// NewExtractionError creates a new ExtractionError.
func NewExtractionError(kind ErrorKind, op, detail string) *ExtractionError {
	return &ExtractionError{
		Kind:   kind,
		Op:     op,
		Detail: detail,
	}
}

// KindOf returns the client-facing kind of err, or KindInternal when err is
// neither a ValidationError nor an ExtractionError.
func KindOf(err error) ErrorKind {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Kind
	}
	var ee *ExtractionError
	if errors.As(err, &ee) {
		return ee.Kind
	}
	return KindInternal
}
