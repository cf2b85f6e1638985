package track

import "errors"

// Analysis errors. Callers classify failures with errors.Is; every path that
// returns one of these wraps it with request detail via fmt.Errorf.
var (
	// ErrMissingCredential means no API key was configured for a provider
	// that requires one. Returned before any network activity.
	ErrMissingCredential = errors.New("missing API credential")

	// ErrEmptyInput means the request carried no usable input (blank term,
	// fewer than two comparison terms, empty corpus text). Returned before
	// any network activity.
	ErrEmptyInput = errors.New("empty input")

	// ErrUpstream means the provider call failed or its output could not be
	// validated into a typed report.
	ErrUpstream = errors.New("upstream analysis failed")
)
