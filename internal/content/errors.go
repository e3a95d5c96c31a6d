package content

import (
	"errors"
	"fmt"
)

// Kind distinguishes why content could not be loaded.
type Kind int

const (
	KindNetwork Kind = iota + 1
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

var (
	// ErrNetwork matches load errors caused by a failed or rejected fetch.
	ErrNetwork = errors.New("network error")
	// ErrDecode matches load errors caused by undecodable content.
	ErrDecode = errors.New("decode error")
)

// LoadError reports a content load failure and its cause.
type LoadError struct {
	Kind Kind
	URL  string
	Err  error
}

func (e *LoadError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.URL, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match the kind sentinels.
func (e *LoadError) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrDecode:
		return e.Kind == KindDecode
	}
	return false
}

// NetworkError wraps a fetch failure.
func NetworkError(url string, err error) error {
	return &LoadError{Kind: KindNetwork, URL: url, Err: err}
}

// DecodeError wraps a decode or parse failure.
func DecodeError(url string, err error) error {
	return &LoadError{Kind: KindDecode, URL: url, Err: err}
}

// KindOf returns the kind of a load error, or 0 for other errors.
func KindOf(err error) Kind {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Kind
	}
	return 0
}
