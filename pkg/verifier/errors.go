package verifier

import "errors"

// Kind classifies a verification failure. Only the kind is a stable contract;
// the detail carried alongside it is for diagnostics.
type Kind int

const (
	KindUnknown Kind = iota
	// KindInvalidEncoding covers any malformed input: bad hex or base58, a wrong
	// decoded length, an unparsable public key.
	KindInvalidEncoding
	// KindInvalidSignature covers well-formed input that failed the cryptographic
	// check, including rejections raised by the primitive itself.
	KindInvalidSignature
)

func (k Kind) String() string {
	switch k {
	case KindInvalidEncoding:
		return "invalid_encoding"
	case KindInvalidSignature:
		return "invalid_signature"
	default:
		return "unknown"
	}
}

// VerifyError is the only error type a SignatureVerifier returns.
type VerifyError struct {
	Kind   Kind
	Detail string
}

var (
	ErrInvalidEncoding  = &VerifyError{Kind: KindInvalidEncoding}
	ErrInvalidSignature = &VerifyError{Kind: KindInvalidSignature}
)

// InvalidEncoding builds an encoding failure carrying the underlying cause.
func InvalidEncoding(detail string) *VerifyError {
	return &VerifyError{Kind: KindInvalidEncoding, Detail: detail}
}

// InvalidSignature builds a signature failure.
func InvalidSignature() *VerifyError {
	return &VerifyError{Kind: KindInvalidSignature}
}

func (e *VerifyError) Error() string {
	switch e.Kind {
	case KindInvalidEncoding:
		if e.Detail == "" {
			return "invalid encoding"
		}
		return e.Detail
	case KindInvalidSignature:
		return "signature is invalid"
	default:
		return "verification failed"
	}
}

// Is matches any VerifyError of the same kind, so callers can write
// errors.Is(err, verifier.ErrInvalidSignature).
func (e *VerifyError) Is(target error) bool {
	t, ok := target.(*VerifyError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf extracts the failure kind from err. It returns KindUnknown for nil
// and for errors that did not come from a verifier.
func KindOf(err error) Kind {
	var ve *VerifyError
	if errors.As(err, &ve) {
		return ve.Kind
	}
	return KindUnknown
}
