// Package verifier defines the scheme-independent signature verification contract
// and the error taxonomy every scheme maps its failures into.
package verifier

import (
	"fmt"
	"strings"
)

// SignatureVerifier checks a signature over a text message against a signer identity.
// All three inputs are text encodings (hex, base58, ...) so values can be passed
// straight from JSON or form input without pre-decoding.
//
// Verify returns nil only when the signature is well formed, cryptographically valid
// for the message and matches the signer. Any other outcome is a *VerifyError.
// Implementations hold no state between calls and are safe for concurrent use.
type SignatureVerifier interface {
	Verify(signature, message, signer string) error
}

// NamedVerifier is a SignatureVerifier that reports which scheme it implements.
type NamedVerifier interface {
	SignatureVerifier

	// Scheme returns the unique identifier for this verifier
	Scheme() Scheme
}

type Scheme string

func (s Scheme) String() string {
	return string(s)
}

const (
	SchemeEthereum Scheme = "ethereum"
	SchemeSolana   Scheme = "solana"
)

// KnownSchemes returns every scheme this module knows how to verify,
// regardless of which ones are compiled into a particular binary.
func KnownSchemes() []Scheme {
	return []Scheme{
		SchemeEthereum,
		SchemeSolana,
	}
}

// ParseScheme normalises a scheme name and checks it against KnownSchemes.
func ParseScheme(name string) (Scheme, error) {
	s := Scheme(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range KnownSchemes() {
		if s == known {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown signature scheme: %q", name)
}
