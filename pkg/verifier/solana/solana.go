package solana

import (
	"bytes"
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/Layr-Labs/chain-sigverify/pkg/verifier"
	"github.com/mr-tron/base58"
)

/*
Solana message verification

Solana wallets sign the raw message bytes with Ed25519; nothing is hashed or
framed. Signatures and public keys travel as base58 strings.

Two signature layouts are accepted:
  - detached: the 64 byte Ed25519 signature
  - signed message: the 64 byte signature followed by the signed bytes, as
    produced by NaCl style sign() helpers. The trailing bytes must equal the
    message being verified.
*/

const (
	SignatureLength = ed25519.SignatureSize
	PublicKeyLength = ed25519.PublicKeySize

	// maxBase58PublicKeyLength is the longest base58 string a 32 byte key encodes to
	maxBase58PublicKeyLength = 44
)

var (
	ErrPublicKeyWrongSize = errors.New("string decoded to wrong size for pubkey")
	ErrPublicKeyInvalid   = errors.New("invalid base58 string")

	errSignatureTooShort = errors.New("signature is shorter than 64 bytes")
)

// Ensure our types implement the interfaces at compile time.
var _ verifier.NamedVerifier = (*Verifier)(nil)

// Verifier checks Ed25519 signatures against a base58 Solana public key.
type Verifier struct{}

// NewVerifier creates a new Solana signature verifier
func NewVerifier() *Verifier {
	return &Verifier{}
}

// Scheme returns the identifier for this verifier
func (v *Verifier) Scheme() verifier.Scheme {
	return verifier.SchemeSolana
}

// Verify checks a base58 signature over the raw message bytes against the
// base58 encoded signer public key.
func (v *Verifier) Verify(signature, message, signer string) error {
	sig, err := decodeSignature(signature)
	if err != nil {
		return err
	}

	pubKey, err := ParsePublicKey(signer)
	if err != nil {
		return fromPublicKeyError(err)
	}

	ok, err := verifyEd25519(sig, []byte(message), pubKey)
	if err != nil {
		return fromEd25519Error(err)
	}
	return fromEd25519Result(ok)
}

// ParsePublicKey decodes a base58 Solana address into an Ed25519 public key.
func ParsePublicKey(address string) (ed25519.PublicKey, error) {
	if len(address) > maxBase58PublicKeyLength {
		return nil, ErrPublicKeyWrongSize
	}

	raw, err := base58.Decode(address)
	if err != nil {
		return nil, ErrPublicKeyInvalid
	}
	if len(raw) != PublicKeyLength {
		return nil, ErrPublicKeyWrongSize
	}
	return ed25519.PublicKey(raw), nil
}

// EncodePublicKey returns the base58 Solana address of pubKey.
func EncodePublicKey(pubKey ed25519.PublicKey) string {
	return base58.Encode(pubKey)
}

// ParsePrivateKey accepts a base58 encoded 64 byte Solana keypair or a 32 byte seed.
func ParsePrivateKey(encoded string) (ed25519.PrivateKey, error) {
	raw, err := base58.Decode(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode private key: %w", err)
	}

	switch len(raw) {
	case ed25519.PrivateKeySize:
		key := ed25519.PrivateKey(raw)
		derived := ed25519.NewKeyFromSeed(raw[:ed25519.SeedSize])
		if !bytes.Equal(derived[ed25519.SeedSize:], raw[ed25519.SeedSize:]) {
			return nil, fmt.Errorf("keypair public half does not match its seed")
		}
		return key, nil
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(raw), nil
	default:
		return nil, fmt.Errorf("private key must be %d or %d bytes, got %d",
			ed25519.PrivateKeySize, ed25519.SeedSize, len(raw))
	}
}

// Sign returns the base58 detached signature of message.
func Sign(privateKey ed25519.PrivateKey, message string) string {
	return base58.Encode(ed25519.Sign(privateKey, []byte(message)))
}

// SignAttached returns the base58 signed message form: signature || message.
func SignAttached(privateKey ed25519.PrivateKey, message string) string {
	sig := ed25519.Sign(privateKey, []byte(message))
	return base58.Encode(append(sig, message...))
}

func decodeSignature(signature string) ([]byte, error) {
	sig, err := base58.Decode(signature)
	if err != nil {
		return nil, fromBase58Error(err)
	}
	if len(sig) == 0 {
		return nil, verifier.InvalidEncoding("signature decoded to zero bytes")
	}
	return sig, nil
}

// verifyEd25519 checks sig over message. sig is either detached or in the
// signed message layout; anything shorter than a signature is a primitive
// level failure.
func verifyEd25519(sig, message []byte, pubKey ed25519.PublicKey) (bool, error) {
	if len(sig) < SignatureLength {
		return false, errSignatureTooShort
	}
	if len(sig) > SignatureLength {
		if !bytes.Equal(sig[SignatureLength:], message) {
			return false, nil
		}
		sig = sig[:SignatureLength]
	}
	return ed25519.Verify(pubKey, message, sig), nil
}

// fromBase58Error classifies base58 decoding failures.
func fromBase58Error(err error) *verifier.VerifyError {
	return verifier.InvalidEncoding(err.Error())
}

// fromPublicKeyError classifies public key parsing failures.
func fromPublicKeyError(err error) *verifier.VerifyError {
	return verifier.InvalidEncoding(err.Error())
}

// fromEd25519Error classifies failures raised by the Ed25519 check itself.
func fromEd25519Error(_ error) *verifier.VerifyError {
	return verifier.InvalidSignature()
}

// fromEd25519Result maps the boolean verification outcome.
func fromEd25519Result(ok bool) error {
	if !ok {
		return verifier.InvalidSignature()
	}
	return nil
}
