package ethereum

import (
	"crypto/ecdsa"
	"fmt"
	"strconv"
	"strings"

	"github.com/Layr-Labs/chain-sigverify/pkg/verifier"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

/*
Ethereum personal_sign verification

Wallets sign text with the personal_sign convention, which never signs the raw
message. Instead they sign:

  keccak256("\x19Ethereum Signed Message:\n" || len(message) || message)

where len(message) is the decimal byte length of the message. The signature is
65 bytes, r || s || v, with v carrying the recovery id offset by 27.

Verification recovers the signer's public key from (digest, r || s, v - 27),
derives its address and compares it with the expected address. The comparison
is case-insensitive, so EIP-55 checksum casing is accepted but never enforced.
*/

const (
	// SignatureLength is the length of r || s || v in bytes
	SignatureLength = 65

	// RecoveryIDOffset is added to the raw 0/1 recovery id by Ethereum signers
	RecoveryIDOffset = 27

	PersonalMessagePrefix = "\x19Ethereum Signed Message:\n"
)

// Ensure our types implement the interfaces at compile time.
var _ verifier.NamedVerifier = (*Verifier)(nil)

// Verifier checks personal_sign signatures against an Ethereum address.
type Verifier struct{}

// NewVerifier creates a new Ethereum signature verifier
func NewVerifier() *Verifier {
	return &Verifier{}
}

// Scheme returns the identifier for this verifier
func (v *Verifier) Scheme() verifier.Scheme {
	return verifier.SchemeEthereum
}

// Verify checks a hex encoded 65 byte signature over message against the
// expected signer address.
func (v *Verifier) Verify(signature, message, signer string) error {
	recovered, err := RecoverAddress(signature, message)
	if err != nil {
		return err
	}

	if strings.ToLower(signer) != strings.ToLower(recovered.Hex()) {
		return verifier.InvalidSignature()
	}
	return nil
}

// PersonalMessageDigest returns the keccak256 personal_sign digest of message.
func PersonalMessageDigest(message string) []byte {
	framed := PersonalMessagePrefix + strconv.Itoa(len(message)) + message
	return crypto.Keccak256([]byte(framed))
}

// RecoverAddress recovers the address that produced signature over message.
// Errors are always *verifier.VerifyError.
func RecoverAddress(signature, message string) (common.Address, error) {
	digest := PersonalMessageDigest(message)

	sig, err := decodeSignature(signature)
	if err != nil {
		return common.Address{}, err
	}

	// The last byte carries the recovery id offset by 27. Only ids 0 and 1 are
	// canonical; the pure Go secp256k1 backend would otherwise read higher bits
	// as compact-header flags and still recover a key.
	sig[SignatureLength-1] -= RecoveryIDOffset
	if sig[SignatureLength-1] > 1 {
		return common.Address{}, verifier.InvalidSignature()
	}

	pubKey, err := crypto.SigToPub(digest, sig)
	if err != nil {
		return common.Address{}, fromRecoveryError(err)
	}
	return crypto.PubkeyToAddress(*pubKey), nil
}

// SignPersonalMessage signs message with the personal_sign convention and returns
// the 0x prefixed hex signature with v in {27, 28}.
func SignPersonalMessage(privateKey *ecdsa.PrivateKey, message string) (string, error) {
	if privateKey == nil {
		return "", fmt.Errorf("private key is nil")
	}

	sig, err := crypto.Sign(PersonalMessageDigest(message), privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign message: %w", err)
	}
	sig[SignatureLength-1] += RecoveryIDOffset

	return hexutil.Encode(sig), nil
}

// ParsePrivateKey parses a hex encoded secp256k1 private key, with or without 0x.
func ParsePrivateKey(privateKeyHex string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimPrefix(privateKeyHex, "0x"), "0X"))
	if err != nil {
		return nil, fmt.Errorf("could not parse ethereum private key: %w", err)
	}
	return key, nil
}

// decodeSignature hex-decodes signature, tolerating a missing 0x prefix, and
// checks that it is exactly SignatureLength bytes.
func decodeSignature(signature string) ([]byte, error) {
	if !has0xPrefix(signature) {
		signature = "0x" + signature
	}

	sig, err := hexutil.Decode(signature)
	if err != nil {
		return nil, fromHexError(err)
	}

	if len(sig) != SignatureLength {
		return nil, verifier.InvalidEncoding(fmt.Sprintf(
			"the signature has wrong length: %d, expected: %d",
			len(sig), SignatureLength,
		))
	}
	return sig, nil
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// fromHexError classifies hexutil decoding failures.
func fromHexError(err error) *verifier.VerifyError {
	return verifier.InvalidEncoding(err.Error())
}

// fromRecoveryError classifies secp256k1 public key recovery failures. The
// recovery primitive rejects out-of-range recovery ids and invalid curve points
// alike; both mean the signature does not verify.
func fromRecoveryError(_ error) *verifier.VerifyError {
	return verifier.InvalidSignature()
}
