package solana

import (
	"crypto/ed25519"
	"crypto/rand"
	"strings"
	"testing"

	"github.com/Layr-Labs/chain-sigverify/pkg/verifier"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testMessage = "hello, world!"
	// signature || "hello, world!" as produced by a NaCl sign() helper
	testAttachedSignature = "v6qvVankHP2h3zEH2P4n1yiW3QnXWWSpVYTGfWUnheYG6bUeTsh1mQj7SUpTn54t2PUgwD7vhFZ9Tso5yypv9pCDDUJ6UQRkoQS6CfFxt"
	// the leading 64 bytes of testAttachedSignature
	testDetachedSignature = "3VSUNcuHjrgMq2BeEJpEptzbZEwcHgB34JdFZ6c8WAptwSGTfi1Ax1d4VsQ1NVcTzQhn5LaAgwEHs6MWvF4qx9R1"
	testSigner            = "9F5eiDYrZ4X9Eas4ovxaM6LgGhFXc4aRXPUFnuxP2P7U"
)

func TestNewVerifier(t *testing.T) {
	v := NewVerifier()
	assert.NotNil(t, v)
	assert.Equal(t, verifier.SchemeSolana, v.Scheme())
}

func TestVerifyReferenceVectors(t *testing.T) {
	v := NewVerifier()

	t.Run("valid signature is ok", func(t *testing.T) {
		require.NoError(t, v.Verify(testAttachedSignature, testMessage, testSigner))
	})

	t.Run("valid detached signature is ok", func(t *testing.T) {
		require.NoError(t, v.Verify(testDetachedSignature, testMessage, testSigner))
	})

	t.Run("wrong message declined", func(t *testing.T) {
		err := v.Verify(testAttachedSignature, "helloworld!", testSigner)
		require.Error(t, err)
		assert.ErrorIs(t, err, verifier.ErrInvalidSignature)

		err = v.Verify(testDetachedSignature, "helloworld!", testSigner)
		assert.ErrorIs(t, err, verifier.ErrInvalidSignature)
	})

	t.Run("wrong signature declined", func(t *testing.T) {
		corrupted := "xxx" + testAttachedSignature[3:]
		err := v.Verify(corrupted, testMessage, testSigner)
		require.Error(t, err)
		assert.ErrorIs(t, err, verifier.ErrInvalidSignature)
	})

	t.Run("different signer declined", func(t *testing.T) {
		pub, _, err := ed25519.GenerateKey(rand.Reader)
		require.NoError(t, err)

		err = v.Verify(testDetachedSignature, testMessage, EncodePublicKey(pub))
		assert.ErrorIs(t, err, verifier.ErrInvalidSignature)
	})
}

func TestVerifySignatureEncoding(t *testing.T) {
	v := NewVerifier()

	tests := []struct {
		name      string
		signature string
	}{
		{"empty", ""},
		{"zero is not in the alphabet", "0" + testDetachedSignature[1:]},
		{"capital O is not in the alphabet", "O" + testDetachedSignature[1:]},
		{"capital I is not in the alphabet", testDetachedSignature[:10] + "I" + testDetachedSignature[11:]},
		{"lowercase l is not in the alphabet", "l" + testDetachedSignature},
		{"hex looking input", "0x" + testDetachedSignature},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Verify(tt.signature, testMessage, testSigner)
			require.Error(t, err)
			assert.ErrorIs(t, err, verifier.ErrInvalidEncoding)
		})
	}
}

func TestVerifyShortSignature(t *testing.T) {
	v := NewVerifier()
	raw, err := base58.Decode(testDetachedSignature)
	require.NoError(t, err)

	for _, n := range []int{1, 32, 63} {
		err := v.Verify(base58.Encode(raw[:n]), testMessage, testSigner)
		require.Error(t, err)
		assert.ErrorIs(t, err, verifier.ErrInvalidSignature, "length %d", n)
	}
}

func TestVerifyPublicKey(t *testing.T) {
	v := NewVerifier()

	tests := []struct {
		name   string
		signer string
	}{
		{"empty", ""},
		{"invalid alphabet", "0F5eiDYrZ4X9Eas4ovxaM6LgGhFXc4aRXPUFnuxP2P7U"},
		{"too short", testSigner[:20]},
		{"too long", testSigner + testSigner},
		{"33 bytes", base58.Encode(make([]byte, 33))},
		{"31 bytes", base58.Encode(append([]byte{1}, make([]byte, 30)...))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Verify(testDetachedSignature, testMessage, tt.signer)
			require.Error(t, err)
			assert.ErrorIs(t, err, verifier.ErrInvalidEncoding)
		})
	}
}

func TestParsePublicKey(t *testing.T) {
	pub, err := ParsePublicKey(testSigner)
	require.NoError(t, err)
	assert.Len(t, pub, PublicKeyLength)
	assert.Equal(t, testSigner, EncodePublicKey(pub))

	_, err = ParsePublicKey(strings.Repeat("1", 45))
	assert.ErrorIs(t, err, ErrPublicKeyWrongSize)

	_, err = ParsePublicKey("not+base58")
	assert.ErrorIs(t, err, ErrPublicKeyInvalid)

	_, err = ParsePublicKey(base58.Encode([]byte("short")))
	assert.ErrorIs(t, err, ErrPublicKeyWrongSize)
}

func TestVerifyBitFlips(t *testing.T) {
	v := NewVerifier()
	raw, err := base58.Decode(testDetachedSignature)
	require.NoError(t, err)

	for i := 0; i < SignatureLength; i++ {
		sig := make([]byte, len(raw))
		copy(sig, raw)
		sig[i] ^= 0x01

		err := v.Verify(base58.Encode(sig), testMessage, testSigner)
		require.Error(t, err, "byte %d", i)
		assert.ErrorIs(t, err, verifier.ErrInvalidSignature, "byte %d", i)
	}
}

func TestVerifyMessageIsNotFramed(t *testing.T) {
	v := NewVerifier()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	sig := base58.Encode(ed25519.Sign(priv, []byte(testMessage)))
	assert.NoError(t, v.Verify(sig, testMessage, EncodePublicKey(pub)))
}

func TestSignRoundTrip(t *testing.T) {
	v := NewVerifier()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer := EncodePublicKey(pub)

	for _, msg := range []string{"", testMessage, "ünïcødé ✓", strings.Repeat("m", 4096)} {
		detached := Sign(priv, msg)
		assert.NoError(t, v.Verify(detached, msg, signer))
		assert.ErrorIs(t, v.Verify(detached, msg+"!", signer), verifier.ErrInvalidSignature)

		attached := SignAttached(priv, msg)
		assert.NoError(t, v.Verify(attached, msg, signer))
		assert.ErrorIs(t, v.Verify(attached, msg+"!", signer), verifier.ErrInvalidSignature)
	}
}

func TestParsePrivateKey(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	t.Run("keypair", func(t *testing.T) {
		key, err := ParsePrivateKey(base58.Encode(priv))
		require.NoError(t, err)
		assert.Equal(t, pub, key.Public())
	})

	t.Run("seed", func(t *testing.T) {
		key, err := ParsePrivateKey(base58.Encode(priv.Seed()))
		require.NoError(t, err)
		assert.Equal(t, pub, key.Public())
	})

	t.Run("mismatched keypair", func(t *testing.T) {
		other, _, err := ed25519.GenerateKey(rand.Reader)
		require.NoError(t, err)
		tampered := append(append([]byte{}, priv.Seed()...), other...)

		_, err = ParsePrivateKey(base58.Encode(tampered))
		assert.Error(t, err)
	})

	t.Run("wrong size", func(t *testing.T) {
		_, err := ParsePrivateKey(base58.Encode(make([]byte, 16)))
		assert.Error(t, err)
	})

	t.Run("bad encoding", func(t *testing.T) {
		_, err := ParsePrivateKey("0OIl")
		assert.Error(t, err)
	})
}

func TestVerifyIdempotent(t *testing.T) {
	v := NewVerifier()
	for i := 0; i < 5; i++ {
		assert.NoError(t, v.Verify(testAttachedSignature, testMessage, testSigner))
		assert.ErrorIs(t, v.Verify(testAttachedSignature, "helloworld!", testSigner), verifier.ErrInvalidSignature)
	}
}
