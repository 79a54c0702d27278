package verifier

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyErrorIs(t *testing.T) {
	enc := InvalidEncoding("odd length hex string")
	sig := InvalidSignature()

	assert.True(t, errors.Is(enc, ErrInvalidEncoding))
	assert.False(t, errors.Is(enc, ErrInvalidSignature))
	assert.True(t, errors.Is(sig, ErrInvalidSignature))
	assert.False(t, errors.Is(sig, ErrInvalidEncoding))

	wrapped := fmt.Errorf("verifying request: %w", enc)
	assert.True(t, errors.Is(wrapped, ErrInvalidEncoding))
	assert.False(t, errors.Is(errors.New("other"), ErrInvalidEncoding))
}

func TestVerifyErrorMessage(t *testing.T) {
	assert.Equal(t, "odd length hex string", InvalidEncoding("odd length hex string").Error())
	assert.Equal(t, "invalid encoding", InvalidEncoding("").Error())
	assert.Equal(t, "signature is invalid", InvalidSignature().Error())
	assert.Equal(t, "verification failed", (&VerifyError{}).Error())
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Kind
	}{
		{"nil", nil, KindUnknown},
		{"foreign error", errors.New("boom"), KindUnknown},
		{"encoding", InvalidEncoding("bad"), KindInvalidEncoding},
		{"signature", InvalidSignature(), KindInvalidSignature},
		{"wrapped", fmt.Errorf("outer: %w", InvalidSignature()), KindInvalidSignature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, KindOf(tt.err))
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "invalid_encoding", KindInvalidEncoding.String())
	assert.Equal(t, "invalid_signature", KindInvalidSignature.String())
	assert.Equal(t, "unknown", KindUnknown.String())
	assert.Equal(t, "unknown", Kind(42).String())
}

func TestParseScheme(t *testing.T) {
	tests := []struct {
		input    string
		expected Scheme
		wantErr  bool
	}{
		{"ethereum", SchemeEthereum, false},
		{" Ethereum ", SchemeEthereum, false},
		{"SOLANA", SchemeSolana, false},
		{"bitcoin", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			s, err := ParseScheme(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, s)
		})
	}
}
