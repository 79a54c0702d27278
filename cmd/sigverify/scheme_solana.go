//go:build !no_solana

package main

import (
	"crypto/ed25519"

	"github.com/Layr-Labs/chain-sigverify/pkg/verifier"
	"github.com/Layr-Labs/chain-sigverify/pkg/verifier/solana"
)

func init() {
	compiledSchemes[verifier.SchemeSolana] = schemeSupport{
		newVerifier: func() verifier.NamedVerifier { return solana.NewVerifier() },
		sign:        signSolana,
	}
}

func signSolana(privateKey, message string) (string, string, error) {
	key, err := solana.ParsePrivateKey(privateKey)
	if err != nil {
		return "", "", err
	}
	pub := key.Public().(ed25519.PublicKey)
	return solana.Sign(key, message), solana.EncodePublicKey(pub), nil
}
