//go:build !no_ethereum

package main

import (
	"github.com/Layr-Labs/chain-sigverify/pkg/verifier"
	"github.com/Layr-Labs/chain-sigverify/pkg/verifier/ethereum"
	"github.com/ethereum/go-ethereum/crypto"
)

func init() {
	compiledSchemes[verifier.SchemeEthereum] = schemeSupport{
		newVerifier: func() verifier.NamedVerifier { return ethereum.NewVerifier() },
		sign:        signEthereum,
	}
}

func signEthereum(privateKey, message string) (string, string, error) {
	key, err := ethereum.ParsePrivateKey(privateKey)
	if err != nil {
		return "", "", err
	}
	sig, err := ethereum.SignPersonalMessage(key, message)
	if err != nil {
		return "", "", err
	}
	return sig, crypto.PubkeyToAddress(key.PublicKey).Hex(), nil
}
