package main

import (
	"sort"

	"github.com/Layr-Labs/chain-sigverify/pkg/config"
	"github.com/Layr-Labs/chain-sigverify/pkg/registry"
	"github.com/Layr-Labs/chain-sigverify/pkg/verifier"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// schemeSupport is what a scheme_*.go file contributes to the binary.
type schemeSupport struct {
	newVerifier func() verifier.NamedVerifier
	// sign returns the encoded signature and the signer identity for privateKey
	sign func(privateKey, message string) (signature string, signer string, err error)
}

// compiledSchemes is filled by the scheme_*.go files, each guarded by a
// no_<scheme> build tag so a binary only links the schemes it needs.
var compiledSchemes = map[verifier.Scheme]schemeSupport{}

func compiledSchemeNames() []verifier.Scheme {
	names := make([]verifier.Scheme, 0, len(compiledSchemes))
	for name := range compiledSchemes {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// buildRegistry registers every compiled-in scheme the config enables.
func buildRegistry(cfg *config.Config, logger *zap.Logger) (*registry.Registry, error) {
	for _, scheme := range cfg.EnabledSchemes {
		if _, ok := compiledSchemes[scheme]; !ok {
			return nil, errors.Errorf("scheme %q is enabled but not compiled into this binary (compiled: %v)", scheme, compiledSchemeNames())
		}
	}

	reg := registry.NewRegistry(logger)
	for _, scheme := range compiledSchemeNames() {
		if !cfg.SchemeEnabled(scheme) {
			continue
		}
		if err := reg.Register(compiledSchemes[scheme].newVerifier()); err != nil {
			return nil, errors.Wrapf(err, "failed to register %s verifier", scheme)
		}
	}

	if reg.Count() == 0 {
		return nil, errors.New("no signature schemes are enabled")
	}
	return reg, nil
}
