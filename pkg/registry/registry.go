package registry

import (
	"sort"
	"sync"

	"github.com/Layr-Labs/chain-sigverify/pkg/verifier"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	ErrNilVerifier       = errors.New("verifier is nil")
	ErrUnnamedVerifier   = errors.New("verifier has empty scheme name")
	ErrUnsupportedScheme = errors.New("signature scheme is not registered")
)

// Registry manages the verifiers compiled into a process and routes
// verification requests to the one registered for a scheme.
type Registry struct {
	verifiers map[verifier.Scheme]verifier.NamedVerifier
	mu        sync.RWMutex
	logger    *zap.Logger
}

// NewRegistry creates an empty registry
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		verifiers: make(map[verifier.Scheme]verifier.NamedVerifier),
		logger:    logger,
	}
}

// Register adds a verifier under its scheme name.
// If a verifier for the same scheme already exists, it will be replaced.
func (r *Registry) Register(v verifier.NamedVerifier) error {
	if v == nil {
		return ErrNilVerifier
	}

	scheme := v.Scheme()
	if scheme == "" {
		return ErrUnnamedVerifier
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.verifiers[scheme] = v
	r.logger.Sugar().Infow("Registered signature verifier", "scheme", scheme)

	return nil
}

// Unregister removes the verifier for scheme
func (r *Registry) Unregister(scheme verifier.Scheme) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.verifiers, scheme)
	r.logger.Sugar().Infow("Unregistered signature verifier", "scheme", scheme)
}

// Has checks if a scheme is registered
func (r *Registry) Has(scheme verifier.Scheme) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.verifiers[scheme]
	return exists
}

// Schemes returns the registered scheme names in sorted order
func (r *Registry) Schemes() []verifier.Scheme {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schemes := make([]verifier.Scheme, 0, len(r.verifiers))
	for scheme := range r.verifiers {
		schemes = append(schemes, scheme)
	}
	sort.Slice(schemes, func(i, j int) bool { return schemes[i] < schemes[j] })
	return schemes
}

// Count returns the number of registered verifiers
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.verifiers)
}

// Get returns the verifier registered for scheme.
func (r *Registry) Get(scheme verifier.Scheme) (verifier.SignatureVerifier, error) {
	r.mu.RLock()
	v, exists := r.verifiers[scheme]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.Wrapf(ErrUnsupportedScheme, "scheme %q (available: %v)", scheme, r.Schemes())
	}
	return v, nil
}

// Verify routes a verification to the verifier registered for scheme.
// Verification failures are returned unwrapped so callers can inspect the
// *verifier.VerifyError kind; an unknown scheme yields ErrUnsupportedScheme.
func (r *Registry) Verify(scheme verifier.Scheme, signature, message, signer string) error {
	v, err := r.Get(scheme)
	if err != nil {
		return err
	}

	if err := v.Verify(signature, message, signer); err != nil {
		r.logger.Sugar().Warnw("Signature verification failed",
			"scheme", scheme,
			"signer", signer,
			"kind", verifier.KindOf(err).String(),
			"error", err,
		)
		return err
	}

	r.logger.Sugar().Debugw("Signature verified", "scheme", scheme, "signer", signer)
	return nil
}
