package usecase

import (
	"context"
	"sync"

	authzDomain "github.com/allisson/gatekeeper/internal/authz/domain"
	apperrors "github.com/allisson/gatekeeper/internal/errors"
)

// RegistryPolicyProvider is an in-process PolicyProvider backed by a map of
// policies registered at startup. Useful for assertion-based policies, which
// hold code and cannot be stored.
type RegistryPolicyProvider struct {
	mu            sync.RWMutex
	policies      map[string]*authzDomain.Policy
	defaultPolicy *authzDomain.Policy
}

// NewRegistryPolicyProvider creates an empty registry provider.
func NewRegistryPolicyProvider() *RegistryPolicyProvider {
	return &RegistryPolicyProvider{
		policies: make(map[string]*authzDomain.Policy),
	}
}

// Register adds a policy under its own name, replacing any previous policy
// with that name.
func (r *RegistryPolicyProvider) Register(policy *authzDomain.Policy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.policies[policy.Name()] = policy
}

// SetDefaultPolicy sets the policy applied to unmarked endpoints.
func (r *RegistryPolicyProvider) SetDefaultPolicy(policy *authzDomain.Policy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaultPolicy = policy
}

// GetPolicy implements PolicyProvider.
func (r *RegistryPolicyProvider) GetPolicy(ctx context.Context, name string) (*authzDomain.Policy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	policy, ok := r.policies[name]
	if !ok {
		return nil, apperrors.Wrap(authzDomain.ErrPolicyRefNotFound, name)
	}
	return policy, nil
}

// GetDefaultPolicy implements PolicyProvider.
func (r *RegistryPolicyProvider) GetDefaultPolicy(ctx context.Context) (*authzDomain.Policy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultPolicy, nil
}

// repositoryPolicyProvider resolves policies from the policy repository,
// compiling stored documents on every lookup so policy changes take effect
// without a restart.
type repositoryPolicyProvider struct {
	policyRepo        PolicyRepository
	defaultPolicyName string
}

// NewRepositoryPolicyProvider creates a PolicyProvider backed by stored
// policies. defaultPolicyName selects the policy for unmarked endpoints;
// empty means no default.
func NewRepositoryPolicyProvider(policyRepo PolicyRepository, defaultPolicyName string) PolicyProvider {
	return &repositoryPolicyProvider{
		policyRepo:        policyRepo,
		defaultPolicyName: defaultPolicyName,
	}
}

// GetPolicy implements PolicyProvider. A missing stored policy surfaces as
// ErrPolicyRefNotFound: an endpoint referencing it is misconfigured.
func (r *repositoryPolicyProvider) GetPolicy(ctx context.Context, name string) (*authzDomain.Policy, error) {
	stored, err := r.policyRepo.Get(ctx, name)
	if err != nil {
		if apperrors.Is(err, authzDomain.ErrPolicyNotFound) {
			return nil, apperrors.Wrap(authzDomain.ErrPolicyRefNotFound, name)
		}
		return nil, err
	}
	return stored.Compile()
}

// GetDefaultPolicy implements PolicyProvider.
func (r *repositoryPolicyProvider) GetDefaultPolicy(ctx context.Context) (*authzDomain.Policy, error) {
	if r.defaultPolicyName == "" {
		return nil, nil
	}
	return r.GetPolicy(ctx, r.defaultPolicyName)
}

// fallbackPolicyProvider consults a primary provider and falls back to a
// secondary one for names the primary cannot resolve. Lets registered
// assertion policies coexist with stored policies.
type fallbackPolicyProvider struct {
	primary   PolicyProvider
	secondary PolicyProvider
}

// NewFallbackPolicyProvider chains two providers. The default policy comes
// from the primary unless it has none.
func NewFallbackPolicyProvider(primary, secondary PolicyProvider) PolicyProvider {
	return &fallbackPolicyProvider{
		primary:   primary,
		secondary: secondary,
	}
}

// GetPolicy implements PolicyProvider.
func (f *fallbackPolicyProvider) GetPolicy(ctx context.Context, name string) (*authzDomain.Policy, error) {
	policy, err := f.primary.GetPolicy(ctx, name)
	if err == nil {
		return policy, nil
	}
	if apperrors.Is(err, authzDomain.ErrPolicyRefNotFound) {
		return f.secondary.GetPolicy(ctx, name)
	}
	return nil, err
}

// GetDefaultPolicy implements PolicyProvider.
func (f *fallbackPolicyProvider) GetDefaultPolicy(ctx context.Context) (*authzDomain.Policy, error) {
	policy, err := f.primary.GetDefaultPolicy(ctx)
	if err != nil {
		return nil, err
	}
	if policy != nil {
		return policy, nil
	}
	return f.secondary.GetDefaultPolicy(ctx)
}
