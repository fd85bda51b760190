package usecase

import (
	"context"
	"time"

	authzDomain "github.com/allisson/gatekeeper/internal/authz/domain"
	"github.com/allisson/gatekeeper/internal/metrics"
)

// policyUseCaseWithMetrics decorates PolicyUseCase with metrics instrumentation.
type policyUseCaseWithMetrics struct {
	next    PolicyUseCase
	metrics metrics.AuthzMetrics
}

// NewPolicyUseCaseWithMetrics wraps a PolicyUseCase with metrics recording.
func NewPolicyUseCaseWithMetrics(useCase PolicyUseCase, m metrics.AuthzMetrics) PolicyUseCase {
	return &policyUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Create records metrics for policy creation operations.
func (p *policyUseCaseWithMetrics) Create(
	ctx context.Context,
	input *authzDomain.CreatePolicyInput,
) (*authzDomain.StoredPolicy, error) {
	start := time.Now()
	policy, err := p.next.Create(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	p.metrics.RecordOperation(ctx, "policy_create", status)
	p.metrics.RecordDuration(ctx, "policy_create", time.Since(start), status)

	return policy, err
}

// Get records metrics for policy retrieval operations.
func (p *policyUseCaseWithMetrics) Get(ctx context.Context, name string) (*authzDomain.StoredPolicy, error) {
	start := time.Now()
	policy, err := p.next.Get(ctx, name)

	status := "success"
	if err != nil {
		status = "error"
	}

	p.metrics.RecordOperation(ctx, "policy_get", status)
	p.metrics.RecordDuration(ctx, "policy_get", time.Since(start), status)

	return policy, err
}

// List records metrics for policy list operations.
func (p *policyUseCaseWithMetrics) List(
	ctx context.Context,
	offset, limit int,
) ([]*authzDomain.StoredPolicy, error) {
	start := time.Now()
	policies, err := p.next.List(ctx, offset, limit)

	status := "success"
	if err != nil {
		status = "error"
	}

	p.metrics.RecordOperation(ctx, "policy_list", status)
	p.metrics.RecordDuration(ctx, "policy_list", time.Since(start), status)

	return policies, err
}

// Delete records metrics for policy deletion operations.
func (p *policyUseCaseWithMetrics) Delete(ctx context.Context, name string) error {
	start := time.Now()
	err := p.next.Delete(ctx, name)

	status := "success"
	if err != nil {
		status = "error"
	}

	p.metrics.RecordOperation(ctx, "policy_delete", status)
	p.metrics.RecordDuration(ctx, "policy_delete", time.Since(start), status)

	return err
}

// policyProviderWithMetrics decorates PolicyProvider with metrics
// instrumentation. Lookup latency matters here since the provider runs on
// every authorized request.
type policyProviderWithMetrics struct {
	next    PolicyProvider
	metrics metrics.AuthzMetrics
}

// NewPolicyProviderWithMetrics wraps a PolicyProvider with metrics recording.
func NewPolicyProviderWithMetrics(provider PolicyProvider, m metrics.AuthzMetrics) PolicyProvider {
	return &policyProviderWithMetrics{
		next:    provider,
		metrics: m,
	}
}

// GetPolicy records metrics for named policy lookups.
func (p *policyProviderWithMetrics) GetPolicy(ctx context.Context, name string) (*authzDomain.Policy, error) {
	start := time.Now()
	policy, err := p.next.GetPolicy(ctx, name)

	status := "success"
	if err != nil {
		status = "error"
	}

	p.metrics.RecordOperation(ctx, "provider_get_policy", status)
	p.metrics.RecordDuration(ctx, "provider_get_policy", time.Since(start), status)

	return policy, err
}

// GetDefaultPolicy records metrics for default policy lookups.
func (p *policyProviderWithMetrics) GetDefaultPolicy(ctx context.Context) (*authzDomain.Policy, error) {
	start := time.Now()
	policy, err := p.next.GetDefaultPolicy(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}

	p.metrics.RecordOperation(ctx, "provider_get_default_policy", status)
	p.metrics.RecordDuration(ctx, "provider_get_default_policy", time.Since(start), status)

	return policy, err
}
