package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authzDomain "github.com/allisson/gatekeeper/internal/authz/domain"
)

// policyUseCase implements PolicyUseCase.
type policyUseCase struct {
	policyRepo PolicyRepository
}

// Create validates and persists a new stored policy.
func (p *policyUseCase) Create(
	ctx context.Context,
	input *authzDomain.CreatePolicyInput,
) (*authzDomain.StoredPolicy, error) {
	// Compile once up front so invalid documents never reach storage.
	if _, err := input.Document.Compile(input.Name); err != nil {
		return nil, err
	}

	policy := &authzDomain.StoredPolicy{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      input.Name,
		Document:  input.Document,
		CreatedAt: time.Now().UTC(),
	}

	if err := p.policyRepo.Create(ctx, policy); err != nil {
		return nil, err
	}

	return policy, nil
}

// Get retrieves a stored policy by name.
func (p *policyUseCase) Get(ctx context.Context, name string) (*authzDomain.StoredPolicy, error) {
	return p.policyRepo.Get(ctx, name)
}

// List retrieves stored policies ordered by name.
func (p *policyUseCase) List(ctx context.Context, offset, limit int) ([]*authzDomain.StoredPolicy, error) {
	return p.policyRepo.List(ctx, offset, limit)
}

// Delete removes a stored policy by name.
func (p *policyUseCase) Delete(ctx context.Context, name string) error {
	return p.policyRepo.Delete(ctx, name)
}

// NewPolicyUseCase creates a new PolicyUseCase with the provided repository.
func NewPolicyUseCase(policyRepo PolicyRepository) PolicyUseCase {
	return &policyUseCase{
		policyRepo: policyRepo,
	}
}
