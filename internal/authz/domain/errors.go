package domain

import (
	"github.com/allisson/gatekeeper/internal/errors"
)

// Authorization domain errors.
var (
	// ErrPolicyNotFound indicates a stored policy with the given name does not exist.
	ErrPolicyNotFound = errors.Wrap(errors.ErrNotFound, "policy not found")

	// ErrPolicyAlreadyExists indicates a stored policy with the same name exists.
	ErrPolicyAlreadyExists = errors.Wrap(errors.ErrConflict, "policy already exists")

	// ErrPolicyRefNotFound indicates endpoint metadata references a policy the
	// provider cannot resolve. Unlike ErrPolicyNotFound this is a configuration
	// error: the request must fail rather than pass with an empty policy.
	ErrPolicyRefNotFound = errors.Wrap(errors.ErrMisconfigured, "referenced policy not found")

	// ErrInvalidCredentials indicates the presented credentials did not
	// authenticate under any configured scheme.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrUnknownScheme indicates a policy names an authentication scheme the
	// authenticator does not implement.
	ErrUnknownScheme = errors.Wrap(errors.ErrMisconfigured, "unknown authentication scheme")
)
