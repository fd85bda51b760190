package app

import (
	"fmt"

	"github.com/gin-gonic/gin"

	authzDomain "github.com/allisson/gatekeeper/internal/authz/domain"
	authzHTTP "github.com/allisson/gatekeeper/internal/authz/http"
	authzRepository "github.com/allisson/gatekeeper/internal/authz/repository"
	authzService "github.com/allisson/gatekeeper/internal/authz/service"
	authzUseCase "github.com/allisson/gatekeeper/internal/authz/usecase"
)

// PolicyRepository returns the policy repository instance.
func (c *Container) PolicyRepository() (authzUseCase.PolicyRepository, error) {
	var err error
	c.policyRepoInit.Do(func() {
		c.policyRepo, err = c.initPolicyRepository()
		if err != nil {
			c.initErrors["policyRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["policyRepo"]; exists {
		return nil, storedErr
	}
	return c.policyRepo, nil
}

// PolicyUseCase returns the policy use case instance.
func (c *Container) PolicyUseCase() (authzUseCase.PolicyUseCase, error) {
	var err error
	c.policyUseCaseInit.Do(func() {
		c.policyUseCase, err = c.initPolicyUseCase()
		if err != nil {
			c.initErrors["policyUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["policyUseCase"]; exists {
		return nil, storedErr
	}
	return c.policyUseCase, nil
}

// PolicyProvider returns the policy provider instance.
func (c *Container) PolicyProvider() (authzUseCase.PolicyProvider, error) {
	var err error
	c.policyProviderInit.Do(func() {
		c.policyProvider, err = c.initPolicyProvider()
		if err != nil {
			c.initErrors["policyProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["policyProvider"]; exists {
		return nil, storedErr
	}
	return c.policyProvider, nil
}

// Evaluator returns the policy evaluator instance.
func (c *Container) Evaluator() authzService.PolicyEvaluator {
	c.evaluatorInit.Do(func() {
		c.evaluator = authzService.NewPolicyEvaluator()
	})
	return c.evaluator
}

// Authenticator returns the request authenticator instance.
func (c *Container) Authenticator() (authzHTTP.Authenticator, error) {
	var err error
	c.authenticatorInit.Do(func() {
		c.authenticator, err = c.initAuthenticator()
		if err != nil {
			c.initErrors["authenticator"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["authenticator"]; exists {
		return nil, storedErr
	}
	return c.authenticator, nil
}

// AuthorizationMiddleware assembles the authorization middleware from the
// provider, evaluator, authenticator and metrics recorder.
func (c *Container) AuthorizationMiddleware() (gin.HandlerFunc, error) {
	policyProvider, err := c.PolicyProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get policy provider for authorization middleware: %w", err)
	}

	authenticator, err := c.Authenticator()
	if err != nil {
		return nil, fmt.Errorf("failed to get authenticator for authorization middleware: %w", err)
	}

	authzMetrics, err := c.AuthzMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get authz metrics for authorization middleware: %w", err)
	}

	return authzHTTP.AuthorizationMiddleware(
		policyProvider,
		c.Evaluator(),
		authenticator,
		c.config.AuthScheme,
		authzMetrics,
		c.Logger(),
	), nil
}

// initPolicyRepository creates the policy repository instance.
func (c *Container) initPolicyRepository() (authzUseCase.PolicyRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for policy repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return authzRepository.NewMySQLPolicyRepository(db), nil
	case "postgres":
		return authzRepository.NewPostgreSQLPolicyRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initPolicyUseCase creates the policy use case wrapped with metrics.
func (c *Container) initPolicyUseCase() (authzUseCase.PolicyUseCase, error) {
	policyRepo, err := c.PolicyRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get policy repository for policy use case: %w", err)
	}

	authzMetrics, err := c.AuthzMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get authz metrics for policy use case: %w", err)
	}

	useCase := authzUseCase.NewPolicyUseCase(policyRepo)
	return authzUseCase.NewPolicyUseCaseWithMetrics(useCase, authzMetrics), nil
}

// initPolicyProvider creates the policy provider chain: stored policies
// first, then a registry carrying the built-in admin policy so the admin API
// is guarded even on an empty database.
func (c *Container) initPolicyProvider() (authzUseCase.PolicyProvider, error) {
	policyRepo, err := c.PolicyRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get policy repository for policy provider: %w", err)
	}

	repositoryProvider := authzUseCase.NewRepositoryPolicyProvider(policyRepo, c.config.DefaultPolicyName)

	registry := authzUseCase.NewRegistryPolicyProvider()
	if c.config.AdminPolicyName != "" {
		registry.Register(
			authzDomain.NewPolicyBuilder(c.config.AdminPolicyName).
				RequireRole("policy-admin").
				AddSchemes(c.config.AuthScheme).
				Build(),
		)
	}

	authzMetrics, err := c.AuthzMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get authz metrics for policy provider: %w", err)
	}

	provider := authzUseCase.NewFallbackPolicyProvider(repositoryProvider, registry)
	return authzUseCase.NewPolicyProviderWithMetrics(provider, authzMetrics), nil
}

// initAuthenticator creates the API key authenticator from configuration.
func (c *Container) initAuthenticator() (authzHTTP.Authenticator, error) {
	apiKeys, err := authzService.NewAPIKeyAuthenticator(c.config.AuthAPIKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to create api key authenticator: %w", err)
	}
	return authzHTTP.NewAPIKeyHeaderAuthenticator(apiKeys), nil
}
