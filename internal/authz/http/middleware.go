package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authzDomain "github.com/allisson/gatekeeper/internal/authz/domain"
	authzService "github.com/allisson/gatekeeper/internal/authz/service"
	authzUseCase "github.com/allisson/gatekeeper/internal/authz/usecase"
	"github.com/allisson/gatekeeper/internal/endpoint"
	apperrors "github.com/allisson/gatekeeper/internal/errors"
	"github.com/allisson/gatekeeper/internal/httputil"
	"github.com/allisson/gatekeeper/internal/metrics"
)

// AuthorizationMiddleware evaluates endpoint authorization metadata against
// the request principal and decides whether the request proceeds.
//
// For every request the middleware:
//  1. Reads the routed endpoint from the request context (see WithEndpoint)
//     and collects its AuthorizeData markers in declaration order.
//  2. Resolves each marker through the policy provider: named markers via
//     GetPolicy (one lookup per marker, every time), unnamed markers via
//     GetDefaultPolicy. Resolved policies combine into one: requirements
//     concatenate, scheme sets union. Endpoints without markers get the
//     provider's default policy; with no default configured they pass through.
//  3. Honors AllowAnonymous: the request proceeds without authentication or
//     evaluation. The override is checked after the provider lookups so a
//     broken policy reference still fails loudly.
//  4. Authenticates the request under each of the combined policy's schemes
//     (or the fallback scheme when the policy names none) and merges the
//     resulting identities. Failed authentication leaves the request with an
//     anonymous principal; it never aborts on its own.
//  5. Stores the principal in the request context. Handlers always observe a
//     non-nil principal, authenticated or not.
//  6. Evaluates the combined policy and acts on the verdict: allow continues
//     the chain, challenge asks the authenticator for a 401, forbid for a 403.
//
// An authorization marker naming an unresolvable policy is a configuration
// error: the request fails with a 500 and the policy name stays out of the
// response body.
func AuthorizationMiddleware(
	policyProvider authzUseCase.PolicyProvider,
	evaluator authzService.PolicyEvaluator,
	authenticator Authenticator,
	fallbackScheme string,
	authzMetrics metrics.AuthzMetrics,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ep, _ := GetEndpoint(ctx)
		authorizeData := ep.AuthorizeData()

		var policy *authzDomain.Policy
		var policyNames []string

		if len(authorizeData) == 0 {
			defaultPolicy, err := policyProvider.GetDefaultPolicy(ctx)
			if err != nil {
				httputil.HandleErrorGin(c, err, logger)
				c.Abort()
				return
			}
			policy = defaultPolicy
		} else {
			builder := authzDomain.NewPolicyBuilder("")
			for _, data := range authorizeData {
				var resolved *authzDomain.Policy
				var err error
				if data.Policy != "" {
					resolved, err = policyProvider.GetPolicy(ctx, data.Policy)
					policyNames = append(policyNames, data.Policy)
				} else {
					resolved, err = policyProvider.GetDefaultPolicy(ctx)
				}
				if err != nil {
					logger.Error("authorization failed: policy resolution",
						slog.String("endpoint", ep.DisplayName()),
						slog.String("policy", data.Policy),
						slog.Any("error", err))
					httputil.HandleErrorGin(c, err, logger)
					c.Abort()
					return
				}
				builder.Combine(resolved)
			}
			policy = builder.Build()
		}

		// AllowAnonymous wins over every authorize marker, but only after the
		// policy references above resolved. A misconfigured endpoint must fail
		// even when it is anonymous.
		if ep.AllowsAnonymous() || policy == nil {
			c.Request = c.Request.WithContext(WithPrincipal(ctx, authzDomain.NewAnonymousPrincipal()))
			c.Next()
			return
		}

		schemes := policy.Schemes()
		if len(schemes) == 0 {
			schemes = []string{fallbackScheme}
		}

		var principal *authzDomain.Principal
		for _, scheme := range schemes {
			authenticated, err := authenticator.Authenticate(c, scheme)
			if err != nil {
				if apperrors.Is(err, apperrors.ErrMisconfigured) {
					logger.Error("authorization failed: unknown scheme",
						slog.String("endpoint", ep.DisplayName()),
						slog.String("scheme", scheme))
					httputil.HandleErrorGin(c, err, logger)
					c.Abort()
					return
				}
				// Invalid or missing credentials for one scheme are not fatal,
				// another scheme may still authenticate the request.
				continue
			}
			if principal == nil {
				principal = authenticated
			} else {
				principal = principal.Merge(authenticated)
			}
		}
		if principal == nil {
			principal = authzDomain.NewAnonymousPrincipal()
		}

		ctx = WithPrincipal(ctx, principal)
		c.Request = c.Request.WithContext(ctx)

		verdict := evaluator.Evaluate(policy, principal, ep)
		authzMetrics.RecordDecision(ctx, strings.Join(policyNames, ","), verdict.String())

		switch verdict {
		case authzDomain.VerdictAllow:
			c.Next()
		case authzDomain.VerdictChallenge:
			logger.Debug("authorization challenge",
				slog.String("endpoint", ep.DisplayName()),
				slog.String("policies", strings.Join(policyNames, ",")))
			authenticator.Challenge(c, schemes)
			c.Abort()
		default:
			logger.Debug("authorization forbidden",
				slog.String("endpoint", ep.DisplayName()),
				slog.String("policies", strings.Join(policyNames, ",")))
			authenticator.Forbid(c, schemes)
			c.Abort()
		}
	}
}

// EndpointMiddleware attaches the endpoint descriptor to the request context.
// Register it per route, before AuthorizationMiddleware.
func EndpointMiddleware(ep *endpoint.Endpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(WithEndpoint(c.Request.Context(), ep))
		c.Next()
	}
}
