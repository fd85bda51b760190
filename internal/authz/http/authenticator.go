package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	authzDomain "github.com/allisson/gatekeeper/internal/authz/domain"
	authzService "github.com/allisson/gatekeeper/internal/authz/service"
	"github.com/allisson/gatekeeper/internal/httputil"
)

// Authenticator is the authentication collaborator of the authorization
// middleware. It turns request credentials into a principal and writes
// challenge and forbid responses.
type Authenticator interface {
	// Authenticate resolves the request credentials under the given scheme.
	// Returns ErrInvalidCredentials when credentials are missing or invalid
	// and ErrUnknownScheme when the scheme is not implemented. A returned
	// principal is always non-nil and authenticated.
	Authenticate(c *gin.Context, scheme string) (*authzDomain.Principal, error)

	// Challenge writes a 401 response asking the client to authenticate under
	// one of the given schemes.
	Challenge(c *gin.Context, schemes []string)

	// Forbid writes a 403 response for an authenticated principal that does
	// not satisfy the policy.
	Forbid(c *gin.Context, schemes []string)
}

// SchemeAPIKey is the authentication scheme implemented by APIKeyHeaderAuthenticator.
const SchemeAPIKey = "api_key"

// apiKeyHeader is the request header carrying the API key.
const apiKeyHeader = "X-API-Key"

// APIKeyHeaderAuthenticator authenticates requests by the X-API-Key header,
// verified against configured key hashes.
type APIKeyHeaderAuthenticator struct {
	apiKeys authzService.APIKeyAuthenticator
}

// NewAPIKeyHeaderAuthenticator creates an Authenticator backed by the API key
// verification service.
func NewAPIKeyHeaderAuthenticator(apiKeys authzService.APIKeyAuthenticator) *APIKeyHeaderAuthenticator {
	return &APIKeyHeaderAuthenticator{apiKeys: apiKeys}
}

// Authenticate implements Authenticator.
func (a *APIKeyHeaderAuthenticator) Authenticate(
	c *gin.Context,
	scheme string,
) (*authzDomain.Principal, error) {
	if scheme != SchemeAPIKey {
		return nil, authzDomain.ErrUnknownScheme
	}

	plainKey := c.GetHeader(apiKeyHeader)
	if plainKey == "" {
		// Fall back to "Authorization: ApiKey <key>" (case-insensitive).
		const prefix = "apikey "
		authHeader := c.GetHeader("Authorization")
		if len(authHeader) > len(prefix) && strings.EqualFold(authHeader[:len(prefix)], prefix) {
			plainKey = authHeader[len(prefix):]
		}
	}
	if plainKey == "" {
		return nil, authzDomain.ErrInvalidCredentials
	}

	return a.apiKeys.Authenticate(plainKey, scheme)
}

// Challenge implements Authenticator. Writes a 401 with a WWW-Authenticate
// header listing the acceptable schemes.
func (a *APIKeyHeaderAuthenticator) Challenge(c *gin.Context, schemes []string) {
	if len(schemes) > 0 {
		c.Header("WWW-Authenticate", strings.Join(schemes, ", "))
	}
	c.JSON(http.StatusUnauthorized, httputil.ErrorResponse{
		Error:   "unauthorized",
		Message: "Authentication is required",
	})
}

// Forbid implements Authenticator.
func (a *APIKeyHeaderAuthenticator) Forbid(c *gin.Context, schemes []string) {
	c.JSON(http.StatusForbidden, httputil.ErrorResponse{
		Error:   "forbidden",
		Message: "You don't have permission to access this resource",
	})
}
