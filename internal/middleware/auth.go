package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/tenant-task-api/internal/access"
	"github.com/yukikurage/tenant-task-api/internal/constants"
	apierrors "github.com/yukikurage/tenant-task-api/internal/errors"
	"github.com/yukikurage/tenant-task-api/internal/services"
)

// PrincipalResolver is implemented by *access.PrincipalResolver.
type PrincipalResolver interface {
	Resolve(ctx context.Context, authorizationHeader string) (access.Principal, error)
}

// RequireAuth authenticates the bearer token of the request
func RequireAuth(resolver PrincipalResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := resolver.Resolve(c.Request.Context(), c.GetHeader(constants.HeaderAuthorization))
		if err != nil {
			apierrors.Respond(c, err)
			c.Abort()
			return
		}

		// Store the principal in context for handlers
		c.Set(constants.ContextKeyPrincipal, principal)
		c.Next()
	}
}

// CurrentPrincipal retrieves the authenticated principal from context
func CurrentPrincipal(c *gin.Context) (access.Principal, bool) {
	value, exists := c.Get(constants.ContextKeyPrincipal)
	if !exists {
		return access.Principal{}, false
	}
	principal, ok := value.(access.Principal)
	return principal, ok
}

// CurrentCaller returns the principal together with the client address.
func CurrentCaller(c *gin.Context) (services.Caller, bool) {
	principal, ok := CurrentPrincipal(c)
	if !ok {
		return services.Caller{}, false
	}
	return services.Caller{Principal: principal, IP: c.ClientIP()}, true
}
