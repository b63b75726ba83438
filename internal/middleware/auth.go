package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/healthdesk/clinic-api/internal/handler"
	"github.com/healthdesk/clinic-api/internal/model"
	"github.com/healthdesk/clinic-api/pkg/auth"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

type AuthMiddleware struct {
	jwt auth.JWTService
}

func NewAuthMiddleware(jwt auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

// Authenticate verifies the access token and attaches the principal to the
// request context. The token is read from the auth cookie, with a Bearer
// header fallback for non-browser clients.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse("missing credentials"))
			return
		}

		claims, err := m.jwt.ParseToken(token, auth.TokenTypeAccess)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			return
		}

		principal := &model.Principal{
			UserID: claims.Profile.ID,
			RoleID: claims.Profile.RoleID,
			Email:  claims.Subject,
			Roles:  claims.Roles,
		}
		ctx := model.WithPrincipal(c.Request.Context(), principal)
		c.Request = c.Request.WithContext(auth.WithClaims(ctx, claims))
		c.Next()
	}
}

// RequireRole rejects authenticated principals lacking the role
func (m *AuthMiddleware) RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := model.PrincipalFromContext(c.Request.Context())
		if !principal.HasRole(role) && !principal.HasRole(model.RoleAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, handler.NewErrorResponse("insufficient role"))
			return
		}
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie != "" {
		return cookie
	}

	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}
