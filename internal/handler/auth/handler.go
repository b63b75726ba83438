package auth

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/healthdesk/clinic-api/internal/handler"
	"github.com/healthdesk/clinic-api/internal/middleware"
	"github.com/healthdesk/clinic-api/internal/model"
	authsvc "github.com/healthdesk/clinic-api/internal/service/auth"
	"github.com/healthdesk/clinic-api/pkg/auth"
)

const verificationCookie = "verification_token"

type Handler struct {
	service      *authsvc.Service
	cookieDomain string
}

func NewHandler(service *authsvc.Service, cookieDomain string) *Handler {
	return &Handler{service: service, cookieDomain: cookieDomain}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authmw *middleware.AuthMiddleware) {
	group := r.Group("/auth")
	group.POST("/verify-identity", h.VerifyIdentity)
	group.POST("/register", h.Register)
	group.POST("/login", h.Login)
	group.POST("/refresh", h.Refresh)
	group.POST("/logout", h.Logout)
	group.GET("/me", authmw.Authenticate(), h.Me)
}

// VerifyIdentity pre-checks the claim and hands the outcome back as a
// short-lived cookie the register call must present.
func (h *Handler) VerifyIdentity(c *gin.Context) {
	var req model.IdentityCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	identity, err := h.service.VerifyIdentity(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	encoded, err := encodeIdentity(identity)
	if err != nil {
		handler.Error(c, err)
		return
	}
	h.setCookie(c, verificationCookie, encoded, int(auth.VerificationCookieTTL.Seconds()))

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"identity": identity.Identity}))
}

func (h *Handler) Register(c *gin.Context) {
	encoded, err := c.Cookie(verificationCookie)
	if err != nil || encoded == "" {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("identity verification required"))
		return
	}
	identity, err := decodeIdentity(encoded)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid verification token"))
		return
	}

	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	user, pair, err := h.service.Register(c.Request.Context(), identity, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	h.setCookie(c, verificationCookie, "", -1)
	h.setSessionCookies(c, pair, false)
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(user))
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	user, pair, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	h.setSessionCookies(c, pair, req.RememberMe)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(user))
}

// Refresh mints a new access token from the refresh cookie
func (h *Handler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie(middleware.RefreshTokenCookie)
	if err != nil || refresh == "" {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing refresh token"))
		return
	}

	access, err := h.service.Refresh(c.Request.Context(), refresh)
	if err != nil {
		handler.Error(c, err)
		return
	}

	h.setCookie(c, middleware.AccessTokenCookie, access, int(auth.AccessTokenTTL.Seconds()))
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) Logout(c *gin.Context) {
	h.setCookie(c, middleware.AccessTokenCookie, "", -1)
	h.setCookie(c, middleware.RefreshTokenCookie, "", -1)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

// Me echoes the verified access-token claims without touching the store.
func (h *Handler) Me(c *gin.Context) {
	claims := auth.ClaimsFromContext(c.Request.Context())
	if claims == nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing credentials"))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(claims))
}

func (h *Handler) setSessionCookies(c *gin.Context, pair *model.TokenPair, rememberMe bool) {
	refreshTTL := auth.RefreshTokenTTL
	if rememberMe {
		refreshTTL = auth.RememberMeRefreshTTL
	}
	h.setCookie(c, middleware.AccessTokenCookie, pair.AccessToken, int(auth.AccessTokenTTL.Seconds()))
	h.setCookie(c, middleware.RefreshTokenCookie, pair.RefreshToken, int(refreshTTL.Seconds()))
}

// Cookies are HttpOnly and cross-site so the browser client on another
// origin can carry them; SameSite=None requires Secure.
func (h *Handler) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(name, value, maxAge, "/", h.cookieDomain, true, true)
}

func encodeIdentity(identity *model.VerifiedIdentity) (string, error) {
	raw, err := json.Marshal(identity)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(raw), nil
}

func decodeIdentity(encoded string) (*model.VerifiedIdentity, error) {
	raw, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	var identity model.VerifiedIdentity
	if err := json.Unmarshal(raw, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}
