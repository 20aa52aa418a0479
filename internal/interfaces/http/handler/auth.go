package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ecomm/storefront/internal/application/auth"
	cartapp "github.com/ecomm/storefront/internal/application/cart"
	"github.com/ecomm/storefront/internal/domain/customer"
)

// AuthHandler exposes authentication and account endpoints
type AuthHandler struct {
	BaseHandler
	auth   *auth.Service
	emails *auth.EmailChecker
	carts  *cartapp.Service
	log    *zap.Logger
}

// NewAuthHandler creates an auth handler
func NewAuthHandler(svc *auth.Service, emails *auth.EmailChecker, carts *cartapp.Service, log *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: svc, emails: emails, carts: carts, log: log}
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/auth")
	g.POST("/login", h.Login)
	g.POST("/register", h.Register)
	g.POST("/logout", h.Logout)
	g.GET("/session", h.Session)
	g.GET("/validate", h.Validate)
	g.GET("/verify-email", h.VerifyEmail)
	g.POST("/resend-verification", h.ResendVerification)
	g.GET("/check-email", h.CheckEmail)
	g.PUT("/profile", h.UpdateProfile)
	g.POST("/change-password", h.ChangePassword)
}

type sessionView struct {
	Token    string            `json:"token"`
	Customer customer.Customer `json:"customer"`
}

type authOutcome struct {
	Session              *sessionView `json:"session,omitempty"`
	VerificationRequired bool         `json:"verification_required,omitempty"`
	Email                string       `json:"email,omitempty"`
}

func outcomeView(r *auth.Result) authOutcome {
	out := authOutcome{
		VerificationRequired: r.VerificationRequired,
		Email:                r.Email,
	}
	if r.Session != nil {
		out.Session = &sessionView{Token: r.Session.Token, Customer: r.Session.Customer}
	}
	return out
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var creds auth.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.auth.Login(c.Request.Context(), creds)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	if !result.Succeeded() && !result.VerificationRequired {
		h.Unauthorized(c, result.Message)
		return
	}

	if result.Succeeded() {
		// guest cart lines move to the server cart, best-effort
		if err := h.carts.Merge(c.Request.Context()); err != nil {
			h.log.Warn("guest cart merge failed", zap.Error(err))
		}
	}

	h.Success(c, outcomeView(result))
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var reg struct {
		auth.Registration
		ConfirmPassword string `json:"confirm_password"`
	}
	if err := c.ShouldBindJSON(&reg); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	reg.Registration.ConfirmPassword = reg.ConfirmPassword

	result, err := h.auth.Register(c.Request.Context(), reg.Registration)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	if !result.Succeeded() && !result.VerificationRequired {
		h.BadRequest(c, result.Message)
		return
	}
	h.Success(c, outcomeView(result))
}

// Logout handles POST /auth/logout. The local session is always
// cleared, even when the upstream call fails.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context()); err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, gin.H{"logged_out": true})
}

// Session handles GET /auth/session
func (h *AuthHandler) Session(c *gin.Context) {
	sess, err := h.auth.Session(c.Request.Context())
	if err != nil {
		h.DomainError(c, err)
		return
	}
	if sess == nil {
		h.Success(c, gin.H{"authenticated": false})
		return
	}
	h.Success(c, gin.H{
		"authenticated": true,
		"customer":      sess.Customer,
	})
}

// Validate handles GET /auth/validate: checks the stored token
// upstream and reports the refreshed session state
func (h *AuthHandler) Validate(c *gin.Context) {
	sess, err := h.auth.ValidateToken(c.Request.Context())
	if err != nil {
		h.DomainError(c, err)
		return
	}
	if sess == nil {
		h.Success(c, gin.H{"valid": false})
		return
	}
	h.Success(c, gin.H{
		"valid":    true,
		"customer": sess.Customer,
	})
}

// VerifyEmail handles GET /auth/verify-email?token=...
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		h.BadRequest(c, "Missing verification token")
		return
	}
	if err := h.auth.VerifyEmail(c.Request.Context(), token); err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, gin.H{"verified": true})
}

// ResendVerification handles POST /auth/resend-verification
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	if err := h.auth.ResendVerification(c.Request.Context(), req.Email); err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, gin.H{"sent": true})
}

// CheckEmail handles GET /auth/check-email?email=...
func (h *AuthHandler) CheckEmail(c *gin.Context) {
	email := c.Query("email")
	result, err := h.emails.CheckNow(c.Request.Context(), email)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, gin.H{"email": result.Email, "exists": result.Exists})
}

// UpdateProfile handles PUT /auth/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var profile customer.Customer
	if err := c.ShouldBindJSON(&profile); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	if err := h.auth.UpdateProfile(c.Request.Context(), profile); err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, profile)
}

// ChangePassword handles POST /auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
		ConfirmPassword string `json:"confirm_password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	err := h.auth.ChangePassword(c.Request.Context(), req.CurrentPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, gin.H{"changed": true})
}
