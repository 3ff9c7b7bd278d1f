package handler

import (
	"github.com/gin-gonic/gin"

	"arb-dashboard/internal/transport/http/middleware"
	"arb-dashboard/internal/transport/http/response"
)

type AuthHandler struct {
	opts middleware.SessionOptions
}

func NewAuthHandler(opts middleware.SessionOptions) *AuthHandler {
	return &AuthHandler{opts: opts}
}

func (h *AuthHandler) Me(c *gin.Context) {
	identity := middleware.IdentityFrom(c)
	dc := middleware.DashboardFrom(c)

	response.OK(c, gin.H{
		"email":      identity.Email,
		"name":       identity.Name,
		"is_admin":   identity.Admin,
		"session_id": dc.SessionID,
	})
}

// Logout destroys the dashboard context and clears both cookies. The SSO
// provider owns the token itself.
func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.Discard(c)
	c.SetCookie(h.opts.ContextCookie, "", -1, "/", "", h.opts.SecureCookies, true)
	c.SetCookie(h.opts.TokenCookie, "", -1, "/", "", h.opts.SecureCookies, true)
	response.OK(c, gin.H{"login_url": h.opts.LoginURL})
}
