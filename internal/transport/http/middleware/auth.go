package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"arb-dashboard/internal/app"
	"arb-dashboard/internal/dashboard"
	"arb-dashboard/internal/pkg/logger"
	"arb-dashboard/internal/transport/http/response"
)

const (
	ContextTokenKey     = "access_token"
	ContextIdentityKey  = "identity"
	ContextDashboardKey = "dashboard"
	contextDiscardKey   = "dashboard_discard"
)

type SessionOptions struct {
	TokenCookie   string
	ContextCookie string
	ContextTTL    time.Duration
	SecureCookies bool
	LoginURL      string
}

// SSOSession authenticates the access_token cookie and attaches the
// browser's dashboard context for the rest of the chain. The context is
// saved back once the handler is done, unless the handler discarded it.
func SSOSession(store dashboard.Store, locks *dashboard.Locks, auth *app.AuthService, opts SessionOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(opts.TokenCookie)
		if err != nil || token == "" {
			unauthorized(c, opts, "missing access token")
			return
		}

		id, err := c.Cookie(opts.ContextCookie)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
		}

		unlock := locks.Lock(id)
		defer unlock()

		ctx := c.Request.Context()
		dc, err := store.Load(ctx, id)
		if errors.Is(err, dashboard.ErrContextNotFound) {
			dc = dashboard.New(id, time.Now())
		} else if err != nil {
			logger.Errorf("load dashboard context %s failed: %v", id, err)
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "session storage unavailable")
			c.Abort()
			return
		}

		identity, err := auth.Authenticate(ctx, dc, token)
		if err != nil {
			if errors.Is(err, app.ErrUnauthenticated) {
				unauthorized(c, opts, "invalid or expired token")
				return
			}
			response.FromError(c, err)
			c.Abort()
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(opts.ContextCookie, id, int(opts.ContextTTL.Seconds()), "/", "", opts.SecureCookies, true)
		c.Set(ContextTokenKey, token)
		c.Set(ContextIdentityKey, identity)
		c.Set(ContextDashboardKey, dc)

		c.Next()

		// The browser may be gone by now; the context is still worth keeping.
		ctx = context.WithoutCancel(ctx)
		if c.GetBool(contextDiscardKey) {
			if err := store.Delete(ctx, id); err != nil {
				logger.Errorf("delete dashboard context %s failed: %v", id, err)
			}
			return
		}
		dc.UpdatedAt = time.Now()
		if err := store.Save(ctx, dc); err != nil {
			logger.Errorf("save dashboard context %s failed: %v", id, err)
		}
	}
}

// RequireAdmin lets only allow-listed users through.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := IdentityFrom(c)
		if identity == nil || !identity.Admin {
			response.Error(c, http.StatusForbidden, response.CodeForbidden, app.ErrForbidden.Error())
			c.Abort()
			return
		}
		c.Next()
	}
}

func unauthorized(c *gin.Context, opts SessionOptions, message string) {
	response.ErrorWithData(c, http.StatusUnauthorized, response.CodeUnauthorized, message, gin.H{"login_url": opts.LoginURL})
	c.Abort()
}

func DashboardFrom(c *gin.Context) *dashboard.Context {
	dc, _ := c.MustGet(ContextDashboardKey).(*dashboard.Context)
	return dc
}

func IdentityFrom(c *gin.Context) *app.Identity {
	v, ok := c.Get(ContextIdentityKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*app.Identity)
	return identity
}

func TokenFrom(c *gin.Context) string {
	return c.GetString(ContextTokenKey)
}

// Discard drops the dashboard context at the end of the request.
func Discard(c *gin.Context) {
	c.Set(contextDiscardKey, true)
}
