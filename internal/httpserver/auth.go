package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"storefront/internal/domain"
	"storefront/internal/service/identity"
	"storefront/internal/service/profile"
	"storefront/internal/session"
)

const (
	ctxDeviceID = "deviceID"
	ctxAccount  = "account"
	ctxSession  = "session"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

// authMiddleware resolves the bearer token to an account and that device's
// session. The token doubles as the device id.
func (h *handlers) authMiddleware(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorAlert("Please sign in to continue"))
		return
	}
	ctx := c.Request.Context()
	acct, err := h.deps.Identity.CurrentUser(ctx, token)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidToken) {
			h.releaseDevice(ctx, token)
		}
		writeError(c, h.logger, err)
		return
	}
	sess, err := h.deps.Sessions.Acquire(ctx, token, acct.ID)
	if sess == nil {
		if errors.Is(err, identity.ErrInvalidToken) {
			h.releaseDevice(ctx, token)
		}
		writeError(c, h.logger, err)
		return
	}
	if err != nil {
		// The session keeps its last snapshot; reads still work.
		h.logger.Printf("api: acquire session user_id=%s error=%v", acct.ID, err)
	}
	c.Set(ctxDeviceID, token)
	c.Set(ctxAccount, acct)
	c.Set(ctxSession, sess)
	c.Next()
}

// releaseDevice drops everything held for a token that no longer resolves.
func (h *handlers) releaseDevice(ctx context.Context, token string) {
	h.deps.Sessions.Release(ctx, token)
	h.copies.drop(token)
}

func deviceID(c *gin.Context) string {
	return c.GetString(ctxDeviceID)
}

func currentAccount(c *gin.Context) *domain.Account {
	v, _ := c.Get(ctxAccount)
	acct, _ := v.(*domain.Account)
	return acct
}

func currentSession(c *gin.Context) *session.Session {
	v, _ := c.Get(ctxSession)
	s, _ := v.(*session.Session)
	return s
}

func (h *handlers) register(c *gin.Context) {
	var in profile.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, h.logger, domain.NewValidationError("invalid request body"))
		return
	}
	p, err := h.deps.Profiles.Register(c.Request.Context(), in)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"profile": p})
}

func (h *handlers) login(c *gin.Context) {
	var in loginRequest
	if err := c.ShouldBindJSON(&in); err != nil || in.Email == "" || in.Password == "" {
		writeError(c, h.logger, domain.NewValidationError("Please enter your email and password"))
		return
	}
	acct, token, err := h.deps.Identity.SignIn(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "userId": acct.ID})
}

func (h *handlers) logout(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorAlert("Please sign in to continue"))
		return
	}
	if err := h.deps.Identity.SignOut(c.Request.Context(), token); err != nil {
		writeError(c, h.logger, err)
		return
	}
	h.copies.drop(token)
	c.Status(http.StatusNoContent)
}

func (h *handlers) verifyEmail(c *gin.Context) {
	code := strings.TrimSpace(c.Query("code"))
	if code == "" {
		writeError(c, h.logger, domain.NewValidationError("Verification code required"))
		return
	}
	if err := h.deps.Identity.VerifyEmail(c.Request.Context(), code); err != nil {
		if errors.Is(err, identity.ErrInvalidToken) {
			err = domain.NewValidationError("This verification link is invalid or has expired")
		}
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, alert{Title: "Email Verified", Message: "Your email address has been verified."})
}
