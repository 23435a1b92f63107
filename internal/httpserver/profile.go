package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"storefront/internal/domain"
	"storefront/internal/service/identity"
	"storefront/internal/service/profile"
)

func (h *handlers) getProfile(c *gin.Context) {
	acct := currentAccount(c)
	p, err := h.deps.Profiles.Get(c.Request.Context(), acct.ID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": p, "emailVerified": acct.EmailVerified})
}

func (h *handlers) updateProfile(c *gin.Context) {
	var in profile.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, h.logger, domain.NewValidationError("invalid request body"))
		return
	}
	res, err := h.deps.Profiles.Update(c.Request.Context(), deviceID(c), currentAccount(c).ID, in)
	if err != nil {
		if errors.Is(err, identity.ErrOperationNotAllowed) && res != nil {
			c.JSON(http.StatusForbidden, gin.H{"result": res, "alert": verificationRequired})
			return
		}
		writeError(c, h.logger, err)
		return
	}
	msg := alert{Title: "Success", Message: "Profile updated successfully!"}
	if res.VerificationSent {
		msg = alert{
			Title:   "Email Verification Required",
			Message: "Your email has been updated, but you need to verify it. A verification email has been sent to your new email address. Please check your inbox and verify your email.",
		}
	}
	c.JSON(http.StatusOK, gin.H{"result": res, "alert": msg})
}

func (h *handlers) sendVerificationEmail(c *gin.Context) {
	if err := h.deps.Identity.SendVerificationEmail(c.Request.Context(), deviceID(c)); err != nil {
		h.logger.Printf("api: send verification user_id=%s error=%v", currentAccount(c).ID, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorAlert("Failed to send verification email"))
		return
	}
	c.JSON(http.StatusOK, alert{
		Title:   "Verification Email Sent",
		Message: "Please check your current email inbox and verify your account, then try changing your email again.",
	})
}
