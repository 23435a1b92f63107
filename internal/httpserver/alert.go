package httpserver

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"storefront/internal/domain"
	"storefront/internal/service/identity"
)

const actionSendVerification = "send_verification_email"

// alert is the user-facing message body every error and some successes carry.
type alert struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
}

func errorAlert(msg string) alert {
	return alert{Title: "Error", Message: msg}
}

var verificationRequired = alert{
	Title:   "Email Verification Required",
	Message: "To change your email, you need to verify your current email first. Please check your inbox for a verification email and verify your account before changing your email.",
	Action:  actionSendVerification,
}

// alertFor maps err to a status and alert. Unknown errors become a generic 500.
func alertFor(err error) (int, alert) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, errorAlert(ve.Message)
	case errors.Is(err, identity.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorAlert("Error while logging in")
	case errors.Is(err, identity.ErrWrongPassword):
		return http.StatusUnauthorized, errorAlert("Current password is incorrect")
	case errors.Is(err, identity.ErrEmailAlreadyInUse):
		return http.StatusConflict, errorAlert("This email is already in use by another account")
	case errors.Is(err, identity.ErrWeakPassword):
		return http.StatusBadRequest, errorAlert("Password should be at least 6 characters")
	case errors.Is(err, identity.ErrInvalidEmail):
		return http.StatusBadRequest, errorAlert("Please enter a valid email address")
	case errors.Is(err, identity.ErrRequiresRecentLogin):
		return http.StatusUnauthorized, errorAlert("Please sign out and sign back in, then try again")
	case errors.Is(err, identity.ErrOperationNotAllowed):
		return http.StatusForbidden, verificationRequired
	case errors.Is(err, identity.ErrInvalidToken):
		return http.StatusUnauthorized, errorAlert("Please sign in to continue")
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, errorAlert("Item not found")
	default:
		return http.StatusInternalServerError, errorAlert("Something went wrong. Please try again.")
	}
}

func writeError(c *gin.Context, logger *log.Logger, err error) {
	status, body := alertFor(err)
	if status == http.StatusInternalServerError {
		logger.Printf("api: %s %s error=%v", c.Request.Method, c.FullPath(), err)
	}
	c.AbortWithStatusJSON(status, body)
}
