package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"arb-dashboard/internal/app"
	"arb-dashboard/internal/backend"
	"arb-dashboard/internal/pkg/logger"
)

// FromError writes the envelope for a failed action. Service and backend
// failures become user-visible messages; anything else is a generic 500.
func FromError(c *gin.Context, err error) {
	status, code, message := classify(err)
	if status >= http.StatusInternalServerError {
		logger.Errorf("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
	}
	Error(c, status, code, message)
}

func classify(err error) (int, int, string) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		return http.StatusBadRequest, CodeBadRequest, err.Error()
	case errors.Is(err, app.ErrMessageEmpty):
		return http.StatusBadRequest, CodeMessageEmpty, err.Error()
	case errors.Is(err, app.ErrUnauthenticated):
		return http.StatusUnauthorized, CodeUnauthorized, err.Error()
	case errors.Is(err, app.ErrForbidden):
		return http.StatusForbidden, CodeForbidden, err.Error()
	case errors.Is(err, app.ErrUnknownMessage):
		return http.StatusNotFound, CodeMessageNotFound, err.Error()
	case errors.Is(err, app.ErrFeedbackAlreadyGiven):
		return http.StatusConflict, CodeFeedbackGiven, err.Error()
	case errors.Is(err, app.ErrSessionUnavailable):
		return http.StatusBadGateway, CodeSessionCreate, err.Error()
	case errors.Is(err, app.ErrBackendOffline):
		return http.StatusServiceUnavailable, CodeBackendOffline, "Cannot connect to ARB Chatbot API."
	}

	var be *backend.Error
	if errors.As(err, &be) {
		switch be.Kind {
		case backend.KindRateLimited:
			return http.StatusTooManyRequests, CodeRateLimited, be.Error()
		case backend.KindBusy:
			return http.StatusServiceUnavailable, CodeBackendBusy, be.Error()
		case backend.KindUnauthorized:
			return http.StatusUnauthorized, CodeSessionExpired, be.Error()
		case backend.KindTimeout:
			return http.StatusGatewayTimeout, CodeBackendTimeout, be.Error()
		case backend.KindNetwork:
			return http.StatusBadGateway, CodeBackendConnection, be.Error()
		case backend.KindMalformed:
			return http.StatusBadGateway, CodeBackendMalformed, be.Error()
		default:
			return http.StatusBadGateway, CodeBackendError, be.Error()
		}
	}

	return http.StatusInternalServerError, CodeInternalServer, "An unexpected error occurred. Please try again."
}
