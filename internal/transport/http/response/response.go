package response

import "github.com/gin-gonic/gin"

const (
	CodeOK                = 0
	CodeBadRequest        = 40000
	CodeMessageEmpty      = 40001
	CodeFeedbackGiven     = 40901
	CodeUnauthorized      = 40100
	CodeSessionExpired    = 40101
	CodeForbidden         = 40300
	CodeMessageNotFound   = 40401
	CodeRateLimited       = 42900
	CodeInternalServer    = 50000
	CodeBackendError      = 50200
	CodeBackendMalformed  = 50201
	CodeSessionCreate     = 50202
	CodeBackendBusy       = 50300
	CodeBackendOffline    = 50301
	CodeBackendTimeout    = 50400
	CodeBackendConnection = 50401
)

type APIResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(200, APIResponse{
		Code:    CodeOK,
		Message: "ok",
		Data:    data,
	})
}

func Error(c *gin.Context, httpStatus, code int, message string) {
	c.JSON(httpStatus, APIResponse{
		Code:    code,
		Message: message,
	})
}

func ErrorWithData(c *gin.Context, httpStatus, code int, message string, data interface{}) {
	c.JSON(httpStatus, APIResponse{
		Code:    code,
		Message: message,
		Data:    data,
	})
}
