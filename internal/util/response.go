package util

import (
	"errors"
	"net/http"
	"skillpath_backend/internal/llm"
	"skillpath_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageResponse 分页响应结构
type PageResponse struct {
	List  interface{} `json:"list"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Resource not found")
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error", zap.Error(err))
	InternalServerError(c)
}

// AIError 将 AI 调用错误翻译成固定的用户可见类别，不自动重试，由用户决定是否再试
func AIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, llm.ErrRateLimited):
		Error(c, http.StatusTooManyRequests, "AI service is busy, please try again in a moment")
	case errors.Is(err, llm.ErrTimeout):
		Error(c, http.StatusGatewayTimeout, "AI request timed out, please try again")
	case errors.Is(err, llm.ErrInvalidKey):
		Error(c, http.StatusBadGateway, "AI service is not configured correctly")
	case errors.Is(err, llm.ErrMalformedOutput):
		Error(c, http.StatusBadGateway, "AI returned an unexpected response, please try again")
	case errors.Is(err, llm.ErrUnavailable):
		Error(c, http.StatusBadGateway, "AI service is temporarily unavailable, please try again later")
	default:
		LogInternalError(c, err)
	}
}

// DataError 将数据层错误翻译成响应；所有权不匹配与不存在同样返回 404，不暴露资源是否存在
func DataError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrRoadmapNotFound), errors.Is(err, ErrLessonNotFound):
		NotFound(c)
	case errors.Is(err, ErrEmailRegistered):
		Error(c, http.StatusConflict, ErrEmailRegistered.Error())
	case errors.Is(err, ErrInvalidCredentials):
		Error(c, http.StatusUnauthorized, ErrInvalidCredentials.Error())
	case errors.Is(err, ErrUserDisabled):
		Error(c, http.StatusForbidden, ErrUserDisabled.Error())
	case errors.Is(err, ErrPermissionDenied):
		Forbidden(c)
	case errors.Is(err, ErrInvalidScore):
		BadRequest(c, ErrInvalidScore.Error())
	case errors.Is(err, ErrUnsupportedFile):
		BadRequest(c, ErrUnsupportedFile.Error())
	default:
		LogInternalError(c, err)
	}
}
