package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/skillbridge-backend/internal/logger"
	"github.com/ignatzorin/skillbridge-backend/internal/pkg/apperror"
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type PaginatedResponse struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

const internalMessage = "внутренняя ошибка сервера"

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

// JSON отдаёт плоский ответ. Поле success payload заполняет сам.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

func Paginated(c *gin.Context, data interface{}, limit, offset int) {
	c.JSON(http.StatusOK, PaginatedResponse{
		Success: true,
		Data:    data,
		Pagination: Pagination{
			Limit:  limit,
			Offset: offset,
		},
	})
}

// Error отдаёт AppError с его кодом и статусом. Внутренние ошибки логируются, а клиент
// видит только общее сообщение.
func Error(c *gin.Context, err error) {
	status, info := Describe(err)
	if status >= http.StatusInternalServerError {
		logger.L().WithFields(logrus.Fields{
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
			"code":   info.Code,
		}).WithError(err).Error("ошибка обработки запроса")
	}
	c.JSON(status, Response{
		Success: false,
		Error:   &info,
	})
}

// Describe переводит ошибку в HTTP статус и тело ошибки.
func Describe(err error) (int, ErrorInfo) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		message := appErr.Message
		if !apperror.IsClientVisible(appErr) {
			message = internalMessage
		}
		return appErr.HTTPStatus, ErrorInfo{
			Code:    string(appErr.Code),
			Message: message,
		}
	}
	return http.StatusInternalServerError, ErrorInfo{
		Code:    string(apperror.ErrCodeInternal),
		Message: internalMessage,
	}
}

func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    string(apperror.ErrCodeInvalidArgument),
			Message: message,
		},
	})
}

func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    string(apperror.ErrCodeUnauthorized),
			Message: message,
		},
	})
}
