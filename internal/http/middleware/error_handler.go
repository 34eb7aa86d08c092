package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/skillbridge-backend/internal/interface/http/response"
	"github.com/ignatzorin/skillbridge-backend/internal/logger"
	"github.com/ignatzorin/skillbridge-backend/internal/pkg/apperror"
)

// ErrorHandler обрабатывает ошибки централизованно: ловит панику и отдаёт последнюю
// ошибку из c.Errors, если обработчик сам ничего не записал. Внутренние ошибки маскируются.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if p := recover(); p != nil {
				logger.L().WithFields(logrus.Fields{
					"panic":  fmt.Sprint(p),
					"path":   c.Request.URL.Path,
					"method": c.Request.Method,
				}).Error("паника при обработке запроса")

				if !c.Writer.Written() {
					c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
						Success: false,
						Error: &response.ErrorInfo{
							Code:    string(apperror.ErrCodeInternal),
							Message: "внутренняя ошибка сервера",
						},
					})
				}
			}
		}()

		c.Next()

		// Проверяем, не был ли уже отправлен ответ
		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status, info := response.Describe(err)

		logger.L().WithFields(logrus.Fields{
			"error":  err.Error(),
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		}).Error("Request error")

		c.JSON(status, response.Response{Success: false, Error: &info})
	}
}
