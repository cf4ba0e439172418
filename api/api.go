// SPDX-License-Identifier: GPL-3.0-or-later
package api

//go:generate mockgen -destination=service_mocks_test.go -package=api -source api.go
import (
	"context"
	"net/http"
	"time"

	"github.com/CrawX/go-mailbridge/domain"
	"github.com/CrawX/go-mailbridge/log"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const userKey = "mailbridge.user"

type Service interface {
	ListMessages(ctx context.Context, userID string, mailbox string, limit int, offset int) (*domain.MessagePage, error)
	SendMessage(ctx context.Context, userID string, message *domain.OutgoingMessage) (*domain.SendResult, error)
	ApplyAction(ctx context.Context, userID string, request *domain.ActionRequest) error
	ListMailboxes(ctx context.Context, userID string) ([]domain.Mailbox, error)
	UpdateSettings(ctx context.Context, userID string, update *domain.SettingsUpdate) error
}

type Handler struct {
	service Service
	l       *logrus.Logger
}

// NewRouter wires the mail routes. Requests are attributed to the user named in userHeader,
// a reverse proxy in front is expected to authenticate and set it.
func NewRouter(service Service, userHeader string, metricsHandler http.Handler) *gin.Engine {
	h := &Handler{
		service: service,
		l:       log.Logger(log.LOG_API),
	}

	router := gin.New()
	router.Use(h.requestLogger(), gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}

	email := router.Group("/api/email")
	email.Use(userMiddleware(userHeader))
	{
		email.GET("/messages", h.ListMessages)
		email.POST("/send", h.SendMessage)
		email.POST("/action", h.ApplyAction)
		email.GET("/mailboxes", h.ListMailboxes)
		email.PUT("/settings", h.UpdateSettings)
	}

	return router
}

func userMiddleware(header string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(header)
		if len(userID) == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success":    false,
				"error_type": domain.AuthenticationError,
				"error":      "request is not attributed to a user",
			})
			return
		}

		c.Set(userKey, userID)
		c.Next()
	}
}

func userID(c *gin.Context) string {
	return c.GetString(userKey)
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		h.l.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start),
		}).Debug("Handled request")
	}
}

// StatusForKind maps error kinds to http status codes.
func StatusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.ConfigError:
		return http.StatusBadRequest
	case domain.AuthenticationError:
		return http.StatusUnauthorized
	case domain.ConnectionError:
		return http.StatusServiceUnavailable
	case domain.MailboxError:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	c.JSON(StatusForKind(kind), gin.H{
		"success":    false,
		"error_type": kind,
		"error":      err.Error(),
	})
}

// badRequest rejects malformed requests with the same kind the service uses for invalid input.
func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success":    false,
		"error_type": domain.OperationError,
		"error":      message,
	})
}
