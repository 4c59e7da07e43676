package v1

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/adanyl0v/go-task-api/internal/models"
	"github.com/adanyl0v/go-task-api/internal/services"
)

const (
	userCtxKey      = "user"
	requestIDCtxKey = "request_id"

	requestIDHeader = "X-Request-ID"
	basicRealm      = `Basic realm="tasks"`
)

// HandleAuthMiddleware accepts either HTTP Basic credentials or a bearer
// token issued by HandleIssueToken. Unauthenticated requests are aborted
// with 401 before reaching any task handler.
func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	const authHeader = "Authorization"
	header := c.GetHeader(authHeader)
	if header == "" {
		h.logger.Warn().Msg("authorization header required")
		h.abortUnauthorized(c, errCredentialsNotFound)
		return
	}

	var (
		user *models.User
		err  error
	)
	if token, ok := cutBearer(header); ok {
		user, err = h.auth.AuthenticateToken(c, token)
		if err != nil {
			h.logger.Warn().
				Err(err).
				Msg("failed to authenticate token")
			switch {
			case errors.Is(err, services.ErrInvalidToken),
				errors.Is(err, services.ErrUserNotFound):
				h.abortUnauthorized(c, errInvalidToken)
			default:
				abort(c, newStatusTextError(http.StatusInternalServerError))
			}
			return
		}
	} else {
		username, password, ok := c.Request.BasicAuth()
		if !ok {
			h.logger.Warn().Msg("invalid authorization header")
			h.abortUnauthorized(c, errCredentialsNotFound)
			return
		}

		user, err = h.auth.Authenticate(c, username, password)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserNotFound),
				errors.Is(err, services.ErrUserPasswordMismatch):
				h.abortUnauthorized(c, errInvalidCredentials)
			default:
				h.logger.Error().
					Err(err).
					Msg("failed to authenticate user")
				abort(c, newStatusTextError(http.StatusInternalServerError))
			}
			return
		}
	}

	h.logger.Debug().
		Str("user_id", user.ID).
		Msg("authenticated request")
	c.Set(userCtxKey, user)
	c.Next()
}

func (h *handlerImpl) abortUnauthorized(c *gin.Context, err error) {
	c.Header("WWW-Authenticate", basicRealm)
	abort(c, newUnauthorizedError(err.Error()))
}

// HandleRequestLogMiddleware tags every request with an id and writes one
// access log line after the handler chain returns.
func (h *handlerImpl) HandleRequestLogMiddleware(c *gin.Context) {
	requestID := c.GetHeader(requestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set(requestIDCtxKey, requestID)
	c.Header(requestIDHeader, requestID)

	start := time.Now()
	c.Next()

	status := c.Writer.Status()
	event := h.logger.Info()
	if status >= http.StatusInternalServerError {
		event = h.logger.Error()
	}
	event.
		Str("request_id", requestID).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Int("status", status).
		Dur("latency", time.Since(start)).
		Str("client_ip", c.ClientIP()).
		Msg("handled request")
}

func cutBearer(header string) (string, bool) {
	const bearerPrefix = "Bearer "
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}

func authenticatedUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(userCtxKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}
