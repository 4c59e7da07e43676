package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

type issueTokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// HandleIssueToken exchanges the credentials that passed the auth
// middleware for a short-lived bearer token.
func (h *handlerImpl) HandleIssueToken(c *gin.Context) {
	user, ok := authenticatedUser(c)
	if !ok {
		h.logger.Error().Msg("authenticated user missing from context")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	result, err := h.auth.IssueToken(user)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to issue token")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, issueTokenResponse{
		AccessToken: result.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   result.AccessTokenExpiresAt,
	})
}

func (h *handlerImpl) HandleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, healthCheckTimeout)
	defer cancel()

	err := h.pinger.Ping(ctx)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("storage is unreachable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
