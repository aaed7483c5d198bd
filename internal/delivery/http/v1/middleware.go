package v1

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-task-manager/internal/models"
)

const accountCtxKey = "account"

func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	const authHeader = "Authorization"
	header := c.GetHeader(authHeader)

	const bearerPrefix = "Bearer"
	var accessToken string
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != bearerPrefix || parts[1] == "" {
			h.logger.Debug().Msg("invalid authorization header")
			abort(c, newUnauthorizedError(msgTokenNotValid))
			return
		}
		accessToken = parts[1]
	}

	account, err := h.guard.RequireAuthenticated(c, accessToken)
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	c.Set(accountCtxKey, account)
	c.Next()
}

// mustGetAccount returns the account stored by HandleAuthMiddleware.
func mustGetAccount(c *gin.Context) *models.Account {
	return c.MustGet(accountCtxKey).(*models.Account)
}
