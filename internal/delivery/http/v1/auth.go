package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-task-manager/internal/services"
)

type loginResponse struct {
	Refresh  string `json:"refresh"`
	Access   string `json:"access"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type refreshTokenRequest struct {
	Refresh string `json:"refresh"`
}

func (h *handlerImpl) HandleRegister(c *gin.Context) {
	var req services.RegisterParams
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	_, err = h.auth.Register(c, req)
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Registration successful."})
}

func (h *handlerImpl) HandleLogin(c *gin.Context) {
	var req services.LoginParams
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	result, err := h.auth.Login(c, req)
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		Refresh:  result.RefreshToken,
		Access:   result.AccessToken,
		Username: result.Account.Username,
		Email:    result.Account.Email,
	})
}

func (h *handlerImpl) HandleRefresh(c *gin.Context) {
	var req refreshTokenRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Debug().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(msgInvalidToken))
		return
	}

	result, err := h.auth.Refresh(c, req.Refresh)
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"access": result.AccessToken})
}

func (h *handlerImpl) HandleLogout(c *gin.Context) {
	var req refreshTokenRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Debug().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(msgInvalidToken))
		return
	}

	err = h.auth.Logout(c, req.Refresh)
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusResetContent, gin.H{"message": "Logged out successfully"})
}
