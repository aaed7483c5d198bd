package v1

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-task-manager/internal/services"
)

type userResponse struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	IsActive  bool   `json:"is_active"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type profileResponse struct {
	User           userResponse `json:"user"`
	Address        *string      `json:"address"`
	City           *string      `json:"city"`
	Country        *string      `json:"country"`
	DateOfBirth    *string      `json:"date_of_birth"`
	ProfilePicture string       `json:"profile_picture"`
	PhoneNumber    *string      `json:"phone_number"`
}

func newProfileResponse(result *services.ProfileResult) profileResponse {
	account, profile := result.Account, result.Profile
	return profileResponse{
		User: userResponse{
			Username:  account.Username,
			Email:     account.Email,
			IsActive:  account.IsActive,
			FirstName: account.FirstName,
			LastName:  account.LastName,
		},
		Address:        profile.Address,
		City:           profile.City,
		Country:        profile.Country,
		DateOfBirth:    formatDate(profile.DateOfBirth),
		ProfilePicture: profile.ProfilePicture,
		PhoneNumber:    profile.PhoneNumber,
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.DateOnly)
	return &s
}

// parseTargetUserID reads the optional :id segment. A malformed id is
// reported as not found.
func parseTargetUserID(c *gin.Context) (*int64, bool) {
	param := c.Param("id")
	if param == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(param, 10, 64)
	if err != nil {
		return nil, false
	}
	return &id, true
}

func (h *handlerImpl) HandleGetProfile(c *gin.Context) {
	targetUserID, ok := parseTargetUserID(c)
	if !ok {
		abort(c, newNotFoundError())
		return
	}

	result, err := h.profiles.GetProfile(c, mustGetAccount(c), targetUserID)
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newProfileResponse(result))
}

func (h *handlerImpl) HandleUpdateProfile(c *gin.Context) {
	targetUserID, ok := parseTargetUserID(c)
	if !ok {
		abort(c, newNotFoundError())
		return
	}

	var req services.UpdateProfileParams
	err := bindPartialJSON(c, &req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	result, err := h.profiles.UpdateProfile(c, mustGetAccount(c), targetUserID, req)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": verr.Fields})
			return
		}
		h.abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"profile": newProfileResponse(result),
	})
}
