package controllers

import (
	"net/http"
	"strconv"

	"github.com/Jaydub333/social-wallet-api2/internal/models"
	"github.com/Jaydub333/social-wallet-api2/internal/services"
	"github.com/gin-gonic/gin"
)

// ProfileController serves social-profile data, both to the owning user and
// to third-party platforms holding a profile-scoped access token.
type ProfileController struct {
	userService services.UserService
}

func NewProfileController(userService services.UserService) *ProfileController {
	return &ProfileController{userService: userService}
}

// GetOwnProfile returns the authenticated user's profile
func (pc *ProfileController) GetOwnProfile(c *gin.Context) {
	user, err := pc.userService.GetUserByID(c.GetUint("userID"))
	if err != nil {
		c.JSON(http.StatusNotFound, models.NewAPIError(models.ErrNotFound, "user not found"))
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateOwnProfile updates the authenticated user's profile fields
func (pc *ProfileController) UpdateOwnProfile(c *gin.Context) {
	var req struct {
		Name        *string `json:"name"`
		DisplayName *string `json:"display_name"`
		Bio         *string `json:"bio"`
		AvatarURL   *string `json:"avatar_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrValidationFailed, err.Error()))
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.DisplayName != nil {
		updates["display_name"] = *req.DisplayName
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.AvatarURL != nil {
		updates["avatar_url"] = *req.AvatarURL
	}

	user, err := pc.userService.UpdateProfile(c.GetUint("userID"), updates)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.NewAPIError(models.ErrInternalServer, "profile update failed"))
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetSharedProfile serves profile data to a platform holding a
// profile-scoped access token for the user in the path.
func (pc *ProfileController) GetSharedProfile(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "invalid user id"))
		return
	}

	// The token is scoped to one user; refuse lookups for anyone else.
	if uint(id) != c.GetUint("userID") {
		c.JSON(http.StatusForbidden, models.NewAPIError(models.ErrForbidden, "token is not authorized for this user"))
		return
	}

	user, svcErr := pc.userService.GetUserByID(uint(id))
	if svcErr != nil {
		c.JSON(http.StatusNotFound, models.NewAPIError(models.ErrNotFound, "user not found"))
		return
	}

	resp := gin.H{
		"id":           user.ID,
		"display_name": user.DisplayName,
		"bio":          user.Bio,
		"avatar_url":   user.AvatarURL,
	}
	// Email is released only under the email scope.
	if scopes, ok := c.Get("scopes"); ok {
		if granted, ok := scopes.([]string); ok {
			for _, s := range granted {
				if s == "email" {
					resp["email"] = user.Email
				}
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}
