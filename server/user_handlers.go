package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Park-yeongseo/Blog-Project/model"
	"github.com/Park-yeongseo/Blog-Project/server/middlewares"
)

// UserInfo returns a public profile. The email is only included when the
// viewer is looking at their own profile.
func (s *Server) UserInfo(c *gin.Context) {
	userId, ok := pathId(c, "user_id")
	if !ok {
		return
	}

	var user model.User
	if err := s.DB.First(&user, userId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			abortWithError(c, http.StatusNotFound, ErrorNotFound, "user not found")
		} else {
			abortWithError(c, http.StatusInternalServerError, ErrorInternal, "failed to load user")
		}
		return
	}

	resp := UserResponse{
		Id:         user.Id,
		Username:   user.Username,
		Bio:        user.Bio,
		TotalViews: user.TotalViews,
		CreatedAt:  user.CreatedAt,
	}
	if viewerId, authed := middlewares.CurrentUserId(c); authed && viewerId == user.Id {
		resp.Email = &user.Email
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateUserInfo changes username and/or bio. A nil bio resets to the
// default introduction text.
func (s *Server) UpdateUserInfo(c *gin.Context) {
	userId, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	var req UserInfoUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, ErrorValidation, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		abortWithError(c, http.StatusBadRequest, ErrorValidation, err.Error())
		return
	}

	var user model.User
	if err := s.DB.First(&user, userId).Error; err != nil {
		abortWithError(c, http.StatusNotFound, ErrorNotFound, "user not found")
		return
	}

	if req.Username != nil && *req.Username != user.Username {
		var count int64
		if err := s.DB.Model(&model.User{}).Where("username = ?", *req.Username).Count(&count).Error; err != nil {
			abortWithError(c, http.StatusInternalServerError, ErrorInternal, "failed to update profile")
			return
		}
		if count > 0 {
			abortWithError(c, http.StatusBadRequest, ErrorConflict, "username already in use")
			return
		}
		user.Username = *req.Username
	}

	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if user.Bio == "" {
		user.Bio = model.DefaultBio
	}

	if err := s.DB.Save(&user).Error; err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, "failed to update profile")
		return
	}

	email := user.Email
	c.JSON(http.StatusOK, UserResponse{
		Id:         user.Id,
		Username:   user.Username,
		Email:      &email,
		Bio:        user.Bio,
		TotalViews: user.TotalViews,
		CreatedAt:  user.CreatedAt,
	})
}

// UpdatePassword verifies the old password, the confirmation pair, and that
// the new password actually differs before rehashing.
func (s *Server) UpdatePassword(c *gin.Context) {
	userId, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	var req PasswordUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, ErrorValidation, err.Error())
		return
	}

	var user model.User
	if err := s.DB.First(&user, userId).Error; err != nil {
		abortWithError(c, http.StatusNotFound, ErrorNotFound, "user not found")
		return
	}

	if !verifyPassword(req.Password, user.PasswordHash) {
		abortWithError(c, http.StatusBadRequest, ErrorValidation, "wrong password")
		return
	}
	if req.NewPassword != req.NewPasswordCheck {
		abortWithError(c, http.StatusBadRequest, ErrorValidation, "password confirmation does not match")
		return
	}
	if verifyPassword(req.NewPassword, user.PasswordHash) {
		abortWithError(c, http.StatusBadRequest, ErrorValidation, "new password must differ from the old one")
		return
	}
	if err := validatePassword(req.NewPassword); err != nil {
		abortWithError(c, http.StatusBadRequest, ErrorValidation, err.Error())
		return
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, "failed to update password")
		return
	}
	user.PasswordHash = hash
	if err := s.DB.Save(&user).Error; err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, "failed to update password")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}
