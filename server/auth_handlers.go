package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Park-yeongseo/Blog-Project/model"
	"github.com/Park-yeongseo/Blog-Project/server/middlewares"
	Logger "github.com/Park-yeongseo/Blog-Project/utils/log"
)

// Signup registers a new user. Email and username are pre-checked for
// uniqueness so the caller gets a conflict message instead of a bare
// constraint violation.
func (s *Server) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, ErrorValidation, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		abortWithError(c, http.StatusBadRequest, ErrorValidation, err.Error())
		return
	}

	var count int64
	if err := s.DB.Model(&model.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, "signup failed")
		return
	}
	if count > 0 {
		abortWithError(c, http.StatusBadRequest, ErrorConflict, "email already in use")
		return
	}
	if err := s.DB.Model(&model.User{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, "signup failed")
		return
	}
	if count > 0 {
		abortWithError(c, http.StatusBadRequest, ErrorConflict, "username already in use")
		return
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, "signup failed")
		return
	}

	bio := model.DefaultBio
	if req.Bio != nil && *req.Bio != "" {
		bio = *req.Bio
	}

	user := model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Bio:          bio,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		Logger.Log.Errorf("signup failed: %v", err)
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, "signup failed")
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

// Login verifies credentials and issues a bearer token.
func (s *Server) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, ErrorValidation, err.Error())
		return
	}

	var user model.User
	if err := s.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		abortWithError(c, http.StatusUnauthorized, middlewares.ErrorTokenAuthFail, "unknown email")
		return
	}
	if !verifyPassword(req.Password, user.PasswordHash) {
		abortWithError(c, http.StatusUnauthorized, middlewares.ErrorTokenAuthFail, "wrong password")
		return
	}

	token, err := middlewares.CreateAccessToken(user.Id)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, "login failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

// Logout exists for API symmetry. Tokens are stateless, so there is nothing
// to revoke server-side; clients drop the token.
func (s *Server) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Withdraw deletes the account. Every owned row (posts, comments, likes,
// follows, preferences) goes with it via cascade.
func (s *Server) Withdraw(c *gin.Context) {
	userId, ok := mustCurrentUser(c)
	if !ok {
		return
	}
	if err := s.DB.Delete(&model.User{}, userId).Error; err != nil {
		Logger.Log.Errorf("withdraw failed for user %d: %v", userId, err)
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, "withdraw failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}
