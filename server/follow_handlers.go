package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Park-yeongseo/Blog-Project/model"
)

type followUserEntry struct {
	Id       uint   `json:"id"`
	Username string `json:"username"`
}

// FollowUser creates a follow edge. Self-follows and duplicates are
// conflict errors detected by pre-check, not constraint violations.
func (s *Server) FollowUser(c *gin.Context) {
	followerId, ok := mustCurrentUser(c)
	if !ok {
		return
	}
	followingId, ok := pathId(c, "user_id")
	if !ok {
		return
	}

	if followerId == followingId {
		abortWithError(c, http.StatusBadRequest, ErrorConflict, "cannot follow yourself")
		return
	}

	var target model.User
	if err := s.DB.First(&target, followingId).Error; err != nil {
		abortWithError(c, http.StatusNotFound, ErrorNotFound, "user not found")
		return
	}

	var existing model.Follow
	err := s.DB.Where("follower_id = ? AND following_id = ?", followerId, followingId).First(&existing).Error
	if err == nil {
		abortWithError(c, http.StatusBadRequest, ErrorConflict, "already following this user")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, "failed to follow")
		return
	}

	if err := s.DB.Create(&model.Follow{FollowerId: followerId, FollowingId: followingId}).Error; err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, "failed to follow")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "followed"})
}

func (s *Server) UnfollowUser(c *gin.Context) {
	followerId, ok := mustCurrentUser(c)
	if !ok {
		return
	}
	followingId, ok := pathId(c, "user_id")
	if !ok {
		return
	}

	res := s.DB.Where("follower_id = ? AND following_id = ?", followerId, followingId).Delete(&model.Follow{})
	if res.Error != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, "failed to unfollow")
		return
	}
	if res.RowsAffected == 0 {
		abortWithError(c, http.StatusNotFound, ErrorNotFound, "not following this user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "unfollowed"})
}

// Followers lists who follows the given user.
func (s *Server) Followers(c *gin.Context) {
	userId, ok := pathId(c, "user_id")
	if !ok {
		return
	}

	var followers []followUserEntry
	if err := s.DB.Model(&model.User{}).
		Select("users.id, users.username").
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.following_id = ?", userId).
		Scan(&followers).Error; err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, "failed to load followers")
		return
	}
	c.JSON(http.StatusOK, gin.H{"followers": followers})
}

// Following lists who the given user follows.
func (s *Server) Following(c *gin.Context) {
	userId, ok := pathId(c, "user_id")
	if !ok {
		return
	}

	var following []followUserEntry
	if err := s.DB.Model(&model.User{}).
		Select("users.id, users.username").
		Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.follower_id = ?", userId).
		Scan(&following).Error; err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, "failed to load following")
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": following})
}

// FollowStatus reports whether the caller follows the given user.
func (s *Server) FollowStatus(c *gin.Context) {
	followerId, ok := mustCurrentUser(c)
	if !ok {
		return
	}
	followingId, ok := pathId(c, "user_id")
	if !ok {
		return
	}

	var count int64
	if err := s.DB.Model(&model.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerId, followingId).
		Count(&count).Error; err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, "failed to load follow status")
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_following": count > 0})
}
