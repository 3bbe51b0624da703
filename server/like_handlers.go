package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Park-yeongseo/Blog-Project/model"
)

// ToggleLike likes an unliked post and unlikes a liked one. The Like row
// and the post's denormalized like_count move in the same transaction so
// their cardinalities never diverge.
func (s *Server) ToggleLike(c *gin.Context) {
	userId, ok := mustCurrentUser(c)
	if !ok {
		return
	}
	postId, ok := pathId(c, "post_id")
	if !ok {
		return
	}
	post, ok := s.findPost(c, postId)
	if !ok {
		return
	}

	var existing model.Like
	err := s.DB.Where("user_id = ? AND post_id = ?", userId, postId).First(&existing).Error
	liked := err == nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, "failed to toggle like")
		return
	}

	var likeCount int64
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		if liked {
			if err := tx.Where("user_id = ? AND post_id = ?", userId, postId).Delete(&model.Like{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Create(&model.Like{UserId: userId, PostId: postId}).Error; err != nil {
				return err
			}
		}

		// Recount rather than add/subtract, so the mirror self-corrects if
		// it ever drifted.
		if err := tx.Model(&model.Like{}).Where("post_id = ?", postId).Count(&likeCount).Error; err != nil {
			return err
		}
		return tx.Model(&model.Post{}).Where("id = ?", post.Id).UpdateColumn("like_count", likeCount).Error
	})
	if txErr != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, "failed to toggle like")
		return
	}

	c.JSON(http.StatusOK, gin.H{"liked": !liked, "like_count": likeCount})
}

// PostLikes returns who liked a post.
func (s *Server) PostLikes(c *gin.Context) {
	postId, ok := pathId(c, "post_id")
	if !ok {
		return
	}
	if _, ok := s.findPost(c, postId); !ok {
		return
	}

	var userIds []uint
	if err := s.DB.Model(&model.Like{}).Where("post_id = ?", postId).Pluck("user_id", &userIds).Error; err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, "failed to load likes")
		return
	}
	c.JSON(http.StatusOK, gin.H{"like_count": len(userIds), "users": userIds})
}

// UserLikedPosts lists the posts the caller liked, most recent like first.
func (s *Server) UserLikedPosts(c *gin.Context) {
	userId, ok := mustCurrentUser(c)
	if !ok {
		return
	}
	page, limit := pagination(c, 10)

	var posts []model.Post
	if err := s.DB.Model(&model.Post{}).Preload("Tags").
		Joins("JOIN likes ON likes.post_id = posts.id").
		Where("likes.user_id = ?", userId).
		Order("likes.created_at DESC").
		Offset(limit * (page - 1)).
		Limit(limit).
		Find(&posts).Error; err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, "failed to load liked posts")
		return
	}
	c.JSON(http.StatusOK, toPostResponses(posts))
}
