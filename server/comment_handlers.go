package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Park-yeongseo/Blog-Project/model"
)

// CreateComment writes a comment or a reply. Depth is computed from the
// parent at write time: replying to a top-level comment gives depth 1,
// replying to a reply is rejected. The schema itself doesn't know about the
// limit.
func (s *Server) CreateComment(c *gin.Context) {
	userId, ok := mustCurrentUser(c)
	if !ok {
		return
	}
	postId, ok := pathId(c, "post_id")
	if !ok {
		return
	}

	var req CommentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, ErrorValidation, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		abortWithError(c, http.StatusBadRequest, ErrorValidation, err.Error())
		return
	}

	if _, ok := s.findPost(c, postId); !ok {
		return
	}

	depth := 0
	if req.ParentId != nil {
		var parent model.Comment
		if err := s.DB.First(&parent, *req.ParentId).Error; err != nil {
			abortWithError(c, http.StatusBadRequest, ErrorValidation, "parent comment not found")
			return
		}
		if parent.PostId != postId || parent.Depth != 0 {
			abortWithError(c, http.StatusBadRequest, ErrorValidation, "replies are only allowed one level deep")
			return
		}
		depth = 1
	}

	comment := model.Comment{
		PostId:   postId,
		UserId:   userId,
		ParentId: req.ParentId,
		Content:  req.Content,
		Depth:    depth,
	}
	if err := s.DB.Create(&comment).Error; err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, "failed to create comment")
		return
	}
	c.JSON(http.StatusOK, comment)
}

// ListComments returns a post's comments in chronological order.
func (s *Server) ListComments(c *gin.Context) {
	postId, ok := pathId(c, "post_id")
	if !ok {
		return
	}

	var comments []model.Comment
	if err := s.DB.Where("post_id = ?", postId).Order("created_at").Find(&comments).Error; err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, "failed to load comments")
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (s *Server) findOwnComment(c *gin.Context) (*model.Comment, bool) {
	userId, ok := mustCurrentUser(c)
	if !ok {
		return nil, false
	}
	commentId, ok := pathId(c, "comment_id")
	if !ok {
		return nil, false
	}

	var comment model.Comment
	if err := s.DB.First(&comment, commentId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			abortWithError(c, http.StatusNotFound, ErrorNotFound, "comment not found")
		} else {
			abortWithError(c, http.StatusInternalServerError, ErrorInternal, "failed to load comment")
		}
		return nil, false
	}
	if comment.UserId != userId {
		abortWithError(c, http.StatusForbidden, ErrorForbidden, "only the author can modify a comment")
		return nil, false
	}
	return &comment, true
}

func (s *Server) UpdateComment(c *gin.Context) {
	comment, ok := s.findOwnComment(c)
	if !ok {
		return
	}

	var req CommentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, ErrorValidation, err.Error())
		return
	}

	comment.Content = req.Content
	if err := s.DB.Save(comment).Error; err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, "failed to update comment")
		return
	}
	c.JSON(http.StatusOK, comment)
}

func (s *Server) DeleteComment(c *gin.Context) {
	comment, ok := s.findOwnComment(c)
	if !ok {
		return
	}
	if err := s.DB.Delete(comment).Error; err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, "failed to delete comment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}
