package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Park-yeongseo/Blog-Project/model"
	"github.com/Park-yeongseo/Blog-Project/oracle"
	Logger "github.com/Park-yeongseo/Blog-Project/utils/log"
)

// CreatePost runs the creation pipeline. Oracle failures keep their own
// distinct codes; any other failure inside the transaction collapses into
// one generic creation-failure response.
func (s *Server) CreatePost(c *gin.Context) {
	userId, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	var req PostCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, ErrorValidation, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		abortWithError(c, http.StatusBadRequest, ErrorValidation, err.Error())
		return
	}

	post, err := s.createPostPipeline(c.Request.Context(), userId, req)
	if err != nil {
		logPipelineFailure(userId, err)
		switch {
		case errors.Is(err, oracle.ErrInvalidReply):
			abortWithError(c, http.StatusBadGateway, ErrorOracleInvalidReply, oracle.ErrInvalidReply.Error())
		case errors.Is(err, oracle.ErrUnavailable):
			abortWithError(c, http.StatusBadGateway, ErrorOracleUnavailable, oracle.ErrUnavailable.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, ErrorInternal, ErrPostCreationFailed.Error())
		}
		return
	}

	var created model.Post
	if err := s.DB.Preload("Tags").First(&created, post.Id).Error; err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, ErrPostCreationFailed.Error())
		return
	}
	c.JSON(http.StatusOK, toPostResponse(&created))
}

// PostDetail returns one post and records the page view. The view goes
// through the event pipeline: the response never waits on redis and a
// counting failure never breaks the read.
func (s *Server) PostDetail(c *gin.Context) {
	postId, ok := pathId(c, "post_id")
	if !ok {
		return
	}

	var post model.Post
	if err := s.DB.Preload("Tags").First(&post, postId).Error; err != nil {
		abortWithError(c, http.StatusNotFound, ErrorNotFound, "post not found")
		return
	}

	if err := s.Views.PublishView(post.Id); err != nil {
		Logger.Log.Errorf("failed to publish view event for post %d: %v", post.Id, err)
	}

	c.JSON(http.StatusOK, toPostResponse(&post))
}

// UpdatePost edits title/content. Owner only; tags are immutable after
// creation.
func (s *Server) UpdatePost(c *gin.Context) {
	userId, ok := mustCurrentUser(c)
	if !ok {
		return
	}
	postId, ok := pathId(c, "post_id")
	if !ok {
		return
	}

	var req PostUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, ErrorValidation, err.Error())
		return
	}

	post, ok := s.findPost(c, postId)
	if !ok {
		return
	}
	if post.UserId != userId {
		abortWithError(c, http.StatusForbidden, ErrorForbidden, "only the author can edit a post")
		return
	}

	if req.Title != nil {
		post.Title = normalizeSpaces(*req.Title)
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if err := s.DB.Save(post).Error; err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, "failed to update post")
		return
	}
	c.JSON(http.StatusOK, toPostResponse(post))
}

// DeletePost removes a post and, via cascade, its comments, likes and tag
// links. Any pending view accumulator is left for the flush job, whose
// relative update against a gone row is a no-op.
func (s *Server) DeletePost(c *gin.Context) {
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
	if post.UserId != userId {
		abortWithError(c, http.StatusForbidden, ErrorForbidden, "only the author can delete a post")
		return
	}

	if err := s.DB.Delete(post).Error; err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, "failed to delete post")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "post deleted"})
}

// UserPosts lists a user's posts, newest first.
func (s *Server) UserPosts(c *gin.Context) {
	userId, ok := pathId(c, "user_id")
	if !ok {
		return
	}
	page, limit := pagination(c, defaultPageLimit)

	var posts []model.Post
	if err := s.DB.Preload("Tags").
		Where("user_id = ?", userId).
		Order("created_at DESC").
		Offset(limit * (page - 1)).
		Limit(limit).
		Find(&posts).Error; err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, "failed to load posts")
		return
	}
	c.JSON(http.StatusOK, toPostResponses(posts))
}
