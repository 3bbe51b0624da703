package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Park-yeongseo/Blog-Project/server/middlewares"
)

// PopularPosts serves the global like-count ranking. Works for anonymous
// callers; a known viewer's own posts are filtered out.
func (s *Server) PopularPosts(c *gin.Context) {
	page, limit := pagination(c, defaultPageLimit)

	var viewerId *uint
	if userId, ok := middlewares.CurrentUserId(c); ok {
		viewerId = &userId
	}

	posts, err := s.Recommender.PopularPosts(viewerId, page, limit)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, "failed to load popular posts")
		return
	}
	c.JSON(http.StatusOK, toPostResponses(posts))
}

// RecommendedPosts serves the tag-affinity ranking for the caller.
func (s *Server) RecommendedPosts(c *gin.Context) {
	userId, ok := mustCurrentUser(c)
	if !ok {
		return
	}
	page, limit := pagination(c, defaultPageLimit)

	posts, err := s.Recommender.PersonalizedPosts(userId, page, limit)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, "failed to load recommendations")
		return
	}
	c.JSON(http.StatusOK, toPostResponses(posts))
}
