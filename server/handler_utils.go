package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"

	"github.com/Park-yeongseo/Blog-Project/model"
	"github.com/Park-yeongseo/Blog-Project/server/middlewares"
)

const defaultPageLimit = 9

// mustCurrentUser reads the authenticated user id set by the JWT middleware.
// Routes behind JWT() always have one; a missing id is a programming error
// and answered with 401 just in case.
func mustCurrentUser(c *gin.Context) (uint, bool) {
	userId, ok := middlewares.CurrentUserId(c)
	if !ok {
		abortWithError(c, http.StatusUnauthorized, middlewares.ErrorTokenAuthFail, "authentication required")
	}
	return userId, ok
}

func pathId(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, ErrorValidation, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// pagination reads ?page and ?limit with the convention that page 1 is the
// first page.
func pagination(c *gin.Context, defaultLimit int) (page int, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if limit < 1 {
		limit = defaultLimit
	}
	return page, limit
}

func (s *Server) findPost(c *gin.Context, postId uint) (*model.Post, bool) {
	var post model.Post
	if err := s.DB.First(&post, postId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			abortWithError(c, http.StatusNotFound, ErrorNotFound, "post not found")
		} else {
			abortWithError(c, http.StatusInternalServerError, ErrorInternal, "failed to load post")
		}
		return nil, false
	}
	return &post, true
}

func toPostResponse(post *model.Post) PostResponse {
	var resp PostResponse
	copier.Copy(&resp, post)
	if resp.Tags == nil {
		resp.Tags = []*model.Tag{}
	}
	return resp
}

func toPostResponses(posts []model.Post) []PostResponse {
	resps := make([]PostResponse, 0, len(posts))
	for i := range posts {
		resps = append(resps, toPostResponse(&posts[i]))
	}
	return resps
}
