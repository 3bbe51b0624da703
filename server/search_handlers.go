package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Park-yeongseo/Blog-Project/model"
	"github.com/Park-yeongseo/Blog-Project/utils"
)

const searchPageSize = 10

// Search finds posts by free text against post and book titles, optionally
// narrowed by up to three tag names. A query that happens to be a bare 10 or
// 13 digit number is additionally matched against the exact ISBN.
func (s *Server) Search(c *gin.Context) {
	q := c.Query("q")
	tags := make([]string, 0, 3)
	for _, tag := range c.QueryArray("tags") {
		if !utils.ContainsString(tags, tag) {
			tags = append(tags, tag)
		}
	}
	if len(tags) > 3 {
		abortWithError(c, http.StatusBadRequest, ErrorValidation, "at most 3 tags")
		return
	}
	page, _ := pagination(c, searchPageSize)

	query := s.DB.Model(&model.Post{}).
		Joins("JOIN books ON books.isbn = posts.isbn").
		Preload("Tags").Preload("Book")

	if q != "" {
		if utils.IsValidIsbn(q) {
			query = query.Where("books.isbn = ?", q)
		} else {
			query = query.Where("posts.title ILIKE ? OR books.title ILIKE ?", "%"+q+"%", "%"+q+"%")
		}
	}

	if len(tags) > 0 {
		query = query.
			Joins("JOIN post_tags ON post_tags.post_id = posts.id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.name IN ?", tags).
			Distinct("posts.*")
	}

	var posts []model.Post
	if err := query.
		Offset((page - 1) * searchPageSize).
		Limit(searchPageSize).
		Find(&posts).Error; err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, "search failed")
		return
	}

	results := make([]SearchResult, 0, len(posts))
	for i := range posts {
		post := &posts[i]
		tagNames := make([]string, 0, len(post.Tags))
		for _, tag := range post.Tags {
			tagNames = append(tagNames, tag.Name)
		}
		result := SearchResult{
			PostId:    post.Id,
			Title:     post.Title,
			Tags:      tagNames,
			Isbn:      post.Isbn,
			CreatedAt: post.CreatedAt,
		}
		if post.Book != nil {
			result.BookTitle = post.Book.Title
		}
		results = append(results, result)
	}
	c.JSON(http.StatusOK, results)
}
