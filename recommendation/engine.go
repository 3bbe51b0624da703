// Package recommendation ranks candidate posts for the feed. Two modes:
// a global "popular" ranking anyone can ask for, and a personalized ranking
// driven by the viewer's accumulated tag preferences.
package recommendation

import (
	"gorm.io/gorm"

	"github.com/Park-yeongseo/Blog-Project/model"
)

// Engine reads only from the durable store; it never writes.
type Engine struct {
	DB *gorm.DB
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{DB: db}
}

// pageOffset converts 1-based pages to row offsets. Page 1 is the first page.
func pageOffset(page int, limit int) int {
	if page < 1 {
		page = 1
	}
	return limit * (page - 1)
}

// PopularPosts returns all posts ordered by like count. Ties are broken by a
// fresh random draw on every call, deliberately unstable so equally-liked
// posts rotate across requests. A known viewer's own posts are excluded;
// pass nil for anonymous callers.
func (e *Engine) PopularPosts(viewerId *uint, page int, limit int) ([]model.Post, error) {
	query := e.DB.Model(&model.Post{}).Preload("Tags")
	if viewerId != nil {
		query = query.Where("posts.user_id <> ?", *viewerId)
	}

	var posts []model.Post
	err := query.
		Order("like_count DESC, RANDOM()").
		Offset(pageOffset(page, limit)).
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// PersonalizedPosts ranks posts by frequency_score * match_score, where
// frequency_score sums the viewer's preference frequency over the post's
// matching tags and match_score counts how many of the post's tags the
// viewer has any preference for. The product rewards posts that match both
// deeply and broadly. The aggregation join is inner on purpose: a post
// sharing no tags with the viewer has no business in the result at all.
func (e *Engine) PersonalizedPosts(viewerId uint, page int, limit int) ([]model.Post, error) {
	scores := e.DB.Model(&model.PostTag{}).
		Select("post_tags.post_id AS post_id, SUM(user_tag_preferences.frequency) AS frequency_score, COUNT(post_tags.tag_id) AS match_score").
		Joins("JOIN user_tag_preferences ON user_tag_preferences.tag_id = post_tags.tag_id").
		Where("user_tag_preferences.user_id = ?", viewerId).
		Group("post_tags.post_id")

	var posts []model.Post
	err := e.DB.Model(&model.Post{}).Preload("Tags").
		Joins("JOIN (?) AS scores ON scores.post_id = posts.id", scores).
		Where("posts.user_id <> ?", viewerId).
		Order("scores.frequency_score * scores.match_score DESC, RANDOM()").
		Offset(pageOffset(page, limit)).
		Limit(limit).
		Find(&posts).Error
	return posts, err
}
