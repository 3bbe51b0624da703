// Package server is the HTTP surface of the reading log: auth, users,
// posts, comments, likes, follows, search and recommendations. Handlers are
// methods on Server so tests can build one against a temp database and a
// fake oracle.
package server

import (
	"context"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Park-yeongseo/Blog-Project/events"
	"github.com/Park-yeongseo/Blog-Project/model"
	"github.com/Park-yeongseo/Blog-Project/oracle"
	"github.com/Park-yeongseo/Blog-Project/recommendation"
	"github.com/Park-yeongseo/Blog-Project/server/middlewares"
)

// TagGenerator is the slice of the oracle client the post pipeline needs.
type TagGenerator interface {
	GenerateTags(ctx context.Context, vocabulary []model.Tag, bookTitle string, isbn string, content string) ([]oracle.Tag, error)
}

type Server struct {
	DB          *gorm.DB
	Oracle      TagGenerator
	Views       *events.ViewPipeline
	Recommender *recommendation.Engine
}

func NewServer(db *gorm.DB, tagOracle TagGenerator, views *events.ViewPipeline) *Server {
	return &Server{
		DB:          db,
		Oracle:      tagOracle,
		Views:       views,
		Recommender: recommendation.NewEngine(db),
	}
}

// RegisterRoutes attaches every endpoint to the router. Authentication is
// per-route: JWT() for endpoints that require a user, OptionalJWT() for
// endpoints that merely personalize.
func (s *Server) RegisterRoutes(router *gin.Engine) {
	auth := router.Group("/auth")
	{
		auth.POST("/signup", s.Signup)
		auth.POST("/login", s.Login)
		auth.POST("/logout", middlewares.JWT(), s.Logout)
		auth.DELETE("/withdraw", middlewares.JWT(), s.Withdraw)
	}

	router.GET("/user/:user_id", middlewares.OptionalJWT(), s.UserInfo)
	router.PUT("/userinfo", middlewares.JWT(), s.UpdateUserInfo)
	router.PUT("/password", middlewares.JWT(), s.UpdatePassword)

	posts := router.Group("/posts")
	{
		posts.POST("", middlewares.JWT(), s.CreatePost)
		posts.GET("/:post_id", middlewares.OptionalJWT(), s.PostDetail)
		posts.PUT("/:post_id", middlewares.JWT(), s.UpdatePost)
		posts.DELETE("/:post_id", middlewares.JWT(), s.DeletePost)
		posts.POST("/:post_id/comments", middlewares.JWT(), s.CreateComment)
		posts.GET("/:post_id/comments", s.ListComments)
		posts.POST("/:post_id/like", middlewares.JWT(), s.ToggleLike)
		posts.GET("/:post_id/likes", s.PostLikes)
	}

	comments := router.Group("/comments")
	{
		comments.PUT("/:comment_id", middlewares.JWT(), s.UpdateComment)
		comments.DELETE("/:comment_id", middlewares.JWT(), s.DeleteComment)
	}

	users := router.Group("/users")
	{
		users.GET("/:user_id/posts", s.UserPosts)
		users.POST("/:user_id/follow", middlewares.JWT(), s.FollowUser)
		users.DELETE("/:user_id/unfollow", middlewares.JWT(), s.UnfollowUser)
		users.GET("/:user_id/followers", s.Followers)
		users.GET("/:user_id/following", s.Following)
		users.GET("/:user_id/follow-status", middlewares.JWT(), s.FollowStatus)
	}

	router.GET("/likes/user", middlewares.JWT(), s.UserLikedPosts)
	router.GET("/search", s.Search)

	recommendations := router.Group("/recommendation")
	{
		recommendations.GET("/popular", middlewares.OptionalJWT(), s.PopularPosts)
		recommendations.GET("", middlewares.JWT(), s.RecommendedPosts)
	}
}
