package recommendation

import (
	"os"
	"testing"

	"github.com/Park-yeongseo/Blog-Project/model"
	"github.com/Park-yeongseo/Blog-Project/utils"
	"github.com/Park-yeongseo/Blog-Project/utils/dotenv"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	dotenv.LoadDotEnvsInTests()
	os.Exit(m.Run())
}

func createUser(t *testing.T, db *gorm.DB, name string) *model.User {
	t.Helper()
	user := &model.User{Username: name, Email: name + "@example.com", PasswordHash: "x", Bio: model.DefaultBio}
	require.Nil(t, db.Create(user).Error)
	return user
}

func createPost(t *testing.T, db *gorm.DB, userId uint, title string, likeCount int64, tagIds ...uint) *model.Post {
	t.Helper()
	post := &model.Post{UserId: userId, Title: title, Content: "content", Isbn: "1234567890", LikeCount: likeCount}
	require.Nil(t, db.Create(post).Error)
	for _, tagId := range tagIds {
		require.Nil(t, db.Create(&model.PostTag{PostId: post.Id, TagId: tagId}).Error)
	}
	return post
}

func createTags(t *testing.T, db *gorm.DB, names ...string) []model.Tag {
	t.Helper()
	tags := make([]model.Tag, 0, len(names))
	for _, name := range names {
		tag := model.Tag{Name: name}
		require.Nil(t, db.Create(&tag).Error)
		tags = append(tags, tag)
	}
	return tags
}

func TestPopularPostsOrdering(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	engine := NewEngine(db)

	author := createUser(t, db, "author")
	require.Nil(t, db.Create(&model.Book{Isbn: "1234567890", Title: "book", Author: "someone"}).Error)
	first := createPost(t, db, author.Id, "five-a", 5)
	second := createPost(t, db, author.Id, "five-b", 5)
	third := createPost(t, db, author.Id, "three", 3)

	// The tie between the two five-like posts may resolve either way, but
	// the three-like post must never outrank them.
	for i := 0; i < 10; i++ {
		posts, err := engine.PopularPosts(nil, 1, 9)
		require.Nil(t, err)
		require.Len(t, posts, 3)
		require.Equal(t, third.Id, posts[2].Id)
		require.Contains(t, []uint{first.Id, second.Id}, posts[0].Id)
		require.Contains(t, []uint{first.Id, second.Id}, posts[1].Id)
	}
}

func TestPopularPostsExcludesViewer(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	engine := NewEngine(db)

	viewer := createUser(t, db, "viewer")
	other := createUser(t, db, "other")
	require.Nil(t, db.Create(&model.Book{Isbn: "1234567890", Title: "book", Author: "someone"}).Error)
	createPost(t, db, viewer.Id, "mine", 100)
	theirs := createPost(t, db, other.Id, "theirs", 1)

	posts, err := engine.PopularPosts(&viewer.Id, 1, 9)
	require.Nil(t, err)
	require.Len(t, posts, 1)
	require.Equal(t, theirs.Id, posts[0].Id)

	// Anonymous callers see everything.
	posts, err = engine.PopularPosts(nil, 1, 9)
	require.Nil(t, err)
	require.Len(t, posts, 2)
}

func TestPopularPostsPagination(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	engine := NewEngine(db)

	author := createUser(t, db, "author")
	require.Nil(t, db.Create(&model.Book{Isbn: "1234567890", Title: "book", Author: "someone"}).Error)
	for i := 0; i < 5; i++ {
		createPost(t, db, author.Id, "post", int64(i))
	}

	pageOne, err := engine.PopularPosts(nil, 1, 2)
	require.Nil(t, err)
	require.Len(t, pageOne, 2)

	pageThree, err := engine.PopularPosts(nil, 3, 2)
	require.Nil(t, err)
	require.Len(t, pageThree, 1)

	pageFour, err := engine.PopularPosts(nil, 4, 2)
	require.Nil(t, err)
	require.Len(t, pageFour, 0)
}

func TestPersonalizedPostsCompositeScore(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	engine := NewEngine(db)

	viewer := createUser(t, db, "viewer")
	author := createUser(t, db, "author")
	require.Nil(t, db.Create(&model.Book{Isbn: "1234567890", Title: "book", Author: "someone"}).Error)
	tags := createTags(t, db, "fiction", "mystery", "drama")

	// Viewer cares a lot about fiction, a little about mystery, has never
	// touched drama.
	require.Nil(t, db.Create(&model.UserTagPreference{UserId: viewer.Id, TagId: tags[0].Id, Frequency: 5}).Error)
	require.Nil(t, db.Create(&model.UserTagPreference{UserId: viewer.Id, TagId: tags[1].Id, Frequency: 2}).Error)

	// X: fiction+mystery -> frequency_score 7, match_score 2, composite 14.
	// Y: fiction only    -> frequency_score 5, match_score 1, composite 5.
	// Z: drama only      -> no matching preference row, excluded entirely.
	x := createPost(t, db, author.Id, "x", 0, tags[0].Id, tags[1].Id)
	y := createPost(t, db, author.Id, "y", 0, tags[0].Id)
	createPost(t, db, author.Id, "z", 0, tags[2].Id)

	posts, err := engine.PersonalizedPosts(viewer.Id, 1, 9)
	require.Nil(t, err)
	require.Len(t, posts, 2)
	require.Equal(t, x.Id, posts[0].Id)
	require.Equal(t, y.Id, posts[1].Id)
}

func TestPersonalizedPostsExcludesViewerOwnPosts(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	engine := NewEngine(db)

	viewer := createUser(t, db, "viewer")
	require.Nil(t, db.Create(&model.Book{Isbn: "1234567890", Title: "book", Author: "someone"}).Error)
	tags := createTags(t, db, "fiction")
	require.Nil(t, db.Create(&model.UserTagPreference{UserId: viewer.Id, TagId: tags[0].Id, Frequency: 3}).Error)

	createPost(t, db, viewer.Id, "mine", 0, tags[0].Id)

	posts, err := engine.PersonalizedPosts(viewer.Id, 1, 9)
	require.Nil(t, err)
	require.Len(t, posts, 0)
}
