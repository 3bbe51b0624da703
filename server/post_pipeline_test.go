package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Park-yeongseo/Blog-Project/model"
	"github.com/Park-yeongseo/Blog-Project/oracle"
	"github.com/Park-yeongseo/Blog-Project/utils"
)

// stubOracle satisfies TagGenerator with a canned reply.
type stubOracle struct {
	tags []oracle.Tag
	err  error
}

func (s *stubOracle) GenerateTags(ctx context.Context, vocabulary []model.Tag, bookTitle string, isbn string, content string) ([]oracle.Tag, error) {
	return s.tags, s.err
}

func seedVocabulary(t *testing.T, db *gorm.DB) []model.Tag {
	t.Helper()
	tags := []model.Tag{{Name: "fiction"}, {Name: "mystery"}, {Name: "drama"}}
	for i := range tags {
		require.Nil(t, db.Create(&tags[i]).Error)
	}
	return tags
}

func seedAuthor(t *testing.T, db *gorm.DB) *model.User {
	t.Helper()
	user := &model.User{Username: "author", Email: "author@example.com", PasswordHash: "x", Bio: model.DefaultBio}
	require.Nil(t, db.Create(user).Error)
	return user
}

func oracleReplyFor(tags []model.Tag) []oracle.Tag {
	reply := make([]oracle.Tag, 0, len(tags))
	for _, tag := range tags {
		reply = append(reply, oracle.Tag{TagId: tag.Id, TagName: tag.Name})
	}
	return reply
}

var bookRequest = PostCreateRequest{
	Title:      "a foggy read",
	Content:    "a family curse on the moor",
	Isbn:       "9780451528018",
	BookTitle:  "The Hound of the Baskervilles",
	BookAuthor: "Arthur Conan Doyle",
}

func TestCreatePostPipeline(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	author := seedAuthor(t, db)
	vocabulary := seedVocabulary(t, db)

	s := &Server{DB: db, Oracle: &stubOracle{tags: oracleReplyFor(vocabulary)}}

	post, err := s.createPostPipeline(context.Background(), author.Id, bookRequest)
	require.Nil(t, err)
	require.NotZero(t, post.Id)

	var tagLinks []model.PostTag
	require.Nil(t, db.Where("post_id = ?", post.Id).Find(&tagLinks).Error)
	require.Len(t, tagLinks, 3)

	// A first post starts every touched preference at exactly 1.
	var prefs []model.UserTagPreference
	require.Nil(t, db.Where("user_id = ?", author.Id).Find(&prefs).Error)
	require.Len(t, prefs, 3)
	for _, pref := range prefs {
		require.Equal(t, int64(1), pref.Frequency)
	}

	var book model.Book
	require.Nil(t, db.Where("isbn = ?", bookRequest.Isbn).First(&book).Error)
	require.Equal(t, bookRequest.BookTitle, book.Title)
}

// The very first post about an ISBN has no books row yet; the pipeline must
// create it before the post insert so the posts->books foreign key holds.
func TestCreatePostPipelineFirstPostForUnknownBook(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	author := seedAuthor(t, db)
	vocabulary := seedVocabulary(t, db)

	var books int64
	require.Nil(t, db.Model(&model.Book{}).Count(&books).Error)
	require.Equal(t, int64(0), books)

	s := &Server{DB: db, Oracle: &stubOracle{tags: oracleReplyFor(vocabulary)}}
	post, err := s.createPostPipeline(context.Background(), author.Id, bookRequest)
	require.Nil(t, err)

	// The committed post resolves its book through the FK.
	var created model.Post
	require.Nil(t, db.Preload("Book").First(&created, post.Id).Error)
	require.NotNil(t, created.Book)
	require.Equal(t, bookRequest.Isbn, created.Book.Isbn)
}

func TestCreatePostPipelineIncrementsOverlappingPreferences(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	author := seedAuthor(t, db)
	vocabulary := seedVocabulary(t, db)

	s := &Server{DB: db, Oracle: &stubOracle{tags: oracleReplyFor(vocabulary)}}

	_, err := s.createPostPipeline(context.Background(), author.Id, bookRequest)
	require.Nil(t, err)
	_, err = s.createPostPipeline(context.Background(), author.Id, bookRequest)
	require.Nil(t, err)

	// One row per (user, tag), incremented in place, never duplicated.
	var prefs []model.UserTagPreference
	require.Nil(t, db.Where("user_id = ?", author.Id).Find(&prefs).Error)
	require.Len(t, prefs, 3)
	for _, pref := range prefs {
		require.Equal(t, int64(2), pref.Frequency)
	}
}

func TestCreatePostPipelineReusesBookByIsbn(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	author := seedAuthor(t, db)
	vocabulary := seedVocabulary(t, db)

	existing := model.Book{Isbn: bookRequest.Isbn, Title: "the hound of the baskervilles", Author: "A. C. Doyle"}
	require.Nil(t, db.Create(&existing).Error)

	s := &Server{DB: db, Oracle: &stubOracle{tags: oracleReplyFor(vocabulary)}}
	post, err := s.createPostPipeline(context.Background(), author.Id, bookRequest)
	require.Nil(t, err)

	var count int64
	require.Nil(t, db.Model(&model.Book{}).Where("isbn = ?", bookRequest.Isbn).Count(&count).Error)
	require.Equal(t, int64(1), count)

	// The post points at the pre-existing row, differently-cased title and
	// all.
	var got model.Post
	require.Nil(t, db.Preload("Book").First(&got, post.Id).Error)
	require.Equal(t, existing.Id, got.Book.Id)
}

func TestCreatePostPipelineRollsBackOnOracleFailure(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	author := seedAuthor(t, db)
	seedVocabulary(t, db)

	s := &Server{DB: db, Oracle: &stubOracle{err: oracle.ErrInvalidReply}}

	_, err := s.createPostPipeline(context.Background(), author.Id, bookRequest)
	require.ErrorIs(t, err, oracle.ErrInvalidReply)

	// Nothing may survive the rollback, not even the book upsert.
	var posts, books, tagLinks, prefs int64
	db.Model(&model.Post{}).Count(&posts)
	db.Model(&model.Book{}).Count(&books)
	db.Model(&model.PostTag{}).Count(&tagLinks)
	db.Model(&model.UserTagPreference{}).Count(&prefs)
	require.Zero(t, posts)
	require.Zero(t, books)
	require.Zero(t, tagLinks)
	require.Zero(t, prefs)
}

func TestCreatePostPipelineRollsBackOnUnknownTag(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	author := seedAuthor(t, db)
	vocabulary := seedVocabulary(t, db)

	// A hallucinated tag id fails the FK on insert and takes the whole
	// transaction down with it.
	reply := oracleReplyFor(vocabulary[:2])
	reply = append(reply, oracle.Tag{TagId: 9999, TagName: "made-up"})
	s := &Server{DB: db, Oracle: &stubOracle{tags: reply}}

	_, err := s.createPostPipeline(context.Background(), author.Id, bookRequest)
	require.NotNil(t, err)

	var posts, tagLinks int64
	db.Model(&model.Post{}).Count(&posts)
	db.Model(&model.PostTag{}).Count(&tagLinks)
	require.Zero(t, posts)
	require.Zero(t, tagLinks)
}
