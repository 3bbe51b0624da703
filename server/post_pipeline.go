package server

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Park-yeongseo/Blog-Project/model"
	Logger "github.com/Park-yeongseo/Blog-Project/utils/log"
)

// ErrPostCreationFailed is the generic failure surfaced for any error inside
// the creation transaction, so internals never leak to the client. Oracle
// failures are the exception and keep their own, more specific errors.
var ErrPostCreationFailed = errors.New("post creation failed")

// createPostPipeline runs post creation as one atomic unit: the post row,
// the book link, every tag link and every preference bump all commit
// together or not at all.
//
// Order matters: the book is resolved first because posts carry a foreign
// key on books.isbn, the post row is created next so the generated id exists
// before any tag link references it, and only then is the oracle called, so
// it sees the canonical book title.
func (s *Server) createPostPipeline(ctx context.Context, authorId uint, req PostCreateRequest) (*model.Post, error) {
	post := &model.Post{
		UserId:  authorId,
		Title:   req.Title,
		Content: req.Content,
		Isbn:    req.Isbn,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// ISBN is the book's natural key: reuse the existing row even when
		// the submitted title or author are spelled differently. The book
		// row must exist before the post insert satisfies its FK.
		var book model.Book
		res := tx.Where("isbn = ?", req.Isbn).First(&book)
		if res.Error != nil {
			if !errors.Is(res.Error, gorm.ErrRecordNotFound) {
				return res.Error
			}
			book = model.Book{Isbn: req.Isbn, Title: req.BookTitle, Author: req.BookAuthor}
			if err := tx.Create(&book).Error; err != nil {
				return err
			}
		}

		if err := tx.Create(post).Error; err != nil {
			return err
		}

		var vocabulary []model.Tag
		if err := tx.Order("id").Find(&vocabulary).Error; err != nil {
			return err
		}

		tags, err := s.Oracle.GenerateTags(ctx, vocabulary, book.Title, book.Isbn, req.Content)
		if err != nil {
			return err
		}

		for _, tag := range tags {
			if err := tx.Create(&model.PostTag{PostId: post.Id, TagId: tag.TagId}).Error; err != nil {
				return err
			}

			// Upsert the author's affinity for this tag: first occurrence
			// starts the counter at 1, later posts bump it in place.
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "tag_id"}},
				DoUpdates: clause.Assignments(map[string]interface{}{"frequency": gorm.Expr("user_tag_preferences.frequency + 1")}),
			}).Create(&model.UserTagPreference{UserId: authorId, TagId: tag.TagId, Frequency: 1}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// logPipelineFailure records the underlying cause before it gets collapsed
// into the generic client-facing error.
func logPipelineFailure(authorId uint, err error) {
	Logger.Log.Errorf("post creation for user %d rolled back: %v", authorId, err)
}
