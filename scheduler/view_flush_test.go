package scheduler

import (
	"context"
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

func setupFlushTest(t *testing.T) (*gorm.DB, *utils.ViewCounter, *model.Post) {
	t.Helper()
	ctx := context.Background()

	db, _ := utils.CreateTempDB(t)
	counter, err := utils.GetViewCounter(ctx)
	require.Nil(t, err)

	user := &model.User{Username: "author", Email: "author@example.com", PasswordHash: "x"}
	require.Nil(t, db.Create(user).Error)
	require.Nil(t, db.Create(&model.Book{Isbn: "1234567890", Title: "book", Author: "someone"}).Error)
	post := &model.Post{UserId: user.Id, Title: "post", Content: "content", Isbn: "1234567890"}
	require.Nil(t, db.Create(post).Error)

	// The redis instance is shared across test runs; drain any leftover
	// accumulators so this test only observes its own increments.
	flush := NewViewFlushModule(db, counter)
	require.Nil(t, flush.FlushOnce(ctx))

	return db, counter, post
}

func postViews(t *testing.T, db *gorm.DB, postId uint) int64 {
	t.Helper()
	var post model.Post
	require.Nil(t, db.First(&post, postId).Error)
	return post.Views
}

func TestFlushOnceDrainsPendingViews(t *testing.T) {
	ctx := context.Background()
	db, counter, post := setupFlushTest(t)
	flush := NewViewFlushModule(db, counter)

	baseline := postViews(t, db, post.Id)

	for i := 0; i < 7; i++ {
		_, err := counter.Increment(ctx, post.Id)
		require.Nil(t, err)
	}

	require.Nil(t, flush.FlushOnce(ctx))
	require.Equal(t, baseline+7, postViews(t, db, post.Id))

	// The accumulator was reset; a second flush must not double-count.
	require.Nil(t, flush.FlushOnce(ctx))
	require.Equal(t, baseline+7, postViews(t, db, post.Id))

	drained, err := counter.GetAndReset(ctx, utils.PostViewKey(post.Id))
	require.Nil(t, err)
	require.Equal(t, int64(0), drained)
}

// A cancelled cycle stops before touching anything: the accumulator keeps
// its pending count and the durable counter is untouched, so the next cycle
// picks the views up.
func TestFlushOnceHonorsCancelledContext(t *testing.T) {
	ctx := context.Background()
	db, counter, post := setupFlushTest(t)
	flush := NewViewFlushModule(db, counter)

	baseline := postViews(t, db, post.Id)

	for i := 0; i < 5; i++ {
		_, err := counter.Increment(ctx, post.Id)
		require.Nil(t, err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	require.NotNil(t, flush.FlushOnce(cancelled))
	require.Equal(t, baseline, postViews(t, db, post.Id))

	pending, err := counter.Pending(ctx, post.Id)
	require.Nil(t, err)
	require.Equal(t, int64(5), pending)

	require.Nil(t, flush.FlushOnce(ctx))
	require.Equal(t, baseline+5, postViews(t, db, post.Id))
}

func TestFlushOnceAppliesRelativeUpdates(t *testing.T) {
	ctx := context.Background()
	db, counter, post := setupFlushTest(t)
	flush := NewViewFlushModule(db, counter)

	baseline := postViews(t, db, post.Id)

	_, err := counter.Increment(ctx, post.Id)
	require.Nil(t, err)
	require.Nil(t, flush.FlushOnce(ctx))

	// Views arriving between cycles land in the next cycle, on top of the
	// durable value rather than replacing it.
	_, err = counter.Increment(ctx, post.Id)
	require.Nil(t, err)
	_, err = counter.Increment(ctx, post.Id)
	require.Nil(t, err)
	require.Nil(t, flush.FlushOnce(ctx))

	require.Equal(t, baseline+3, postViews(t, db, post.Id))
}

func TestRecomputeOnceOverwritesTotals(t *testing.T) {
	ctx := context.Background()
	db, _ := utils.CreateTempDB(t)

	author := &model.User{Username: "author", Email: "author@example.com", PasswordHash: "x"}
	require.Nil(t, db.Create(author).Error)
	lurker := &model.User{Username: "lurker", Email: "lurker@example.com", PasswordHash: "x", TotalViews: 999}
	require.Nil(t, db.Create(lurker).Error)
	require.Nil(t, db.Create(&model.Book{Isbn: "1234567890", Title: "book", Author: "someone"}).Error)

	require.Nil(t, db.Create(&model.Post{UserId: author.Id, Title: "a", Isbn: "1234567890", Views: 10}).Error)
	require.Nil(t, db.Create(&model.Post{UserId: author.Id, Title: "b", Isbn: "1234567890", Views: 32}).Error)

	recompute := NewTotalViewsRecomputeModule(db)
	require.Nil(t, recompute.RecomputeOnce(ctx))

	var got model.User
	require.Nil(t, db.First(&got, author.Id).Error)
	require.Equal(t, int64(42), got.TotalViews)

	// A user without posts is reset to zero, not left at a stale value.
	require.Nil(t, db.First(&got, lurker.Id).Error)
	require.Equal(t, int64(0), got.TotalViews)

	// Running again is a pure overwrite, never cumulative.
	require.Nil(t, recompute.RecomputeOnce(ctx))
	require.Nil(t, db.First(&got, author.Id).Error)
	require.Equal(t, int64(42), got.TotalViews)
}
