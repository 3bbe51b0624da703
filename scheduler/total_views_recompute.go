package scheduler

import (
	"context"
	"time"

	"gorm.io/gorm"

	Logger "github.com/Park-yeongseo/Blog-Project/utils/log"
)

// DefaultRecomputeInterval is how often every user's total_views aggregate
// is rebuilt from scratch.
const DefaultRecomputeInterval = 60 * time.Minute

// TotalViewsRecomputeModule overwrites users.total_views with the sum of
// views over each user's posts. Full recompute, not incremental: the hourly
// staleness is accepted in exchange for being self-healing against any drift
// the flush job might accumulate.
type TotalViewsRecomputeModule struct {
	DB       *gorm.DB
	Interval time.Duration
}

func NewTotalViewsRecomputeModule(db *gorm.DB) *TotalViewsRecomputeModule {
	return &TotalViewsRecomputeModule{DB: db, Interval: DefaultRecomputeInterval}
}

func (m *TotalViewsRecomputeModule) Name() string {
	return "total_views_recompute"
}

func (m *TotalViewsRecomputeModule) RunModule(ctx context.Context) error {
	ticker := time.NewTicker(m.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := m.RecomputeOnce(ctx); err != nil {
				Logger.Log.Errorf("total views recompute cycle failed: %v", err)
			}
		}
	}
}

// RecomputeOnce rebuilds the aggregate for every user in one statement.
// Users without any posts are reset to zero, not left at their old value.
func (m *TotalViewsRecomputeModule) RecomputeOnce(ctx context.Context) error {
	return m.DB.WithContext(ctx).Exec(
		`UPDATE users
		 SET total_views = COALESCE(
		     (SELECT SUM(posts.views) FROM posts WHERE posts.user_id = users.id), 0)`,
	).Error
}
