package scheduler

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Park-yeongseo/Blog-Project/model"
	"github.com/Park-yeongseo/Blog-Project/utils"
	Logger "github.com/Park-yeongseo/Blog-Project/utils/log"
)

// DefaultFlushInterval is how often buffered view counts are drained into
// the durable store.
const DefaultFlushInterval = 5 * time.Minute

// ViewFlushModule periodically drains the redis view accumulators into
// posts.views. It is the sole reader and resetter of those keys. A cycle
// that fails is logged and abandoned; whatever is still pending will be
// picked up by the next tick. Ticks never overlap: the next drain only
// starts after the previous one returned.
type ViewFlushModule struct {
	DB       *gorm.DB
	Counter  *utils.ViewCounter
	Interval time.Duration
}

func NewViewFlushModule(db *gorm.DB, counter *utils.ViewCounter) *ViewFlushModule {
	return &ViewFlushModule{DB: db, Counter: counter, Interval: DefaultFlushInterval}
}

func (m *ViewFlushModule) Name() string {
	return "view_flush"
}

func (m *ViewFlushModule) RunModule(ctx context.Context) error {
	ticker := time.NewTicker(m.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := m.FlushOnce(ctx); err != nil {
				// Abandon the cycle, never crash the module over it.
				Logger.Log.Errorf("view flush cycle failed: %v", err)
			}
		}
	}
}

// FlushOnce drains every active accumulator key once. Each drained value is
// applied as a relative update (views = views + drained); the durable
// counter is never overwritten absolutely.
func (m *ViewFlushModule) FlushOnce(ctx context.Context) error {
	keys, err := m.Counter.ListKeys(ctx)
	if err != nil {
		return err
	}

	for _, key := range keys {
		postId, err := utils.DecodePostViewKey(key)
		if err != nil {
			Logger.Log.Errorf("skipping unparseable view key %s: %v", key, err)
			continue
		}

		drained, err := m.Counter.GetAndReset(ctx, key)
		if err != nil {
			return err
		}
		if drained == 0 {
			continue
		}

		if err := m.DB.WithContext(ctx).Model(&model.Post{}).
			Where("id = ?", postId).
			UpdateColumn("views", gorm.Expr("views + ?", drained)).Error; err != nil {
			return err
		}
	}
	return nil
}
