package notifier

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cameroonmark/internal/domain/notice"
)

// DefaultCapacity bounds the number of undelivered notices kept in memory
const DefaultCapacity = 50

// Queue buffers notices until the presentation layer drains them.
// When full, the oldest notice is dropped.
type Queue struct {
	mu       sync.Mutex
	items    []notice.Notice
	capacity int
	logger   *zap.Logger
}

// NewQueue creates a bounded notice queue
func NewQueue(capacity int, logger *zap.Logger) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Queue{capacity: capacity, logger: logger}
}

func (q *Queue) Notify(n notice.Notice) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if n.Variant == "" {
		n.Variant = notice.VariantDefault
	}

	q.logger.Debug("notice",
		zap.String("title", n.Title),
		zap.String("description", n.Description),
		zap.String("variant", string(n.Variant)),
	)

	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) >= q.capacity {
		q.items = q.items[1:]
	}
	q.items = append(q.items, n)
}

// Drain returns pending notices oldest first and empties the queue
func (q *Queue) Drain() []notice.Notice {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	if out == nil {
		out = []notice.Notice{}
	}
	return out
}

// Len returns the number of pending notices
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
