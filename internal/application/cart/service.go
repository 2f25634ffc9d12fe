package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	domain "cameroonmark/internal/domain/cart"
	"cameroonmark/internal/domain/notice"
	"cameroonmark/internal/domain/product"
	"cameroonmark/internal/domain/storage"
)

// Service defines the cart store interface
type Service interface {
	// Load replaces the in-memory cart with the stored one.
	Load(ctx context.Context)
	AddToCart(ctx context.Context, p product.Product, quantity int)
	RemoveFromCart(ctx context.Context, productID string)
	UpdateQuantity(ctx context.Context, productID string, quantity int)
	ClearCart(ctx context.Context)

	Items() []domain.Item
	Item(productID string) (domain.Item, bool)
	TotalItems() int
	TotalPrice() float64
	Summary(shippingFee float64) domain.Summary
}

type service struct {
	store    storage.Store
	key      string
	notifier notice.Notifier
	logger   *zap.Logger

	mu sync.Mutex
	// items keeps insertion order for display; index maps product id to position.
	items []domain.Item
	index map[string]int
}

// NewService creates a new cart store
func NewService(store storage.Store, keys storage.Keys, notifier notice.Notifier, logger *zap.Logger) Service {
	if notifier == nil {
		notifier = notice.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		store:    store,
		key:      keys.Cart,
		notifier: notifier,
		logger:   logger.Named("cart"),
		index:    make(map[string]int),
	}
}

func (s *service) Load(ctx context.Context) {
	raw, err := s.store.Get(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		return
	}
	if err != nil {
		s.logger.Error("failed to load cart", zap.String("key", s.key), zap.Error(err))
		return
	}

	var stored []domain.Item
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		s.logger.Error("failed to decode stored cart", zap.String("key", s.key), zap.Error(err))
		return
	}

	items, index, dropped := normalize(stored)
	if dropped > 0 {
		s.logger.Warn("dropped invalid stored cart entries", zap.Int("dropped", dropped))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	s.index = index
}

// normalize enforces one positive entry per product, merging duplicates in first-seen order
func normalize(stored []domain.Item) ([]domain.Item, map[string]int, int) {
	items := make([]domain.Item, 0, len(stored))
	index := make(map[string]int, len(stored))
	dropped := 0
	for _, it := range stored {
		if it.ProductID == "" || it.Quantity < 1 {
			dropped++
			continue
		}
		if i, ok := index[it.ProductID]; ok {
			items[i].Quantity += it.Quantity
			dropped++
			continue
		}
		index[it.ProductID] = len(items)
		items = append(items, it)
	}
	return items, index, dropped
}

func (s *service) AddToCart(ctx context.Context, p product.Product, quantity int) {
	if quantity < 1 {
		quantity = domain.DefaultQuantity
	}

	s.mu.Lock()
	if i, ok := s.index[p.ID]; ok {
		s.items[i].Quantity += quantity
	} else {
		s.index[p.ID] = len(s.items)
		s.items = append(s.items, domain.Item{ProductID: p.ID, Product: p, Quantity: quantity})
	}
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notifier.Notify(notice.Notice{
		Title:       "Added to cart",
		Description: fmt.Sprintf("%s added to your cart", p.Title),
	})
}

func (s *service) RemoveFromCart(ctx context.Context, productID string) {
	s.mu.Lock()
	if i, ok := s.index[productID]; ok {
		s.items = append(s.items[:i:i], s.items[i+1:]...)
		s.reindexLocked()
	}
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notifier.Notify(notice.Notice{
		Title:       "Item removed",
		Description: "Item removed from your cart",
		Variant:     notice.VariantDestructive,
	})
}

func (s *service) UpdateQuantity(ctx context.Context, productID string, quantity int) {
	if quantity <= 0 {
		s.RemoveFromCart(ctx, productID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.index[productID]; ok {
		s.items[i].Quantity = quantity
	}
	s.persistLocked(ctx)
}

func (s *service) ClearCart(ctx context.Context) {
	s.mu.Lock()
	s.items = nil
	s.index = make(map[string]int)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notifier.Notify(notice.Notice{
		Title:       "Cart cleared",
		Description: "All items have been removed from your cart",
	})
}

func (s *service) reindexLocked() {
	s.index = make(map[string]int, len(s.items))
	for i, it := range s.items {
		s.index[it.ProductID] = i
	}
}

// persistLocked writes the whole cart. Failures are logged and the in-memory cart stays authoritative.
// The write outlives the caller's cancellation so storage never falls behind memory.
func (s *service) persistLocked(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	items := s.items
	if items == nil {
		items = []domain.Item{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		s.logger.Error("failed to encode cart", zap.Error(err))
		return
	}
	if err := s.store.Set(ctx, s.key, string(raw)); err != nil {
		s.logger.Error("failed to save cart", zap.String("key", s.key), zap.Error(err))
	}
}

func (s *service) Items() []domain.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *service) Item(productID string) (domain.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[productID]
	if !ok {
		return domain.Item{}, false
	}
	return s.items[i], true
}

func (s *service) TotalItems() int {
	return totalItems(s.Items())
}

func (s *service) TotalPrice() float64 {
	return totalPrice(s.Items())
}

func (s *service) Summary(shippingFee float64) domain.Summary {
	items := s.Items()
	sum := domain.Summary{
		Items:      items,
		TotalItems: totalItems(items),
		Subtotal:   totalPrice(items),
	}
	if len(items) > 0 {
		sum.Shipping = shippingFee
	}
	sum.Total = sum.Subtotal + sum.Shipping
	return sum
}

func totalItems(items []domain.Item) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

func totalPrice(items []domain.Item) float64 {
	total := 0.0
	for _, it := range items {
		total += it.LineTotal()
	}
	return total
}
