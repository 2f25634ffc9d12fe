package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "cameroonmark/internal/domain/cart"
	"cameroonmark/internal/domain/notice"
	"cameroonmark/internal/domain/product"
	"cameroonmark/internal/domain/storage"
	"cameroonmark/internal/infrastructure/repository"
)

var keys = storage.NewKeys("")

var (
	pepper = product.Product{ID: "p1", Title: "Penja pepper", Price: 3500, Stock: 20}
	cloth  = product.Product{ID: "p2", Title: "Ndop cloth", Price: 15000, Stock: 4}
	coffee = product.Product{ID: "p3", Title: "Arabica coffee", Price: 2750, Stock: 50}
)

type recorder struct {
	notices []notice.Notice
}

func (r *recorder) Notify(n notice.Notice) { r.notices = append(r.notices, n) }

func newCartTest(t *testing.T) (Service, *repository.MemoryStore, *recorder) {
	t.Helper()
	store := repository.NewMemoryStore()
	rec := &recorder{}
	return NewService(store, keys, rec, nil), store, rec
}

func storedItems(t *testing.T, s storage.Store) []domain.Item {
	t.Helper()
	raw, err := s.Get(context.Background(), keys.Cart)
	require.NoError(t, err)
	var items []domain.Item
	require.NoError(t, json.Unmarshal([]byte(raw), &items))
	return items
}

func TestAddToCart_SameProductAggregates(t *testing.T) {
	svc, store, _ := newCartTest(t)
	ctx := context.Background()

	svc.AddToCart(ctx, pepper, 1)
	svc.AddToCart(ctx, pepper, 2)

	items := svc.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 10500.0, svc.TotalPrice())
	assert.Equal(t, 3, svc.TotalItems())

	persisted := storedItems(t, store)
	require.Len(t, persisted, 1)
	assert.Equal(t, 3, persisted[0].Quantity)
}

func TestAddToCart_QuantitySumsForAnySequence(t *testing.T) {
	svc, _, _ := newCartTest(t)
	ctx := context.Background()

	want := 0
	for _, q := range []int{1, 4, 2, 7, 1} {
		svc.AddToCart(ctx, coffee, q)
		want += q
	}

	item, ok := svc.Item(coffee.ID)
	require.True(t, ok)
	assert.Equal(t, want, item.Quantity)
	assert.Len(t, svc.Items(), 1)
}

func TestAddToCart_NonPositiveUsesDefault(t *testing.T) {
	svc, _, _ := newCartTest(t)

	svc.AddToCart(context.Background(), pepper, 0)
	svc.AddToCart(context.Background(), pepper, -5)

	item, ok := svc.Item(pepper.ID)
	require.True(t, ok)
	assert.Equal(t, 2, item.Quantity)
}

func TestAddToCart_KeepsInsertionOrderAndNotifies(t *testing.T) {
	svc, _, rec := newCartTest(t)
	ctx := context.Background()

	svc.AddToCart(ctx, cloth, 1)
	svc.AddToCart(ctx, pepper, 1)
	svc.AddToCart(ctx, cloth, 1)

	items := svc.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "p2", items[0].ProductID)
	assert.Equal(t, "p1", items[1].ProductID)

	require.Len(t, rec.notices, 3)
	assert.Equal(t, "Added to cart", rec.notices[0].Title)
	assert.Equal(t, "Ndop cloth added to your cart", rec.notices[0].Description)
}

func TestUpdateQuantity_NonPositiveRemoves(t *testing.T) {
	for _, q := range []int{0, -1} {
		svc, store, rec := newCartTest(t)
		ctx := context.Background()
		svc.AddToCart(ctx, pepper, 2)
		svc.AddToCart(ctx, cloth, 1)

		svc.UpdateQuantity(ctx, pepper.ID, q)

		_, ok := svc.Item(pepper.ID)
		assert.False(t, ok, "quantity %d", q)
		assert.Len(t, svc.Items(), 1)
		assert.Len(t, storedItems(t, store), 1)
		assert.Equal(t, "Item removed", rec.notices[len(rec.notices)-1].Title)
	}
}

func TestUpdateQuantity_SetsExactly(t *testing.T) {
	svc, store, rec := newCartTest(t)
	ctx := context.Background()
	svc.AddToCart(ctx, pepper, 2)
	before := len(rec.notices)

	svc.UpdateQuantity(ctx, pepper.ID, 5)

	item, _ := svc.Item(pepper.ID)
	assert.Equal(t, 5, item.Quantity)
	assert.Equal(t, 5, storedItems(t, store)[0].Quantity)
	assert.Len(t, rec.notices, before)

	// unknown ids are ignored
	svc.UpdateQuantity(ctx, "missing", 3)
	assert.Len(t, svc.Items(), 1)
}

func TestRemoveFromCart_Idempotent(t *testing.T) {
	svc, _, rec := newCartTest(t)
	ctx := context.Background()
	svc.AddToCart(ctx, pepper, 1)
	svc.AddToCart(ctx, cloth, 2)
	before := svc.Items()

	svc.RemoveFromCart(ctx, "missing")

	assert.Equal(t, before, svc.Items())
	assert.Equal(t, "Item removed", rec.notices[len(rec.notices)-1].Title)
	assert.Equal(t, notice.VariantDestructive, rec.notices[len(rec.notices)-1].Variant)
}

func TestRemoveFromCart_Reindexes(t *testing.T) {
	svc, _, _ := newCartTest(t)
	ctx := context.Background()
	svc.AddToCart(ctx, pepper, 1)
	svc.AddToCart(ctx, cloth, 1)
	svc.AddToCart(ctx, coffee, 1)

	svc.RemoveFromCart(ctx, pepper.ID)
	svc.AddToCart(ctx, coffee, 2)

	item, ok := svc.Item(coffee.ID)
	require.True(t, ok)
	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, []string{"p2", "p3"}, ids(svc.Items()))
}

func TestClearCart(t *testing.T) {
	svc, store, rec := newCartTest(t)
	ctx := context.Background()
	svc.AddToCart(ctx, pepper, 1)
	svc.AddToCart(ctx, cloth, 1)

	svc.ClearCart(ctx)

	assert.Empty(t, svc.Items())
	assert.Equal(t, 0, svc.TotalItems())
	assert.Equal(t, 0.0, svc.TotalPrice())
	assert.Empty(t, storedItems(t, store))

	raw, err := store.Get(ctx, keys.Cart)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
	assert.Equal(t, "Cart cleared", rec.notices[len(rec.notices)-1].Title)
}

func TestTotals(t *testing.T) {
	svc, _, _ := newCartTest(t)
	ctx := context.Background()
	svc.AddToCart(ctx, pepper, 2)
	svc.AddToCart(ctx, cloth, 1)
	svc.AddToCart(ctx, coffee, 4)

	wantItems, wantPrice := 0, 0.0
	for _, it := range svc.Items() {
		wantItems += it.Quantity
		wantPrice += float64(it.Quantity) * it.Product.Price
	}
	assert.Equal(t, wantItems, svc.TotalItems())
	assert.Equal(t, wantPrice, svc.TotalPrice())
	assert.Equal(t, 7, svc.TotalItems())
	assert.Equal(t, 33000.0, svc.TotalPrice())
}

func TestSummary(t *testing.T) {
	svc, _, _ := newCartTest(t)

	empty := svc.Summary(2000)
	assert.Equal(t, 0.0, empty.Shipping)
	assert.Equal(t, 0.0, empty.Total)

	svc.AddToCart(context.Background(), pepper, 3)
	sum := svc.Summary(2000)
	assert.Equal(t, 3, sum.TotalItems)
	assert.Equal(t, 10500.0, sum.Subtotal)
	assert.Equal(t, 2000.0, sum.Shipping)
	assert.Equal(t, 12500.0, sum.Total)
}

func TestLoad_RoundTrip(t *testing.T) {
	svc, store, _ := newCartTest(t)
	ctx := context.Background()
	svc.AddToCart(ctx, cloth, 1)
	svc.AddToCart(ctx, pepper, 3)
	svc.AddToCart(ctx, coffee, 2)

	fresh := NewService(store, keys, nil, nil)
	fresh.Load(ctx)

	got, want := fresh.Items(), svc.Items()
	sortItems(got)
	sortItems(want)
	assert.Equal(t, want, got)
	assert.Equal(t, svc.TotalPrice(), fresh.TotalPrice())
}

func TestLoad_NormalizesStoredEntries(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()
	raw, err := json.Marshal([]domain.Item{
		{ProductID: "p1", Product: pepper, Quantity: 1},
		{ProductID: "", Product: cloth, Quantity: 1},
		{ProductID: "p3", Product: coffee, Quantity: 0},
		{ProductID: "p1", Product: pepper, Quantity: 2},
	})
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, keys.Cart, string(raw)))

	svc := NewService(store, keys, nil, nil)
	svc.Load(ctx)

	items := svc.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestLoad_CorruptOrMissing(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()

	svc := NewService(store, keys, nil, nil)
	svc.Load(ctx)
	assert.Empty(t, svc.Items())

	require.NoError(t, store.Set(ctx, keys.Cart, "{broken"))
	svc.Load(ctx)
	assert.Empty(t, svc.Items())
}

type brokenStore struct{ storage.Store }

func (brokenStore) Get(context.Context, string) (string, error) { return "", errors.New("disabled") }
func (brokenStore) Set(context.Context, string, string) error   { return errors.New("quota exceeded") }

func TestStorageFailuresKeepInMemoryCart(t *testing.T) {
	svc := NewService(brokenStore{}, keys, nil, nil)
	ctx := context.Background()

	svc.Load(ctx)
	svc.AddToCart(ctx, pepper, 2)
	svc.UpdateQuantity(ctx, pepper.ID, 4)

	item, ok := svc.Item(pepper.ID)
	require.True(t, ok)
	assert.Equal(t, 4, item.Quantity)
}

func ids(items []domain.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ProductID)
	}
	return out
}

func sortItems(items []domain.Item) {
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })
}

// ctxStore fails writes whose context is already done, like the network backends do
type ctxStore struct{ storage.Store }

func (c ctxStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.Store.Set(ctx, key, value)
}

func TestMutationsPersistAfterCallerCancels(t *testing.T) {
	mem := repository.NewMemoryStore()
	svc := NewService(ctxStore{mem}, keys, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc.AddToCart(ctx, pepper, 2)
	items := storedItems(t, mem)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)

	svc.UpdateQuantity(ctx, pepper.ID, 5)
	assert.Equal(t, 5, storedItems(t, mem)[0].Quantity)

	svc.ClearCart(ctx)
	assert.Empty(t, storedItems(t, mem))
}
