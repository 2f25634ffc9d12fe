package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartService "cameroonmark/internal/application/cart"
	"cameroonmark/internal/application/catalog"
	"cameroonmark/internal/domain/product"
	"cameroonmark/internal/domain/storage"
	"cameroonmark/internal/infrastructure/repository"
)

func newCartHandlerTest(stock int) (*CartHandler, cartService.Service) {
	carts := cartService.NewService(repository.NewMemoryStore(), storage.NewKeys(""), nil, nil)
	products := catalog.NewService(repository.NewCatalogRepository([]product.Product{
		{ID: "p1", Title: "Penja pepper", Price: 3500, Stock: stock},
	}))
	return NewCartHandler(carts, products, 2000), carts
}

func TestAddItem_ConcurrentRequestsRespectStock(t *testing.T) {
	h, carts := newCartHandlerTest(3)

	const requests = 20
	codes := make(chan int, requests)
	var wg sync.WaitGroup
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(`{"productId":"p1","quantity":1}`))
			rec := httptest.NewRecorder()
			h.AddItem(rec, req)
			codes <- rec.Code
		}()
	}
	wg.Wait()
	close(codes)

	accepted := 0
	for code := range codes {
		if code == http.StatusOK {
			accepted++
		} else {
			assert.Equal(t, http.StatusConflict, code)
		}
	}
	assert.Equal(t, 3, accepted)

	item, ok := carts.Item("p1")
	require.True(t, ok)
	assert.Equal(t, 3, item.Quantity)
}

func TestUpdateItem_ConcurrentWithAddsRespectStock(t *testing.T) {
	h, carts := newCartHandlerTest(5)

	req := httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(`{"productId":"p1","quantity":1}`))
	h.AddItem(httptest.NewRecorder(), req)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPut, "/api/cart/items/p1", strings.NewReader(`{"quantity":4}`))
			req.SetPathValue("id", "p1")
			h.Item(httptest.NewRecorder(), req)
		}()
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(`{"productId":"p1","quantity":1}`))
			h.AddItem(httptest.NewRecorder(), req)
		}()
	}
	wg.Wait()

	item, ok := carts.Item("p1")
	require.True(t, ok)
	assert.LessOrEqual(t, item.Quantity, 5)
}
