package api

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avanimitra/organic-fruits-backend/db"
	"github.com/avanimitra/organic-fruits-backend/models"
)

type stockCall struct {
	ProductID string
	Quantity  int
}

// fakeStockStore records calls and fails DecrementStock for one product
type fakeStockStore struct {
	failOn     string
	failWith   error
	decrements []stockCall
	increments []stockCall
}

func (s *fakeStockStore) DecrementStock(_ context.Context, productID string, quantity int) error {
	if productID == s.failOn {
		return s.failWith
	}
	s.decrements = append(s.decrements, stockCall{productID, quantity})
	return nil
}

func (s *fakeStockStore) IncrementStock(_ context.Context, productID string, quantity int) error {
	s.increments = append(s.increments, stockCall{productID, quantity})
	return nil
}

// netStock sums decrements against increments per product
func (s *fakeStockStore) netStock() map[string]int {
	net := map[string]int{}
	for _, call := range s.decrements {
		net[call.ProductID] -= call.Quantity
	}
	for _, call := range s.increments {
		net[call.ProductID] += call.Quantity
	}
	return net
}

func TestReserveStockAllItems(t *testing.T) {
	store := &fakeStockStore{}
	var logger strings.Builder

	items := []models.OrderItem{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 1},
	}
	failedID, err := reserveStock(context.Background(), store, items, &logger)

	require.NoError(t, err)
	assert.Empty(t, failedID)
	assert.Equal(t, []stockCall{{"p1", 2}, {"p2", 1}}, store.decrements)
	assert.Empty(t, store.increments)
}

func TestReserveStockCompensatesOnFailure(t *testing.T) {
	store := &fakeStockStore{failOn: "p3", failWith: db.ErrInsufficientStock}
	var logger strings.Builder

	items := []models.OrderItem{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 4},
		{ProductID: "p3", Quantity: 1},
	}
	failedID, err := reserveStock(context.Background(), store, items, &logger)

	assert.ErrorIs(t, err, db.ErrInsufficientStock)
	assert.Equal(t, "p3", failedID)

	// Every decrement applied before the failure is returned
	assert.Equal(t, []stockCall{{"p1", 2}, {"p2", 4}}, store.increments)
	for productID, net := range store.netStock() {
		assert.Zero(t, net, productID)
	}
}

func TestReserveStockFirstItemFails(t *testing.T) {
	store := &fakeStockStore{failOn: "p1", failWith: db.ErrInsufficientStock}
	var logger strings.Builder

	failedID, err := reserveStock(context.Background(), store,
		[]models.OrderItem{{ProductID: "p1", Quantity: 1}}, &logger)

	assert.ErrorIs(t, err, db.ErrInsufficientStock)
	assert.Equal(t, "p1", failedID)
	assert.Empty(t, store.decrements)
	assert.Empty(t, store.increments)
}

func TestReleaseStock(t *testing.T) {
	store := &fakeStockStore{}
	var logger strings.Builder

	items := []models.OrderItem{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 1},
	}
	releaseStock(context.Background(), store, items, &logger)

	assert.Equal(t, []stockCall{{"p1", 2}, {"p2", 1}}, store.increments)
}
