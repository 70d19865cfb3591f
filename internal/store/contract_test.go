package store

import (
	"context"
	"sync"
	"testing"

	catalogerrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/product"
	"github.com/abgdnv/catalog/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runContractTests checks the repository contract against stores built by newStore.
// Every subtest receives an empty store.
func runContractTests(t *testing.T, newStore func(t *testing.T) repository.Repository[product.Product]) {
	ctx := context.Background()

	t.Run("create assigns ids and get returns them", func(t *testing.T) {
		// given
		store := newStore(t)
		kalem := product.Product{Name: "Kalem", Price: 500, Stock: 54, Color: "Mavi"}
		defter := product.Product{Name: "Defter", Price: 450, Stock: 22, Color: "Turuncu"}

		// when
		require.NoError(t, store.Create(ctx, &kalem))
		require.NoError(t, store.Create(ctx, &defter))

		// then
		assert.NotZero(t, kalem.ID)
		assert.Greater(t, defter.ID, kalem.ID)
		got, ok, err := store.GetByID(ctx, kalem.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, kalem, got)
	})

	t.Run("get missing id is not an error", func(t *testing.T) {
		// given
		store := newStore(t)

		// when
		_, ok, err := store.GetByID(ctx, 404)

		// then
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("explicit id is kept and later ids follow it", func(t *testing.T) {
		// given
		store := newStore(t)
		explicit := product.Product{ID: 7, Name: "Silgi"}
		next := product.Product{Name: "Cetvel"}

		// when
		require.NoError(t, store.Create(ctx, &explicit))
		require.NoError(t, store.Create(ctx, &next))

		// then
		assert.Equal(t, int64(7), explicit.ID)
		assert.Greater(t, next.ID, int64(7))
	})

	t.Run("duplicate id fails", func(t *testing.T) {
		// given
		store := newStore(t)
		first := product.Product{ID: 3, Name: "Kalem"}
		require.NoError(t, store.Create(ctx, &first))

		// when
		err := store.Create(ctx, &product.Product{ID: 3, Name: "Defter"})

		// then
		assert.ErrorIs(t, err, catalogerrors.ErrDuplicateID)
	})

	t.Run("get all in insertion order", func(t *testing.T) {
		// given
		store := newStore(t)
		empty, err := store.GetAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, empty)
		assert.Empty(t, empty)
		names := []string{"Kalem", "Defter", "Silgi"}
		for _, name := range names {
			require.NoError(t, store.Create(ctx, &product.Product{Name: name}))
		}

		// when
		list, err := store.GetAll(ctx)

		// then
		require.NoError(t, err)
		require.Len(t, list, 3)
		for i, name := range names {
			assert.Equal(t, name, list[i].Name)
		}
	})

	t.Run("update replaces and missing update fails", func(t *testing.T) {
		// given
		store := newStore(t)
		p := product.Product{Name: "Kalem", Price: 500}
		require.NoError(t, store.Create(ctx, &p))
		p.Name, p.Price, p.Stock, p.Color = "Kurşun Kalem", 550, 10, "Siyah"

		// when
		updateErr := store.Update(ctx, p)
		missingErr := store.Update(ctx, product.Product{ID: p.ID + 100, Name: "Yok"})

		// then
		require.NoError(t, updateErr)
		got, _, err := store.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p, got)
		assert.ErrorIs(t, missingErr, catalogerrors.ErrNotFound)
		var storeErr *catalogerrors.StoreError
		assert.ErrorAs(t, missingErr, &storeErr)
	})

	t.Run("delete removes and missing delete fails", func(t *testing.T) {
		// given
		store := newStore(t)
		p := product.Product{Name: "Kalem"}
		require.NoError(t, store.Create(ctx, &p))

		// when
		deleteErr := store.Delete(ctx, p)
		againErr := store.Delete(ctx, p)

		// then
		require.NoError(t, deleteErr)
		_, ok, err := store.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.ErrorIs(t, againErr, catalogerrors.ErrNotFound)
	})

	t.Run("concurrent creates get unique ids", func(t *testing.T) {
		// given
		store := newStore(t)
		const workers = 20
		ids := make(chan int64, workers)

		// when
		var wg sync.WaitGroup
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				p := product.Product{Name: "Defter"}
				if err := store.Create(ctx, &p); err != nil {
					t.Errorf("create failed: %v", err)
					return
				}
				ids <- p.ID
			}()
		}
		wg.Wait()
		close(ids)

		// then
		seen := make(map[int64]bool)
		for id := range ids {
			assert.False(t, seen[id])
			seen[id] = true
		}
		assert.Len(t, seen, workers)
	})
}

func TestMemoryContract(t *testing.T) {
	runContractTests(t, func(t *testing.T) repository.Repository[product.Product] {
		return repository.NewMemory(product.Identity)
	})
}
