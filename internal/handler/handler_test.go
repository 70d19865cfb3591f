package handler

import (
	"context"
	"errors"
	"testing"

	catalogerrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/product"
	"github.com/abgdnv/catalog/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockStore is a testify mock of repository.Repository[product.Product].
type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetByID(ctx context.Context, id int64) (product.Product, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(product.Product), args.Bool(1), args.Error(2)
}

func (m *mockStore) GetAll(ctx context.Context) ([]product.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]product.Product), args.Error(1)
}

func (m *mockStore) Create(ctx context.Context, p *product.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockStore) Update(ctx context.Context, p product.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockStore) Delete(ctx context.Context, p product.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

var (
	kalem  = product.Product{ID: 1, Name: "Kalem", Price: 500, Stock: 54, Color: "Mavi"}
	defter = product.Product{ID: 2, Name: "Defter", Price: 450, Stock: 22, Color: "Turuncu"}
)

// seededStore returns an in-memory store holding the two fixture products.
func seededStore(t *testing.T) *repository.Memory[product.Product] {
	t.Helper()
	store := repository.NewMemory(product.Identity)
	for _, p := range []product.Product{kalem, defter} {
		require.NoError(t, store.Create(context.Background(), &p))
	}
	return store
}

var errStoreDown = catalogerrors.NewStoreError("get", 0, errors.New("connection refused"))

func TestAPI_ReadOne(t *testing.T) {
	testCases := []struct {
		name         string
		id           int64
		setup        func(m *mockStore)
		expectedKind Kind
		expectedErr  error
	}{
		{
			name: "found",
			id:   1,
			setup: func(m *mockStore) {
				m.On("GetByID", mock.Anything, int64(1)).Return(kalem, true, nil).Once()
			},
			expectedKind: KindFound,
		},
		{
			name: "not found",
			id:   0,
			setup: func(m *mockStore) {
				m.On("GetByID", mock.Anything, int64(0)).Return(product.Product{}, false, nil).Once()
			},
			expectedKind: KindNotFound,
		},
		{
			name: "store failure",
			id:   1,
			setup: func(m *mockStore) {
				m.On("GetByID", mock.Anything, int64(1)).Return(product.Product{}, false, errStoreDown).Once()
			},
			expectedErr: errStoreDown,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			store := new(mockStore)
			tc.setup(store)
			api := NewAPI[product.Product](store, product.Identity)

			// when
			outcome, err := api.ReadOne(context.Background(), tc.id)

			// then
			store.AssertExpectations(t)
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedKind, outcome.Kind)
			if tc.expectedKind == KindFound {
				assert.Equal(t, "Kalem", outcome.Entity.Name)
			}
		})
	}
}

func TestAPI_ReadAll(t *testing.T) {
	t.Run("returns both products", func(t *testing.T) {
		// given
		api := NewAPI[product.Product](seededStore(t), product.Identity)

		// when
		first, err := api.ReadAll(context.Background())
		require.NoError(t, err)
		second, err := api.ReadAll(context.Background())
		require.NoError(t, err)

		// then
		assert.Equal(t, KindFound, first.Kind)
		assert.Len(t, first.Entities, 2)
		assert.ElementsMatch(t, []product.Product{kalem, defter}, first.Entities)
		assert.Equal(t, first.Entities, second.Entities)
	})

	t.Run("empty store is found", func(t *testing.T) {
		// given
		api := NewAPI[product.Product](repository.NewMemory(product.Identity), product.Identity)

		// when
		outcome, err := api.ReadAll(context.Background())

		// then
		require.NoError(t, err)
		assert.Equal(t, KindFound, outcome.Kind)
		assert.Empty(t, outcome.Entities)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		// given
		store := new(mockStore)
		store.On("GetAll", mock.Anything).Return([]product.Product(nil), errStoreDown).Once()
		api := NewAPI[product.Product](store, product.Identity)

		// when
		_, err := api.ReadAll(context.Background())

		// then
		assert.ErrorIs(t, err, errStoreDown)
		store.AssertExpectations(t)
	})
}

func TestAPI_Create(t *testing.T) {
	t.Run("invalid input never reaches the store", func(t *testing.T) {
		// given
		store := new(mockStore)
		api := NewAPI[product.Product](store, product.Identity)
		payload := product.Product{Price: 10, Stock: 1, Color: "Kırmızı"}

		// when
		outcome, err := api.Create(context.Background(), payload, false)

		// then
		require.NoError(t, err)
		assert.Equal(t, KindInvalidInput, outcome.Kind)
		assert.Equal(t, payload, outcome.Entity)
		store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("valid input is created with location", func(t *testing.T) {
		// given
		store := new(mockStore)
		store.On("Create", mock.Anything, mock.AnythingOfType("*product.Product")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*product.Product).ID = 3
			}).
			Return(nil).Once()
		api := NewAPI[product.Product](store, product.Identity)

		// when
		outcome, err := api.Create(context.Background(), product.Product{Name: "Silgi"}, true)

		// then
		require.NoError(t, err)
		assert.Equal(t, KindCreated, outcome.Kind)
		assert.Equal(t, int64(3), outcome.Location)
		assert.Equal(t, "Silgi", outcome.Entity.Name)
		store.AssertExpectations(t)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		// given
		store := new(mockStore)
		store.On("Create", mock.Anything, mock.Anything).Return(errStoreDown).Once()
		api := NewAPI[product.Product](store, product.Identity)

		// when
		_, err := api.Create(context.Background(), product.Product{Name: "Silgi"}, true)

		// then
		var storeErr *catalogerrors.StoreError
		assert.ErrorAs(t, err, &storeErr)
		store.AssertNumberOfCalls(t, "Create", 1)
	})
}

func TestAPI_Update(t *testing.T) {
	testCases := []struct {
		name         string
		targetID     int64
		payload      product.Product
		storeErr     error
		expectCall   bool
		expectedKind Kind
	}{
		{
			name:         "identity mismatch",
			targetID:     2,
			payload:      kalem,
			expectedKind: KindIdentityMismatch,
		},
		{
			name:         "updated",
			targetID:     1,
			payload:      kalem,
			expectCall:   true,
			expectedKind: KindUpdated,
		},
		{
			name:       "missing id reported by store",
			targetID:   9,
			payload:    product.Product{ID: 9, Name: "Yok"},
			storeErr:   catalogerrors.NewStoreError("update", 9, catalogerrors.ErrNotFound),
			expectCall: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			store := new(mockStore)
			if tc.expectCall {
				store.On("Update", mock.Anything, tc.payload).Return(tc.storeErr).Once()
			}
			api := NewAPI[product.Product](store, product.Identity)

			// when
			outcome, err := api.Update(context.Background(), tc.targetID, tc.payload)

			// then
			if tc.expectCall {
				store.AssertExpectations(t)
			} else {
				store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			}
			if tc.storeErr != nil {
				assert.True(t, catalogerrors.IsNotFound(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedKind, outcome.Kind)
		})
	}
}

func TestAPI_Delete(t *testing.T) {
	t.Run("absent id never calls delete", func(t *testing.T) {
		// given
		store := new(mockStore)
		store.On("GetByID", mock.Anything, int64(42)).Return(product.Product{}, false, nil).Once()
		api := NewAPI[product.Product](store, product.Identity)

		// when
		outcome, err := api.Delete(context.Background(), 42)

		// then
		require.NoError(t, err)
		assert.Equal(t, KindNotFound, outcome.Kind)
		store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("existing id is deleted once", func(t *testing.T) {
		// given
		store := new(mockStore)
		store.On("GetByID", mock.Anything, int64(1)).Return(kalem, true, nil).Once()
		store.On("Delete", mock.Anything, kalem).Return(nil).Once()
		api := NewAPI[product.Product](store, product.Identity)

		// when
		outcome, err := api.Delete(context.Background(), 1)

		// then
		require.NoError(t, err)
		assert.Equal(t, KindDeleted, outcome.Kind)
		store.AssertExpectations(t)
	})
}

func TestAPI_Scenario(t *testing.T) {
	ctx := context.Background()
	api := NewAPI[product.Product](seededStore(t), product.Identity)

	outcome, err := api.ReadOne(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, KindNotFound, outcome.Kind)

	outcome, err = api.ReadOne(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, KindFound, outcome.Kind)
	assert.Equal(t, "Kalem", outcome.Entity.Name)

	outcome, err = api.Update(ctx, 2, kalem)
	require.NoError(t, err)
	assert.Equal(t, KindIdentityMismatch, outcome.Kind)

	outcome, err = api.Delete(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, KindDeleted, outcome.Kind)

	outcome, err = api.ReadOne(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, KindNotFound, outcome.Kind)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "IdentityMismatch", KindIdentityMismatch.String())
	assert.Equal(t, "RedirectToIndex", KindRedirectToIndex.String())
	assert.Equal(t, "Unknown", Kind(0).String())
}
