package localstore

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domasjohn/BlazzorEcommerce/internal/domain"
)

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client, "device-1"), mr
}

func TestCart_AbsentIsEmptyDefault(t *testing.T) {
	store, _ := setupTestRedis(t)

	cart, err := store.Cart(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cart)
}

func TestCart_RoundTrip(t *testing.T) {
	store, _ := setupTestRedis(t)
	ctx := context.Background()

	lines := []domain.CartLine{
		{ProductID: 7, VariantID: 1, Quantity: 2},
		{ProductID: 8, VariantID: 2, Quantity: 1},
	}
	require.NoError(t, store.SetCart(ctx, lines))

	got, err := store.Cart(ctx)
	require.NoError(t, err)
	assert.Equal(t, lines, got)
}

func TestCart_ReadsExistingDeviceSlot(t *testing.T) {
	store, mr := setupTestRedis(t)

	lines := []domain.CartLine{{ProductID: 7, VariantID: 1, Quantity: 3}}
	data, _ := json.Marshal(lines)
	mr.Set("device:device-1:cart", string(data))

	got, err := store.Cart(context.Background())
	require.NoError(t, err)
	assert.Equal(t, lines, got)
}

func TestRemoveCart_ClearsSlot(t *testing.T) {
	store, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.SetCart(ctx, []domain.CartLine{{ProductID: 7, VariantID: 1, Quantity: 2}}))
	require.NoError(t, store.RemoveCart(ctx))

	cart, err := store.Cart(ctx)
	require.NoError(t, err)
	assert.Empty(t, cart)
}

func TestItemCount_AbsentIsZero(t *testing.T) {
	store, _ := setupTestRedis(t)

	count, err := store.ItemCount(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestItemCount_RoundTrip(t *testing.T) {
	store, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.SetItemCount(ctx, 4))

	count, err := store.ItemCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestStores_AreDeviceScoped(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	ctx := context.Background()
	deviceA := NewRedisStore(client, "device-a")
	deviceB := NewRedisStore(client, "device-b")

	require.NoError(t, deviceA.SetCart(ctx, []domain.CartLine{{ProductID: 7, VariantID: 1, Quantity: 2}}))

	cartB, err := deviceB.Cart(ctx)
	require.NoError(t, err)
	assert.Empty(t, cartB, "one device must never see another device's cart")
}
