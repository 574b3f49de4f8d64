package prefs

import (
	"context"
	"testing"
	"time"

	redisClient "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/matthewtrundle/partyondelivery-checkout/domain"
)

func setupRedis(t *testing.T) *redisClient.Client {
	if testing.Short() {
		t.Skip("skipping redis integration test in short mode")
	}

	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate redis container: %v", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	opts, err := redisClient.ParseURL(uri)
	require.NoError(t, err)

	return redisClient.NewClient(opts)
}

func TestRedisStore_RoundTrip(t *testing.T) {
	client := setupRedis(t)
	store := NewRedisStore(client, "prefs", 0)
	ctx := context.Background()

	customer := domain.CustomerInfo{
		FirstName: "Dana",
		LastName:  "Whitfield",
		Email:     "dana@example.com",
		Phone:     "5125550188",
	}
	store.Set(ctx, "cust-9", KeyCustomer, customer)

	var got domain.CustomerInfo
	require.NoError(t, store.Get(ctx, "cust-9", KeyCustomer, &got))
	assert.Equal(t, customer, got)
}

func TestRedisStore_SessionTierExpires(t *testing.T) {
	client := setupRedis(t)
	store := NewRedisStore(client, "session", 1*time.Second)
	ctx := context.Background()

	store.Set(ctx, "cust-9", KeyMarkupPercent, 10.0)

	var pct float64
	require.NoError(t, store.Get(ctx, "cust-9", KeyMarkupPercent, &pct))

	time.Sleep(1500 * time.Millisecond)

	err := store.Get(ctx, "cust-9", KeyMarkupPercent, &pct)
	assert.ErrorIs(t, err, ErrNotFound)
}
