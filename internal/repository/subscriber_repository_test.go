package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriberStores(t *testing.T) {
	mr, client := newRedis(t)

	stores := map[string]SubscriberStore{
		"memory": NewMemorySubscriberStore(),
		"redis":  NewRedisSubscriberStore(client),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			added, err := store.Add(ctx, "Reader@Example.com ")
			require.NoError(t, err)
			assert.True(t, added)

			added, err = store.Add(ctx, "reader@example.com")
			require.NoError(t, err)
			assert.False(t, added)

			added, err = store.Add(ctx, "other@example.com")
			require.NoError(t, err)
			assert.True(t, added)

			count, err := store.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, 2, count)
		})
	}

	members, err := mr.Members(subscribersKey)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"reader@example.com", "other@example.com"}, members)
}

func TestRedisSubscriberStore_Unavailable(t *testing.T) {
	mr, client := newRedis(t)
	store := NewRedisSubscriberStore(client)
	mr.Close()

	_, err := store.Add(context.Background(), "reader@example.com")
	assert.Error(t, err)
}
