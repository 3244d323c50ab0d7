package registry_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// registryContract checks the behaviour every LiveRegistry implementation shares.
// newRegistry must return an empty registry.
func registryContract(t *testing.T, newRegistry func(t *testing.T) ports.LiveRegistry) {
	ctx := context.Background()

	t.Run("PendingQueueIsFIFO", func(t *testing.T) {
		reg := newRegistry(t)
		first, second, third := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()

		for _, id := range []kernel.UUID{first, second, third} {
			require.NoError(t, reg.EnqueuePending(ctx, id))
		}
		// re-enqueue keeps the original position
		require.NoError(t, reg.EnqueuePending(ctx, first))

		pending, err := reg.ListPending(ctx)
		require.NoError(t, err)
		assert.Equal(t, []kernel.UUID{first, second, third}, pending)

		require.NoError(t, reg.DequeuePending(ctx, second))
		require.NoError(t, reg.DequeuePending(ctx, kernel.NewUUID()))

		pending, err = reg.ListPending(ctx)
		require.NoError(t, err)
		assert.Equal(t, []kernel.UUID{first, third}, pending)
	})

	t.Run("AvailableSet", func(t *testing.T) {
		reg := newRegistry(t)
		a, b := kernel.NewUUID(), kernel.NewUUID()

		require.NoError(t, reg.MarkAvailable(ctx, a))
		require.NoError(t, reg.MarkAvailable(ctx, a))
		require.NoError(t, reg.MarkAvailable(ctx, b))
		require.NoError(t, reg.MarkUnavailable(ctx, b))

		available, err := reg.ListAvailable(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []kernel.UUID{a}, available)
	})

	t.Run("LocationIsLastWriteWinsByTimestamp", func(t *testing.T) {
		reg := newRegistry(t)
		id := kernel.NewUUID()
		now := time.Now().UTC().Truncate(time.Millisecond)

		_, ok, err := reg.GetLocation(ctx, id)
		require.NoError(t, err)
		assert.False(t, ok)

		newer, _ := kernel.NewGeoPoint(41.3, 69.2)
		older, _ := kernel.NewGeoPoint(10, 10)

		require.NoError(t, reg.SetLocation(ctx, id, newer, now))
		require.NoError(t, reg.SetLocation(ctx, id, older, now.Add(-time.Minute)))

		pos, ok, err := reg.GetLocation(ctx, id)
		require.NoError(t, err)
		require.True(t, ok)
		assert.InDelta(t, 41.3, pos.Point.Lat(), 1e-9)
		assert.InDelta(t, 69.2, pos.Point.Lng(), 1e-9)
		assert.True(t, now.Equal(pos.At))

		moved, _ := kernel.NewGeoPoint(41.31, 69.21)
		require.NoError(t, reg.SetLocation(ctx, id, moved, now.Add(time.Second)))

		pos, _, err = reg.GetLocation(ctx, id)
		require.NoError(t, err)
		assert.InDelta(t, 41.31, pos.Point.Lat(), 1e-9)
	})
}
