package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	SetClient(nil, "")
	ctx := context.Background()

	var dest map[string]string
	hit, err := GetOrderTrack(ctx, "ATN-1", &dest)
	require.NoError(t, err)
	require.False(t, hit)
	require.NoError(t, SetOrderTrack(ctx, "ATN-1", map[string]string{"status": "pending"}, time.Minute))
	require.NoError(t, DelOrderTrack(ctx, "ATN-1"))

	ok, err := MarkLowStockAlerted(ctx, "variant-1", time.Hour)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestOrderTrackKeyNormalizesNumber(t *testing.T) {
	require.Equal(t, "order:track:ATN-ABC-1234", orderTrackKey(" atn-abc-1234 "))
}

func TestBuildKeyUsesPrefix(t *testing.T) {
	SetClient(nil, "shop")
	require.Equal(t, "shop:order:track:X", buildKey("order:track:X"))
	require.Equal(t, "shop", buildKey(" "))
}
