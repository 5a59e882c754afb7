//go:build integration

package maps

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testutil "github.com/mycobrun/geoengine/testing"
)

func TestRedisCache_Integration(t *testing.T) {
	client := testutil.RedisClient(t)
	ctx := testutil.TestContext(t)

	cache := NewRedisCache(client, "")
	require.NoError(t, cache.Ping(ctx))

	got, err := cache.Get(ctx, "place:missing:en")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, cache.Set(ctx, "place:p1:en", []byte(`{"name":"Cafe"}`), time.Minute))
	got, err = cache.Get(ctx, "place:p1:en")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Cafe"}`, string(got))

	ttl, err := client.TTL(ctx, "geo:maps:place:p1:en").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestClient_RedisBackedDetails_Integration(t *testing.T) {
	client := testutil.RedisClient(t)
	fp := testutil.NewFakeProvider(t)
	fp.Reply(testutil.PlaceDetailsPath, testutil.StatusBody("OK", "result",
		testutil.DetailsResult("p9", "Museum", 13.75, 100.49, 2, "museum")))

	maps := newTestClient(t, fp, WithCache(NewRedisCache(client, "it:")))
	ctx := testutil.TestContext(t)

	for i := 0; i < 3; i++ {
		details, err := maps.PlaceDetails(ctx, "p9", "en")
		require.NoError(t, err)
		assert.Equal(t, "Museum", details.Name)
		assert.Len(t, details.Photos, 2)
	}
	assert.Equal(t, 1, fp.Calls(testutil.PlaceDetailsPath))
}
