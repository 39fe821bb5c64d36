package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"answer-pipeline/internal/record"
)

func testCache(t *testing.T) (*NormalizationCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewWithClient(client, time.Hour), mr
}

func testSnapshot() *Snapshot {
	return &Snapshot{
		Normalized: record.NormalizedQuestion{
			CleanedQuestion: "Why does my sourdough turn out dense",
			CanonicalQuery:  "sourdough turn out dense",
			PrimaryIntent:   "sourdough_turn_out",
			SubIntents:      []string{},
		},
		Classification: record.Classification{
			Flags:         []record.Flag{},
			YMYLCategory:  record.YMYLNone,
			YMYLRiskLevel: record.RiskNone,
		},
	}
}

func TestCache_MissReturnsNil(t *testing.T) {
	c, _ := testCache(t)

	snap, err := c.Get(context.Background(), "never stored")

	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestCache_RoundTrip(t *testing.T) {
	c, _ := testCache(t)
	raw := "Why does my sourdough turn out dense?"

	require.NoError(t, c.Put(context.Background(), raw, testSnapshot()))

	snap, err := c.Get(context.Background(), raw)

	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, "sourdough turn out dense", snap.Normalized.CanonicalQuery)
	assert.Equal(t, record.YMYLNone, snap.Classification.YMYLCategory)
}

func TestCache_KeyIsContentHash(t *testing.T) {
	a := Key("question one")
	b := Key("question two")

	assert.NotEqual(t, a, b)
	assert.Equal(t, a, Key("question one"))
	assert.Contains(t, a, "norm:")
}

func TestCache_FirstWriterWins(t *testing.T) {
	c, _ := testCache(t)
	raw := "Why does my sourdough turn out dense?"

	first := testSnapshot()
	require.NoError(t, c.Put(context.Background(), raw, first))

	second := testSnapshot()
	second.Normalized.CanonicalQuery = "a different query"
	require.NoError(t, c.Put(context.Background(), raw, second))

	snap, err := c.Get(context.Background(), raw)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, first.Normalized.CanonicalQuery, snap.Normalized.CanonicalQuery)
}

func TestCache_EntryExpires(t *testing.T) {
	c, mr := testCache(t)
	raw := "Why does my sourdough turn out dense?"

	require.NoError(t, c.Put(context.Background(), raw, testSnapshot()))
	mr.FastForward(2 * time.Hour)

	snap, err := c.Get(context.Background(), raw)

	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestCache_CorruptEntryIsAMiss(t *testing.T) {
	c, mr := testCache(t)
	raw := "Why does my sourdough turn out dense?"

	require.NoError(t, mr.Set(Key(raw), "{not json"))

	snap, err := c.Get(context.Background(), raw)

	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestCache_GetErrorWhenUnavailable(t *testing.T) {
	c, mr := testCache(t)
	mr.Close()

	_, err := c.Get(context.Background(), "anything")

	assert.Error(t, err)
}
