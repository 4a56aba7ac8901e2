package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestCacheRoundTrip(t *testing.T) {
	cache, mr := newTestCacheForTest(t)
	cache.ttl = time.Minute
	ctx := context.Background()

	assert.Nil(t, cache.Get(ctx, 1))

	view := &TestView{ID: 1, Skill: "Reading", Title: "Cached", Questions: []QuestionView{
		{ID: 3, QuestionNumber: 1, Answers: []AnswerView{{ID: 9, AnswerOption: "A"}}},
	}}
	require.NoError(t, cache.Set(ctx, view))
	assert.Equal(t, time.Minute, mr.TTL(testCacheKey(1)))

	got := cache.Get(ctx, 1)
	require.NotNil(t, got)
	assert.Equal(t, "Cached", got.Title)
	require.Len(t, got.Questions, 1)
	assert.Equal(t, uint(9), got.Questions[0].Answers[0].ID)

	mr.FastForward(2 * time.Minute)
	assert.Nil(t, cache.Get(ctx, 1))
}

func TestTestCacheIgnoresCorruptEntries(t *testing.T) {
	cache, mr := newTestCacheForTest(t)
	require.NoError(t, mr.Set(testCacheKey(4), "{not json"))

	assert.Nil(t, cache.Get(context.Background(), 4))
}

func TestTestCacheUnavailableRedis(t *testing.T) {
	cache, mr := newTestCacheForTest(t)
	mr.Close()

	assert.Nil(t, cache.Get(context.Background(), 1))
	assert.Error(t, cache.Set(context.Background(), &TestView{ID: 1}))
}

func TestNilTestCache(t *testing.T) {
	var cache *TestCache
	ctx := context.Background()

	assert.Nil(t, NewTestCache(nil, time.Minute))
	assert.Nil(t, cache.Get(ctx, 1))
	assert.NoError(t, cache.Set(ctx, &TestView{ID: 1}))
	assert.NoError(t, cache.Delete(ctx, 1))
}
