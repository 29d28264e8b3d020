package app

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/repository"
)

type fakeAnalyticsSource struct {
	activityCalls int
	summaryCalls  int
}

func (f *fakeAnalyticsSource) AssistantActivity(uint) ([]repository.AssistantActivityRow, error) {
	f.activityCalls++
	return []repository.AssistantActivityRow{{AsstID: "asst_1", Name: "Bot", MessageCount: 5}}, nil
}

func (f *fakeAnalyticsSource) MessageVolumeByMonth(uint) ([]repository.BucketCountRow, error) {
	return []repository.BucketCountRow{{Bucket: "2026-08", Count: 12}}, nil
}

func (f *fakeAnalyticsSource) AverageResponseTime(uint) (float64, error) { return 2.5, nil }

func (f *fakeAnalyticsSource) ThreadActivityByWeek(uint) ([]repository.BucketCountRow, error) {
	return nil, nil
}

func (f *fakeAnalyticsSource) MostActiveThreads(_ uint, limit int) ([]repository.ThreadCountRow, error) {
	rows := make([]repository.ThreadCountRow, 0, limit)
	for i := 0; i < limit; i++ {
		rows = append(rows, repository.ThreadCountRow{Title: "t", MessageCount: int64(limit - i)})
	}
	return rows, nil
}

func (f *fakeAnalyticsSource) Summary(uint) (*repository.SummaryRow, error) {
	f.summaryCalls++
	return &repository.SummaryRow{Assistants: 2, Threads: 3, Messages: 40, Files: 1}, nil
}

func (f *fakeAnalyticsSource) MessagesDaily(_ uint, days int) ([]repository.BucketCountRow, error) {
	return []repository.BucketCountRow{{Bucket: "2026-08-30", Count: int64(days)}}, nil
}

func (f *fakeAnalyticsSource) MessagesHourly(uint) ([]repository.BucketCountRow, error) {
	return nil, nil
}

func (f *fakeAnalyticsSource) GroupUsage() ([]repository.GroupUsageRow, error) {
	return []repository.GroupUsageRow{{ClientGroup: "acme", MessageCount: 99}}, nil
}

// memoryCache is a map-backed ResultCache.
type memoryCache struct {
	data map[string][]byte
	hits int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func TestAnalyticsCacheAside(t *testing.T) {
	source := &fakeAnalyticsSource{}
	cache := newMemoryCache()
	svc := NewAnalyticsService(source, cache)
	ctx := context.Background()

	first, err := svc.AssistantActivity(ctx, 7)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, source.activityCalls)

	second, err := svc.AssistantActivity(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, source.activityCalls)
	assert.Equal(t, 1, cache.hits)

	// a different client gets its own cache entry
	_, err = svc.AssistantActivity(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, 2, source.activityCalls)
}

func TestAnalyticsNilCache(t *testing.T) {
	source := &fakeAnalyticsSource{}
	svc := NewAnalyticsService(source, nil)
	ctx := context.Background()

	_, err := svc.Summary(ctx, 7)
	require.NoError(t, err)
	_, err = svc.Summary(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, source.summaryCalls)
}

func TestAnalyticsPassthroughQueries(t *testing.T) {
	svc := NewAnalyticsService(&fakeAnalyticsSource{}, nil)
	ctx := context.Background()

	avg, err := svc.AverageResponseTime(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 2.5, avg)

	threads, err := svc.MostActiveThreads(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, threads, 5)

	usage, err := svc.GroupUsage(ctx)
	require.NoError(t, err)
	require.Len(t, usage, 1)
	assert.Equal(t, "acme", usage[0].ClientGroup)
}
