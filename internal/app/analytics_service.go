package app

import (
	"context"
	"fmt"

	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/repository"
)

// AnalyticsSource is the query surface the projector reads from; the
// repository implements it against MySQL.
type AnalyticsSource interface {
	AssistantActivity(clientID uint) ([]repository.AssistantActivityRow, error)
	MessageVolumeByMonth(clientID uint) ([]repository.BucketCountRow, error)
	AverageResponseTime(clientID uint) (float64, error)
	ThreadActivityByWeek(clientID uint) ([]repository.BucketCountRow, error)
	MostActiveThreads(clientID uint, limit int) ([]repository.ThreadCountRow, error)
	Summary(clientID uint) (*repository.SummaryRow, error)
	MessagesDaily(clientID uint, days int) ([]repository.BucketCountRow, error)
	MessagesHourly(clientID uint) ([]repository.BucketCountRow, error)
	GroupUsage() ([]repository.GroupUsageRow, error)
}

// ResultCache is a short-TTL lookaside for serialized query results. A nil
// cache disables caching entirely.
type ResultCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
}

// AnalyticsService is a read-only projection over the transcript tables. No
// mutation happens here; cache errors are swallowed because the SQL path is
// always available.
type AnalyticsService struct {
	source AnalyticsSource
	cache  ResultCache
}

func NewAnalyticsService(source AnalyticsSource, cache ResultCache) *AnalyticsService {
	return &AnalyticsService{source: source, cache: cache}
}

func (s *AnalyticsService) AssistantActivity(ctx context.Context, clientID uint) ([]repository.AssistantActivityRow, error) {
	key := fmt.Sprintf("assistant-activity:%d", clientID)
	var cached []repository.AssistantActivityRow
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}
	rows, err := s.source.AssistantActivity(clientID)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, rows)
	return rows, nil
}

func (s *AnalyticsService) MessageVolume(ctx context.Context, clientID uint) ([]repository.BucketCountRow, error) {
	key := fmt.Sprintf("message-volume:%d", clientID)
	var cached []repository.BucketCountRow
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}
	rows, err := s.source.MessageVolumeByMonth(clientID)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, rows)
	return rows, nil
}

func (s *AnalyticsService) AverageResponseTime(ctx context.Context, clientID uint) (float64, error) {
	key := fmt.Sprintf("avg-response-time:%d", clientID)
	var cached float64
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}
	avg, err := s.source.AverageResponseTime(clientID)
	if err != nil {
		return 0, err
	}
	s.cacheSet(ctx, key, avg)
	return avg, nil
}

func (s *AnalyticsService) ThreadActivity(ctx context.Context, clientID uint) ([]repository.BucketCountRow, error) {
	key := fmt.Sprintf("thread-activity:%d", clientID)
	var cached []repository.BucketCountRow
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}
	rows, err := s.source.ThreadActivityByWeek(clientID)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, rows)
	return rows, nil
}

func (s *AnalyticsService) MostActiveThreads(ctx context.Context, clientID uint) ([]repository.ThreadCountRow, error) {
	key := fmt.Sprintf("most-active-threads:%d", clientID)
	var cached []repository.ThreadCountRow
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}
	rows, err := s.source.MostActiveThreads(clientID, 5)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, rows)
	return rows, nil
}

func (s *AnalyticsService) Summary(ctx context.Context, clientID uint) (*repository.SummaryRow, error) {
	key := fmt.Sprintf("summary:%d", clientID)
	var cached repository.SummaryRow
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}
	row, err := s.source.Summary(clientID)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, row)
	return row, nil
}

func (s *AnalyticsService) MessagesDaily(ctx context.Context, clientID uint) ([]repository.BucketCountRow, error) {
	key := fmt.Sprintf("messages-daily:%d", clientID)
	var cached []repository.BucketCountRow
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}
	rows, err := s.source.MessagesDaily(clientID, 30)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, rows)
	return rows, nil
}

func (s *AnalyticsService) MessagesHourly(ctx context.Context, clientID uint) ([]repository.BucketCountRow, error) {
	key := fmt.Sprintf("messages-hourly:%d", clientID)
	var cached []repository.BucketCountRow
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}
	rows, err := s.source.MessagesHourly(clientID)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, rows)
	return rows, nil
}

func (s *AnalyticsService) GroupUsage(ctx context.Context) ([]repository.GroupUsageRow, error) {
	key := "group-usage"
	var cached []repository.GroupUsageRow
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}
	rows, err := s.source.GroupUsage()
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, rows)
	return rows, nil
}

func (s *AnalyticsService) cacheGet(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.Get(ctx, key, dest)
	return err == nil && hit
}

func (s *AnalyticsService) cacheSet(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Set(ctx, key, value)
}
