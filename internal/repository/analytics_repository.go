package repository

import (
	"fmt"

	"gorm.io/gorm"
)

// AnalyticsRepository holds the dashboard aggregation queries. Everything
// here is read-only raw SQL over assistants→threads→messages; soft-deleted
// assistants stay in the aggregates because their history remains queryable.
type AnalyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

type AssistantActivityRow struct {
	AsstID       string `json:"asst_id"`
	Name         string `json:"name"`
	MessageCount int64  `json:"message_count"`
}

type BucketCountRow struct {
	Bucket string `json:"bucket"`
	Count  int64  `json:"count"`
}

type ThreadCountRow struct {
	ThreadID     uint   `json:"thread_id"`
	Title        string `json:"title"`
	MessageCount int64  `json:"message_count"`
}

type SummaryRow struct {
	Assistants int64 `json:"assistants"`
	Threads    int64 `json:"threads"`
	Messages   int64 `json:"messages"`
	Files      int64 `json:"files"`
}

type GroupUsageRow struct {
	ClientGroup    string `json:"client_group"`
	AssistantCount int64  `json:"assistant_count"`
	MessageCount   int64  `json:"message_count"`
}

func (r *AnalyticsRepository) AssistantActivity(clientID uint) ([]AssistantActivityRow, error) {
	var rows []AssistantActivityRow
	err := r.db.Raw(`
		SELECT a.asst_id AS asst_id, a.name AS name, COUNT(m.id) AS message_count
		FROM assistants a
		LEFT JOIN threads t ON t.assistant_id = a.id
		LEFT JOIN messages m ON m.thread_id = t.id
		WHERE a.client_id = ?
		GROUP BY a.id, a.asst_id, a.name
		ORDER BY message_count DESC`, clientID).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query assistant activity failed: %w", err)
	}
	return rows, nil
}

func (r *AnalyticsRepository) MessageVolumeByMonth(clientID uint) ([]BucketCountRow, error) {
	var rows []BucketCountRow
	err := r.db.Raw(`
		SELECT DATE_FORMAT(m.created_at, '%Y-%m') AS bucket, COUNT(*) AS count
		FROM messages m
		JOIN threads t ON t.id = m.thread_id
		JOIN assistants a ON a.id = t.assistant_id
		WHERE a.client_id = ?
		GROUP BY bucket
		ORDER BY bucket ASC`, clientID).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query message volume failed: %w", err)
	}
	return rows, nil
}

// AverageResponseTime pairs each user message with the first assistant
// message that follows it in the same thread and averages the gap in
// seconds. Returns 0 when no pair exists.
func (r *AnalyticsRepository) AverageResponseTime(clientID uint) (float64, error) {
	var row struct {
		AvgSeconds float64
	}
	err := r.db.Raw(`
		SELECT COALESCE(AVG(TIMESTAMPDIFF(SECOND, u.created_at, a.created_at)), 0) AS avg_seconds
		FROM messages u
		JOIN messages a ON a.thread_id = u.thread_id
			AND a.role = 'assistant'
			AND a.id = (
				SELECT MIN(a2.id) FROM messages a2
				WHERE a2.thread_id = u.thread_id AND a2.role = 'assistant' AND a2.id > u.id
			)
		JOIN threads t ON t.id = u.thread_id
		JOIN assistants s ON s.id = t.assistant_id
		WHERE u.role = 'user' AND s.client_id = ?`, clientID).Scan(&row).Error
	if err != nil {
		return 0, fmt.Errorf("query average response time failed: %w", err)
	}
	return row.AvgSeconds, nil
}

func (r *AnalyticsRepository) ThreadActivityByWeek(clientID uint) ([]BucketCountRow, error) {
	var rows []BucketCountRow
	err := r.db.Raw(`
		SELECT DATE_FORMAT(t.created_at, '%x-W%v') AS bucket, COUNT(*) AS count
		FROM threads t
		JOIN assistants a ON a.id = t.assistant_id
		WHERE a.client_id = ?
		GROUP BY bucket
		ORDER BY bucket ASC`, clientID).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query thread activity failed: %w", err)
	}
	return rows, nil
}

func (r *AnalyticsRepository) MostActiveThreads(clientID uint, limit int) ([]ThreadCountRow, error) {
	if limit <= 0 {
		limit = 5
	}
	var rows []ThreadCountRow
	err := r.db.Raw(`
		SELECT t.id AS thread_id, t.title AS title, COUNT(m.id) AS message_count
		FROM threads t
		JOIN assistants a ON a.id = t.assistant_id
		LEFT JOIN messages m ON m.thread_id = t.id
		WHERE a.client_id = ?
		GROUP BY t.id, t.title
		ORDER BY message_count DESC
		LIMIT ?`, clientID, limit).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query most active threads failed: %w", err)
	}
	return rows, nil
}

func (r *AnalyticsRepository) Summary(clientID uint) (*SummaryRow, error) {
	var row SummaryRow
	err := r.db.Raw(`
		SELECT
			(SELECT COUNT(*) FROM assistants a WHERE a.client_id = ? AND a.is_deleted = 0) AS assistants,
			(SELECT COUNT(*) FROM threads t JOIN assistants a ON a.id = t.assistant_id WHERE a.client_id = ?) AS threads,
			(SELECT COUNT(*) FROM messages m JOIN threads t ON t.id = m.thread_id JOIN assistants a ON a.id = t.assistant_id WHERE a.client_id = ?) AS messages,
			(SELECT COUNT(*) FROM files f JOIN assistants a ON a.id = f.assistant_id WHERE a.client_id = ?) AS files`,
		clientID, clientID, clientID, clientID).Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("query dashboard summary failed: %w", err)
	}
	return &row, nil
}

func (r *AnalyticsRepository) MessagesDaily(clientID uint, days int) ([]BucketCountRow, error) {
	if days <= 0 {
		days = 30
	}
	var rows []BucketCountRow
	err := r.db.Raw(`
		SELECT DATE_FORMAT(m.created_at, '%Y-%m-%d') AS bucket, COUNT(*) AS count
		FROM messages m
		JOIN threads t ON t.id = m.thread_id
		JOIN assistants a ON a.id = t.assistant_id
		WHERE a.client_id = ? AND m.created_at >= DATE_SUB(CURDATE(), INTERVAL ? DAY)
		GROUP BY bucket
		ORDER BY bucket ASC`, clientID, days).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query daily messages failed: %w", err)
	}
	return rows, nil
}

func (r *AnalyticsRepository) MessagesHourly(clientID uint) ([]BucketCountRow, error) {
	var rows []BucketCountRow
	err := r.db.Raw(`
		SELECT LPAD(HOUR(m.created_at), 2, '0') AS bucket, COUNT(*) AS count
		FROM messages m
		JOIN threads t ON t.id = m.thread_id
		JOIN assistants a ON a.id = t.assistant_id
		WHERE a.client_id = ?
		GROUP BY bucket
		ORDER BY bucket ASC`, clientID).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query hourly messages failed: %w", err)
	}
	return rows, nil
}

func (r *AnalyticsRepository) GroupUsage() ([]GroupUsageRow, error) {
	var rows []GroupUsageRow
	err := r.db.Raw(`
		SELECT c.client_group AS client_group,
			COUNT(DISTINCT a.id) AS assistant_count,
			COUNT(m.id) AS message_count
		FROM clients c
		LEFT JOIN assistants a ON a.client_id = c.id AND a.is_deleted = 0
		LEFT JOIN threads t ON t.assistant_id = a.id
		LEFT JOIN messages m ON m.thread_id = t.id
		WHERE c.client_group <> ''
		GROUP BY c.client_group
		ORDER BY c.client_group ASC`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query group usage failed: %w", err)
	}
	return rows, nil
}
