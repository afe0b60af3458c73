package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	ArticlesFetched    int64
	FetchFailures      int64
	ImagesFound        int64
	ImagesMissing      int64
	SummariesGenerated int64
	SummaryFailures    int64
	SummaryCacheHits   int64
	ScoresComputed     int64
	ScoreFailures      int64

	// Timings
	LastProcessingTime    time.Duration
	AverageProcessingTime time.Duration
	TotalProcessingTime   time.Duration
	ProcessingCount       int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = New()

func New() *Metrics {
	return &Metrics{IsHealthy: true}
}

func (m *Metrics) AddArticlesFetched(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesFetched += int64(n)
}

func (m *Metrics) IncrementFetchFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchFailures++
}

func (m *Metrics) IncrementImagesFound() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ImagesFound++
}

func (m *Metrics) IncrementImagesMissing() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ImagesMissing++
}

func (m *Metrics) IncrementSummariesGenerated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SummariesGenerated++
}

func (m *Metrics) IncrementSummaryFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SummaryFailures++
}

func (m *Metrics) IncrementSummaryCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SummaryCacheHits++
}

func (m *Metrics) IncrementScoresComputed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ScoresComputed++
}

func (m *Metrics) IncrementScoreFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ScoreFailures++
}

func (m *Metrics) RecordProcessingTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastProcessingTime = duration
	m.TotalProcessingTime += duration
	m.ProcessingCount++

	if m.ProcessingCount > 0 {
		m.AverageProcessingTime = m.TotalProcessingTime / time.Duration(m.ProcessingCount)
	}
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.IsHealthy
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"articles_fetched":           m.ArticlesFetched,
		"fetch_failures":             m.FetchFailures,
		"images_found":               m.ImagesFound,
		"images_missing":             m.ImagesMissing,
		"summaries_generated":        m.SummariesGenerated,
		"summary_failures":           m.SummaryFailures,
		"summary_cache_hits":         m.SummaryCacheHits,
		"scores_computed":            m.ScoresComputed,
		"score_failures":             m.ScoreFailures,
		"last_processing_time_ms":    m.LastProcessingTime.Milliseconds(),
		"average_processing_time_ms": m.AverageProcessingTime.Milliseconds(),
		"last_run_time":              m.LastRunTime.Format(time.RFC3339),
		"last_error_time":            m.LastErrorTime.Format(time.RFC3339),
		"last_error":                 m.LastError,
		"is_healthy":                 m.IsHealthy,
	}
}
