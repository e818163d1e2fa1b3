package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/weatherops/cwa-forecast-export/internal/cwa"
	"github.com/weatherops/cwa-forecast-export/internal/forecast"
)

var (
	// ErrEmptyResult means normalization produced zero usable region
	// records, which is terminal for a run.
	ErrEmptyResult = errors.New("no region records after normalization")
)

// objectKeyFormat names one output object per run; timestamp uniqueness is
// what keeps reruns from colliding.
const objectKeyFormat = "20060102_150405"

// Fetcher retrieves the raw provider response.
type Fetcher interface {
	Fetch(ctx context.Context) (*cwa.Response, error)
}

// Normalizer flattens the raw response into region records.
type Normalizer interface {
	Normalize(resp *cwa.Response) ([]forecast.RegionForecast, error)
}

// Writer persists a record collection as a named object.
type Writer interface {
	Write(ctx context.Context, key string, records []forecast.RegionForecast) error
}

// Report describes the outcome of a single export run.
type Report struct {
	StartedAt   time.Time `json:"startedAt"`
	FinishedAt  time.Time `json:"finishedAt"`
	ObjectKey   string    `json:"objectKey,omitempty"`
	RecordCount int       `json:"recordCount"`
	Succeeded   bool      `json:"succeeded"`
	Error       string    `json:"error,omitempty"`
}

// Pipeline wires the fetch, normalize, and write stages of one export run.
type Pipeline struct {
	fetcher    Fetcher
	normalizer Normalizer
	writer     Writer
	now        func() time.Time
}

// New creates a Pipeline.
func New(f Fetcher, n Normalizer, w Writer) *Pipeline {
	return &Pipeline{
		fetcher:    f,
		normalizer: n,
		writer:     w,
		now:        time.Now,
	}
}

// Run executes one fetch → normalize → write cycle. Any stage failure is
// terminal for the run; there is no partial output and no retry at any
// level.
func (p *Pipeline) Run(ctx context.Context) (Report, error) {
	report := Report{StartedAt: p.now()}

	log.Printf("INFO: starting weather data collection run")

	raw, err := p.fetcher.Fetch(ctx)
	if err != nil {
		return p.fail(report, fmt.Errorf("fetching forecast: %w", err))
	}

	records, err := p.normalizer.Normalize(raw)
	if err != nil {
		return p.fail(report, fmt.Errorf("normalizing forecast: %w", err))
	}
	if len(records) == 0 {
		return p.fail(report, ErrEmptyResult)
	}
	report.RecordCount = len(records)

	// The object key timestamp is captured once here, distinct from the
	// per-record retrieved_at stamps.
	key := fmt.Sprintf("weather_forecast_%s.csv", p.now().Format(objectKeyFormat))
	report.ObjectKey = key

	log.Printf("INFO: uploading %d records as %s", len(records), key)

	if err := p.writer.Write(ctx, key, records); err != nil {
		return p.fail(report, fmt.Errorf("writing forecast object: %w", err))
	}

	report.FinishedAt = p.now()
	report.Succeeded = true
	log.Printf("INFO: weather data collection completed successfully")
	return report, nil
}

func (p *Pipeline) fail(report Report, err error) (Report, error) {
	report.FinishedAt = p.now()
	report.Error = err.Error()
	log.Printf("ERROR: export run failed: %v", err)
	return report, err
}
