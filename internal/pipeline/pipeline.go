package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/couchcryptid/quake-map/internal/mapview"
	"github.com/couchcryptid/quake-map/internal/observability"
	"github.com/google/uuid"
)

// FeedFetcher retrieves the raw earthquake feed.
type FeedFetcher interface {
	Fetch(ctx context.Context) (domain.Feed, error)
}

// Publisher realizes a composed map somewhere: a file, an HTTP endpoint, a topic.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, spec mapview.Spec) error
}

// Settings tunes a load.
type Settings struct {
	// Strict makes any malformed feature fail the whole load.
	Strict bool
	// Location is the display zone for popup times. Nil means UTC.
	Location *time.Location
	// Source is recorded on the spec as the feed URL.
	Source string
}

// Result summarizes one completed load.
type Result struct {
	RunID    string
	Events   int
	Rejected int
	Spec     mapview.Spec
}

// Pipeline runs the fetch, render, compose, publish sequence.
type Pipeline struct {
	fetcher    FeedFetcher
	publishers []Publisher
	settings   Settings
	logger     *slog.Logger
	metrics    *observability.Metrics
	ready      atomic.Bool
	newRunID   func() string
}

// New creates a Pipeline with the given stages and observability.
func New(f FeedFetcher, publishers []Publisher, settings Settings, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		fetcher:    f,
		publishers: publishers,
		settings:   settings,
		logger:     logger,
		metrics:    metrics,
		newRunID:   uuid.NewString,
	}
}

// CheckReadiness returns nil once a map has been published, or an error
// describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("map has not been published yet")
	}
	return nil
}

// Run performs a single load. Any fetch or publish failure is returned and
// the map is not marked ready; there is no retry.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	runID := p.newRunID()
	logger := p.logger.With("run_id", runID)
	logger.Info("load started", "strict", p.settings.Strict)

	feed, err := p.fetcher.Fetch(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("fetch feed: %w", err)
	}

	start := time.Now()
	events, rejects := domain.ParseFeed(feed)
	p.metrics.EventsParsed.Add(float64(len(events)))
	p.metrics.EventsRejected.Add(float64(len(rejects)))
	for _, reject := range rejects {
		logger.Warn("feature rejected", "error", reject)
	}
	if p.settings.Strict && len(rejects) > 0 {
		return Result{}, fmt.Errorf("%d of %d features malformed: %w", len(rejects), len(feed.Features), rejects[0])
	}

	markers := domain.RenderMarkers(events, p.settings.Location)
	spec := mapview.Compose(markers,
		mapview.WithTitle(feed.Metadata.Title),
		mapview.WithSource(p.settings.Source),
		mapview.WithRunID(runID),
	)
	p.metrics.MarkersRendered.Set(float64(len(markers)))

	if err := p.publish(ctx, logger, spec); err != nil {
		return Result{}, err
	}

	p.metrics.RenderDuration.Observe(time.Since(start).Seconds())
	p.metrics.MapReady.Set(1)
	p.ready.Store(true)

	logger.Info("load complete", "events", len(events), "rejected", len(rejects), "markers", len(markers))
	return Result{RunID: runID, Events: len(events), Rejected: len(rejects), Spec: spec}, nil
}

// publish hands spec to each publisher in order and stops at the first failure.
func (p *Pipeline) publish(ctx context.Context, logger *slog.Logger, spec mapview.Spec) error {
	for _, pub := range p.publishers {
		if err := pub.Publish(ctx, spec); err != nil {
			logger.Error("publish failed", "sink", pub.Name(), "error", err)
			return fmt.Errorf("publish to %s: %w", pub.Name(), err)
		}
		p.metrics.MarkersPublished.WithLabelValues(pub.Name()).Add(float64(spec.MarkerCount()))
	}
	return nil
}
