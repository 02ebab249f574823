package source

import (
	"context"
	"log/slog"
	"time"
)

// MetricsRecorder receives one observation per source attempt.
type MetricsRecorder interface {
	RecordAttempt(src Name, outcome Outcome)
}

// Orchestrator resolves one input by trying sources in fixed priority
// order until one succeeds. Sources are attempted sequentially: an early
// success must avoid the cost of later sources, and speculative concurrent
// calls would waste rate-limited upstream quota.
type Orchestrator struct {
	registry *Registry
	logger   *slog.Logger
	metrics  MetricsRecorder
	maxItems int
}

// NewOrchestrator creates an Orchestrator returning at most maxItems items
// per resolution.
func NewOrchestrator(registry *Registry, maxItems int, logger *slog.Logger) *Orchestrator {
	if maxItems < 1 {
		maxItems = DefaultMaxItems
	}
	return &Orchestrator{
		registry: registry,
		logger:   logger.With(slog.String("component", "orchestrator")),
		maxItems: maxItems,
	}
}

// SetMetrics wires an optional attempt-outcome recorder.
func (o *Orchestrator) SetMetrics(m MetricsRecorder) {
	o.metrics = m
}

// Resolve classifies input and walks the fallback chain. It returns the
// first source result with at least one item, the full attempt log, and a
// typed error when no source produced one. A zero-item result from a
// source advances the chain: "nothing found" is indistinguishable from
// "couldn't parse" upstream, so it is never accepted as an empty playlist.
func (o *Orchestrator) Resolve(ctx context.Context, input string) (*Playlist, AttemptLog, error) {
	var attempts AttemptLog

	kind, key := Classify(input)
	switch kind {
	case KindInvalid:
		return nil, attempts, ErrInvalidInput
	case KindUnsupported:
		return nil, attempts, &ErrUnsupportedInput{
			Input:  input,
			Reason: "auto-generated mix/radio playlists cannot be resolved",
		}
	case KindFeed:
		return nil, attempts, &ErrUnsupportedInput{
			Input:  input,
			Reason: "feed identifiers are served by the feed endpoint",
		}
	}

	o.logger.Debug("resolving input",
		slog.String("kind", kind.String()),
		slog.String("key", key))

	if kind == KindArtist {
		for _, src := range o.registry.Artists() {
			pl, ok := o.attempt(ctx, &attempts, src.Name(), func(ctx context.Context) (*Result, error) {
				return src.FetchArtist(ctx, key)
			})
			if ok {
				return pl, attempts, nil
			}
		}
	} else {
		for _, src := range o.registry.Playlists() {
			pl, ok := o.attempt(ctx, &attempts, src.Name(), func(ctx context.Context) (*Result, error) {
				return src.FetchPlaylist(ctx, key)
			})
			if ok {
				return pl, attempts, nil
			}
		}
	}

	o.logger.Warn("all sources exhausted",
		slog.String("input", input),
		slog.String("attempts", attempts.String()))

	return nil, attempts, &ErrExhausted{Input: input, Attempts: attempts}
}

// ResolveFeed walks the feed-capable sources for a feed identifier. Zero
// sections counts as that source's failure, same as zero items.
func (o *Orchestrator) ResolveFeed(ctx context.Context, feedID string) ([]Section, AttemptLog, error) {
	var attempts AttemptLog

	if feedID == "" {
		return nil, attempts, ErrInvalidInput
	}

	for _, src := range o.registry.Feeds() {
		start := time.Now()
		sections, err := src.FetchFeed(ctx, feedID)
		if err == nil && len(sections) == 0 {
			err = &ErrMalformed{Source: src.Name()}
		}
		attempts.Record(src.Name(), err, time.Since(start))
		o.observe(src.Name(), err)

		if err != nil {
			o.logger.Warn("feed source failed",
				slog.String("source", string(src.Name())),
				slog.String("error", err.Error()))
			continue
		}
		return sections, attempts, nil
	}

	o.logger.Warn("all feed sources exhausted",
		slog.String("feed", feedID),
		slog.String("attempts", attempts.String()))

	return nil, attempts, &ErrExhausted{Input: feedID, Attempts: attempts}
}

// attempt runs one source fetch, records the attempt, and returns the
// enveloped playlist on success.
func (o *Orchestrator) attempt(ctx context.Context, attempts *AttemptLog, name Name, fetch func(context.Context) (*Result, error)) (*Playlist, bool) {
	start := time.Now()
	res, err := fetch(ctx)
	if err == nil && (res == nil || len(res.Items) == 0) {
		err = &ErrMalformed{Source: name}
	}
	attempts.Record(name, err, time.Since(start))
	o.observe(name, err)

	if err != nil {
		o.logger.Warn("source failed, advancing",
			slog.String("source", string(name)),
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)))
		return nil, false
	}

	pl := BuildPlaylist(res, o.maxItems, name)
	o.logger.Info("resolved",
		slog.String("source", string(name)),
		slog.Int("items", pl.ReturnedCount),
		slog.Bool("truncated", pl.Truncated))
	return pl, true
}

func (o *Orchestrator) observe(src Name, err error) {
	if o.metrics != nil {
		o.metrics.RecordAttempt(src, classifyOutcome(err))
	}
}
