// Package engine runs the aggregation pipeline behind every dashboard view:
// selection normalization, per-model averages, frontiers, label sampling
// and shade ranking.
package engine

import (
	"log/slog"
	"time"

	"github.com/justinphan3110cais/cais-ai-dashboard/internal/cache"
	"github.com/justinphan3110cais/cais-ai-dashboard/internal/categories"
	"github.com/justinphan3110cais/cais-ai-dashboard/internal/frontier"
	"github.com/justinphan3110cais/cais-ai-dashboard/internal/metrics"
	"github.com/justinphan3110cais/cais-ai-dashboard/internal/models"
	"github.com/justinphan3110cais/cais-ai-dashboard/internal/ranking"
	"github.com/justinphan3110cais/cais-ai-dashboard/internal/sampling"
	"github.com/justinphan3110cais/cais-ai-dashboard/internal/scoring"
	"github.com/justinphan3110cais/cais-ai-dashboard/internal/selection"
)

// Request is everything a view depends on besides the catalog.
type Request struct {
	Section   models.Section   `json:"section"`
	Selection models.Selection `json:"selection"`
	Narrow    bool             `json:"narrow"`
	Size      models.ModelSize `json:"size"`
}

// withDefaults returns the request with empty fields filled in.
func (r Request) withDefaults() Request {
	if r.Section == "" {
		r.Section = models.SectionText
	}
	if r.Size == "" {
		r.Size = models.SizeStandard
	}
	return r
}

// TimelinePoint is a dated aggregate with its frontier classification.
type TimelinePoint struct {
	models.FrontierPoint
	Provider   string           `json:"provider"`
	Size       models.ModelSize `json:"size"`
	OnFrontier bool             `json:"on_frontier"`
}

// View is the full set of derived structures for one request.
type View struct {
	Section           models.Section                              `json:"section"`
	IndexMode         bool                                        `json:"index_mode"`
	EffectiveDatasets []string                                    `json:"effective_datasets"`
	Polarity          models.Polarity                             `json:"polarity"`
	MixedPolarity     bool                                        `json:"mixed_polarity,omitempty"`
	Strategy          sampling.Strategy                           `json:"strategy"`
	LabelSize         models.ModelSize                            `json:"label_size"`
	Categories        []models.CategoryGroup                      `json:"categories"`
	Results           []models.ModelResult                        `json:"results"`
	Frontiers         map[models.ModelSize][]models.FrontierPoint `json:"frontiers"`
	Timeline          []TimelinePoint                             `json:"timeline"`
	Labels            sampling.Labels                             `json:"labels"`
	Shades            map[string]models.ShadeTier                 `json:"shades"`
	Summary           metrics.Summary                             `json:"summary"`
}

// Compute derives the view for req from catalog. It never fails: missing
// scores, missing dates and unknown selection ids only narrow what is shown.
func Compute(catalog *models.Catalog, req Request) *View {
	req = req.withDefaults()

	universe := catalog.DatasetsIn(req.Section)
	allIDs := models.DatasetIDs(universe)
	effective := selection.EffectiveSet(req.Selection, allIDs)
	datasets := effective.Filter(universe)

	polarity, mixed := scoring.AggregatePolarity(datasets)
	results := scoring.Evaluate(catalog.Models, datasets)

	view := &View{
		Section:           req.Section,
		IndexMode:         selection.IsIndexMode(req.Selection, allIDs),
		EffectiveDatasets: effective.IDs(),
		Polarity:          polarity,
		MixedPolarity:     mixed,
		Strategy:          sampling.StrategyFor(req.Narrow),
		LabelSize:         req.Size,
		Categories:        categories.Group(universe),
		Results:           results,
		Frontiers:         make(map[models.ModelSize][]models.FrontierPoint, len(models.Sizes)),
		Shades:            ranking.RankShades(results, polarity),
		Summary:           scoring.Summarize(results),
	}

	points := make(map[models.ModelSize][]models.FrontierPoint, len(models.Sizes))
	for _, size := range models.Sizes {
		points[size] = frontier.Points(results, size)
		view.Frontiers[size] = frontier.Build(points[size], polarity)
	}
	view.Labels = sampling.Sample(points[req.Size], polarity, view.Strategy)
	view.Timeline = timeline(results, view.Frontiers, polarity)

	return view
}

// timeline classifies every dated included result against the frontier of
// its own size class.
func timeline(results []models.ModelResult, frontiers map[models.ModelSize][]models.FrontierPoint, p models.Polarity) []TimelinePoint {
	var out []TimelinePoint
	for _, r := range results {
		if !r.Included {
			continue
		}
		ts, ok := r.Model.Released()
		if !ok {
			continue
		}
		out = append(out, TimelinePoint{
			FrontierPoint: models.FrontierPoint{Timestamp: ts, Value: *r.Average, ModelName: r.Model.Name},
			Provider:      r.Model.Provider,
			Size:          r.Model.Size,
			OnFrontier:    frontier.IsOnFrontier(ts, *r.Average, frontiers[r.Model.Size], p),
		})
	}
	return out
}

// Observer receives one call per view served by an Engine.
type Observer interface {
	ObserveView(section, strategy string, memoHit bool, elapsed time.Duration)
}

// Engine memoizes views per catalog version. A memoized view is shared, so
// callers must treat it as read-only.
type Engine struct {
	memo     *cache.Memo[*View]
	logger   *slog.Logger
	observer Observer
}

// New creates an engine. A nil memo disables memoization.
func New(memo *cache.Memo[*View], logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{memo: memo, logger: logger}
}

// WithObserver sets the observer notified of every served view.
func (e *Engine) WithObserver(o Observer) *Engine {
	e.observer = o
	return e
}

// View returns the view for req over the catalog identified by version.
func (e *Engine) View(version string, catalog *models.Catalog, req Request) *View {
	req = req.withDefaults()
	strategy := sampling.StrategyFor(req.Narrow).String()

	var key string
	if e.memo != nil {
		key = Key(version, req)
		if v, ok := e.memo.Get(key); ok {
			e.logger.Debug("view memo hit", "version", version, "section", req.Section)
			e.observe(string(req.Section), strategy, true, 0)
			return v
		}
	}

	start := time.Now()
	v := Compute(catalog, req)
	elapsed := time.Since(start)

	if e.memo != nil {
		e.memo.Put(key, v)
		e.logger.Debug("view memo miss", "version", version, "section", req.Section, "duration_ms", elapsed.Milliseconds())
	}
	e.observe(string(req.Section), strategy, false, elapsed)
	return v
}

func (e *Engine) observe(section, strategy string, hit bool, elapsed time.Duration) {
	if e.observer != nil {
		e.observer.ObserveView(section, strategy, hit, elapsed)
	}
}

// Key identifies a request against a catalog version. Selections that only
// differ in false entries produce the same key.
func Key(version string, req Request) string {
	req = req.withDefaults()
	var on []string
	for id, included := range req.Selection {
		if included {
			on = append(on, id)
		}
	}
	return cache.NewKey().
		Add(version).
		Add(string(req.Section)).
		AddSet(on).
		AddBool(req.Narrow).
		Add(string(req.Size)).
		Sum()
}
