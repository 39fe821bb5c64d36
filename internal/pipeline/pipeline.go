// Package pipeline orchestrates one request end to end: normalize, classify,
// compose, classify again, validate, and repair within a bounded budget. The
// request lifecycle is an explicit state machine so terminal states and
// retry counts stay testable rather than buried in control flow.
package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"

	"answer-pipeline/internal/classify"
	"answer-pipeline/internal/common/cache"
	stderrors "answer-pipeline/internal/common/errors"
	"answer-pipeline/internal/common/logger"
	"answer-pipeline/internal/common/metrics"
	"answer-pipeline/internal/common/observability"
	"answer-pipeline/internal/compose"
	"answer-pipeline/internal/generator"
	"answer-pipeline/internal/normalize"
	"answer-pipeline/internal/record"
	"answer-pipeline/internal/validate"
)

// State of a request inside the repair loop.
type State string

const (
	StateComposing  State = "composing"
	StateValidating State = "validating"
	StateRepairing  State = "repairing"
	StateAccepted   State = "accepted"
	StateRejected   State = "rejected"
)

// DefaultMaxRepairs bounds the repair loop: two repair rounds on top of the
// initial composition.
const DefaultMaxRepairs = 2

// Result is the terminal outcome of one request.
type Result struct {
	Record       *record.OutputRecord
	State        State
	RepairRounds int
}

type Pipeline struct {
	normalizer *normalize.Normalizer
	classifier *classify.Classifier
	composer   *compose.Composer
	cache      *cache.NormalizationCache
	obs        *observability.Observability
	maxRepairs int
	logger     logger.Logger
}

// Option configures optional collaborators.
type Option func(*Pipeline)

// WithCache enables the read-through normalization cache.
func WithCache(c *cache.NormalizationCache) Option {
	return func(p *Pipeline) { p.cache = c }
}

// WithMaxRepairs overrides the repair budget.
func WithMaxRepairs(n int) Option {
	return func(p *Pipeline) { p.maxRepairs = n }
}

// WithObservability enables generator call timing on the otel instruments.
func WithObservability(obs *observability.Observability) Option {
	return func(p *Pipeline) { p.obs = obs }
}

func New(gen generator.Generator, log logger.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		normalizer: normalize.New(),
		classifier: classify.New(),
		composer:   compose.New(gen, log),
		maxRepairs: DefaultMaxRepairs,
		logger: log.With(map[string]interface{}{
			"component": "pipeline",
		}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run processes one raw question. It returns an Accepted record or an error;
// a partially-conforming record is never returned. Cancellation is honored
// at every generator call boundary.
func (p *Pipeline) Run(ctx context.Context, rawInput string) (*Result, error) {
	if strings.TrimSpace(rawInput) == "" {
		return nil, stderrors.NewEmptyInputError()
	}

	nq, firstPass := p.normalizeAndGate(ctx, rawInput)

	state := StateComposing
	var repairNotes []string
	rounds := 0

	for {
		genStart := time.Now()
		out, err := p.composer.Compose(ctx, nq, firstPass, repairNotes)
		p.observeGeneratorCall(ctx, time.Since(genStart), err)
		if err != nil {
			return nil, p.wrapGeneratorError(err)
		}

		state = StateValidating
		p.finalize(out, nq, firstPass)

		violations, err := validate.Validate(out)
		if err != nil {
			return nil, err
		}
		if len(violations) == 0 {
			state = StateAccepted
			metrics.RequestsTotal.WithLabelValues(string(state)).Inc()
			metrics.RepairRounds.Observe(float64(rounds))
			p.logger.Info("record accepted", map[string]interface{}{
				"slug":         out.VaultNode.Slug,
				"score":        out.InputCheck.Score10,
				"repairRounds": rounds,
			})
			return &Result{Record: out, State: state, RepairRounds: rounds}, nil
		}

		if rounds >= p.maxRepairs {
			state = StateRejected
			metrics.RequestsTotal.WithLabelValues(string(state)).Inc()
			metrics.RepairRounds.Observe(float64(rounds))
			p.logger.Warn("record rejected", map[string]interface{}{
				"violations":   len(violations),
				"repairRounds": rounds,
			})
			return nil, stderrors.NewRecordRejectedError(
				"unresolved violations: " + joinViolations(violations))
		}

		state = StateRepairing
		rounds++
		repairNotes = validate.Describe(violations)
		p.logger.Info("repairing draft", map[string]interface{}{
			"round":      rounds,
			"violations": repairNotes,
		})
	}
}

// normalizeAndGate resolves the deterministic layers, consulting the cache
// when one is configured. Cache trouble degrades to a recompute, never a
// request failure.
func (p *Pipeline) normalizeAndGate(ctx context.Context, rawInput string) (record.NormalizedQuestion, record.Classification) {
	if p.cache != nil {
		snap, err := p.cache.Get(ctx, rawInput)
		if err == nil && snap != nil {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			return snap.Normalized, snap.Classification
		}
		if err != nil {
			p.logger.WithError(err).Warn("cache lookup failed", nil)
		}
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	}

	start := time.Now()
	nq := p.normalizer.Normalize(rawInput)
	firstPass := p.classifier.PassOne(rawInput, nq)
	metrics.StageDuration.WithLabelValues("normalize_classify").Observe(time.Since(start).Seconds())

	if p.cache != nil {
		if err := p.cache.Put(ctx, rawInput, &cache.Snapshot{
			Normalized:     nq,
			Classification: firstPass,
		}); err != nil {
			p.logger.WithError(err).Warn("cache write failed", nil)
		}
	}
	return nq, firstPass
}

// finalize runs the content-aware classifier pass and stamps its fields onto
// the record.
func (p *Pipeline) finalize(out *record.OutputRecord, nq record.NormalizedQuestion, firstPass record.Classification) {
	sig := classify.Signals(nq, out.AnswerCapsule25W, out.OwnedInsight)
	final := p.classifier.PassTwo(nq, firstPass, sig)

	out.InputCheck.Flags = final.Flags
	out.InputCheck.Score10 = final.Score10
	out.InputCheck.GradeLabel = final.GradeLabel
	out.InputCheck.ClarificationRequired = final.ClarificationRequired
	out.AIDisplacementRisk = final.AIDisplacementRisk
	out.QueryComplexity = final.QueryComplexity
	out.PublisherProfile = final.PublisherProfile
	out.AICitationPotential = final.AICitationPotential
	out.AIUsagePolicyHint = final.AIUsagePolicyHint
	out.YMYLCategory = final.YMYLCategory
	out.YMYLRiskLevel = final.YMYLRiskLevel
}

// observeGeneratorCall feeds both metric surfaces: the promauto counter and,
// when configured, the otel duration histogram.
func (p *Pipeline) observeGeneratorCall(ctx context.Context, elapsed time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.GeneratorCalls.WithLabelValues(outcome).Inc()
	if p.obs != nil {
		p.obs.RecordGeneratorDuration(ctx, elapsed, outcome)
	}
}

func (p *Pipeline) wrapGeneratorError(err error) error {
	if errors.Is(err, generator.ErrGeneratorTimeout) {
		return stderrors.NewGeneratorTimeoutError()
	}
	return stderrors.NewGeneratorUnavailableError(err)
}

func joinViolations(violations []validate.Violation) string {
	notes := validate.Describe(violations)
	out := ""
	for i, n := range notes {
		if i > 0 {
			out += "; "
		}
		out += n
	}
	return out
}
