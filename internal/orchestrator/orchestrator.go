// Package orchestrator turns generator calls into issued questions: it
// assigns ids, enforces batch shape, assembles the daily quiz and
// classifies failures for the session machines.
package orchestrator

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/nexthire/nexthire/internal/metrics"
	"github.com/nexthire/nexthire/internal/question"
	"github.com/nexthire/nexthire/internal/questiongen"
)

// DefaultBatchDelay is the pause between consecutive daily quiz batches.
const DefaultBatchDelay = 2 * time.Second

const tracerName = "github.com/nexthire/nexthire/internal/orchestrator"

// Options configures an Orchestrator. Zero values select defaults.
type Options struct {
	// BatchDelay is the pause between consecutive daily batches. Negative
	// disables the pause.
	BatchDelay time.Duration

	// Sleep waits for d or until ctx ends. Tests replace it.
	Sleep func(ctx context.Context, d time.Duration) error

	// NewID returns a fresh question id.
	NewID func() string

	// Rand drives the daily shuffle. Nil uses the global source.
	Rand *rand.Rand

	// Batches is the daily quiz composition, in fetch order.
	Batches []question.DailyBatch

	Logger  *zap.Logger
	Metrics *metrics.Metrics
	Tracer  trace.Tracer
}

// Orchestrator issues questions from a Generator.
type Orchestrator struct {
	gen     questiongen.Generator
	delay   time.Duration
	sleep   func(ctx context.Context, d time.Duration) error
	newID   func() string
	batches []question.DailyBatch
	logger  *zap.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer

	randMu sync.Mutex
	rand   *rand.Rand
}

// New creates an Orchestrator over gen.
func New(gen questiongen.Generator, opts Options) *Orchestrator {
	o := &Orchestrator{
		gen:     gen,
		delay:   opts.BatchDelay,
		sleep:   opts.Sleep,
		newID:   opts.NewID,
		batches: opts.Batches,
		logger:  opts.Logger,
		metrics: opts.Metrics,
		tracer:  opts.Tracer,
		rand:    opts.Rand,
	}
	if o.delay == 0 {
		o.delay = DefaultBatchDelay
	}
	if o.sleep == nil {
		o.sleep = sleepContext
	}
	if o.newID == nil {
		o.newID = uuid.NewString
	}
	if o.batches == nil {
		o.batches = question.DailyBatches
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}
	return o
}

// FetchOne generates a single question for a standard session.
func (o *Orchestrator) FetchOne(ctx context.Context, category question.CategoryID, difficulty question.Difficulty, language string) (q question.Question, err error) {
	cat, err := question.LookupCategory(category)
	if err != nil {
		return question.Question{}, err
	}

	ctx, done := o.observe(ctx, "fetch_one",
		attribute.String("category", string(category)),
		attribute.String("difficulty", string(difficulty)),
		attribute.String("language", language),
	)
	defer func() { done(err) }()

	generated, err := o.gen.GenerateOne(ctx, questiongen.OneRequest{
		Category:   cat.Name,
		Difficulty: difficulty,
		Language:   language,
	})
	if err != nil {
		return question.Question{}, err
	}

	q = generated.Clone()
	q.ID = o.newID()
	return q, nil
}

// FetchBatch generates count multiple-choice questions on topic. A short
// batch is a format error; surplus questions are dropped.
func (o *Orchestrator) FetchBatch(ctx context.Context, topic string, difficulty question.Difficulty, count int) (qs []question.Question, err error) {
	if count <= 0 {
		return nil, fmt.Errorf("fetch batch: count must be positive, got %d", count)
	}

	ctx, done := o.observe(ctx, "fetch_batch",
		attribute.String("topic", topic),
		attribute.String("difficulty", string(difficulty)),
		attribute.Int("count", count),
	)
	defer func() { done(err) }()

	generated, err := o.gen.GenerateBatch(ctx, questiongen.BatchRequest{
		Topic:      topic,
		Difficulty: difficulty,
		Count:      count,
	})
	if err != nil {
		return nil, err
	}
	if len(generated) < count {
		return nil, &questiongen.FormatError{
			Msg: questiongen.MsgInvalidBatch,
			Err: fmt.Errorf("%s: got %d of %d questions", topic, len(generated), count),
		}
	}

	qs = make([]question.Question, count)
	for i := range qs {
		qs[i] = generated[i].Clone()
		qs[i].ID = o.newID()
		qs[i].Type = question.TypeMultipleChoice
	}
	return qs, nil
}

// Translate rewrites q for language. The id and company tags of q are
// kept.
func (o *Orchestrator) Translate(ctx context.Context, q question.Question, language string) (out question.Question, err error) {
	if !question.ValidLanguage(language) {
		return question.Question{}, fmt.Errorf("translate: unsupported language %q", language)
	}

	ctx, done := o.observe(ctx, "translate",
		attribute.String("question.id", q.ID),
		attribute.String("language", language),
	)
	defer func() { done(err) }()

	src := q.Clone()
	translated, err := o.gen.GenerateOne(ctx, questiongen.OneRequest{
		Language:      language,
		TranslateFrom: &src,
	})
	if err != nil {
		return question.Question{}, err
	}

	out = translated.Clone()
	out.ID = q.ID
	out.CompanyTags = slices.Clone(q.CompanyTags)
	if out.Language == "" {
		out.Language = language
	}
	return out, nil
}

// AssembleDailyQuiz fetches every daily batch in order, pausing between
// consecutive batches, and returns the questions shuffled once. progress,
// if non-nil, is called after each batch with the running question count.
// Any failure discards the partial quiz.
func (o *Orchestrator) AssembleDailyQuiz(ctx context.Context, progress func(done, total int)) (qs []question.Question, err error) {
	total := 0
	for _, b := range o.batches {
		total += b.Count
	}

	ctx, done := o.observe(ctx, "assemble_daily",
		attribute.Int("batches", len(o.batches)),
		attribute.Int("total", total),
	)
	defer func() { done(err) }()

	all := make([]question.Question, 0, total)
	for i, b := range o.batches {
		if i > 0 && o.delay > 0 {
			if err = o.sleep(ctx, o.delay); err != nil {
				return nil, err
			}
		}

		var batch []question.Question
		batch, err = o.FetchBatch(ctx, b.Topic, b.Difficulty, b.Count)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if progress != nil {
			progress(len(all), total)
		}
	}

	o.shuffle(all)
	return all, nil
}

func (o *Orchestrator) shuffle(qs []question.Question) {
	swap := func(i, j int) { qs[i], qs[j] = qs[j], qs[i] }
	if o.rand == nil {
		rand.Shuffle(len(qs), swap)
		return
	}
	o.randMu.Lock()
	defer o.randMu.Unlock()
	o.rand.Shuffle(len(qs), swap)
}

// observe starts a span and returns the function that ends it, records
// metrics and logs the outcome.
func (o *Orchestrator) observe(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	ctx, span := o.tracer.Start(ctx, op, trace.WithAttributes(attrs...))
	start := time.Now()

	return ctx, func(err error) {
		elapsed := time.Since(start)
		kind := Classify(err)
		o.metrics.ObserveGeneration(op, kind.String(), elapsed)

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			o.logger.Warn("generation failed",
				zap.String("op", op),
				zap.Stringer("kind", kind),
				zap.Duration("elapsed", elapsed),
				zap.Error(err),
			)
		} else {
			o.logger.Debug("generation done",
				zap.String("op", op),
				zap.Duration("elapsed", elapsed),
			)
		}
		span.End()
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
