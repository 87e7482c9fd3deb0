package summary

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// State identifies where one pipeline invocation is, or how it ended.
type State int

const (
	StateIdle State = iota
	StateSanitizing
	StateClassifying
	StateResolving
	StateRetrieving
	StateBudgeting
	StateGenerating
	StateFitting
	StateDelivered
	StateSkipped
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSanitizing:
		return "sanitizing"
	case StateClassifying:
		return "classifying"
	case StateResolving:
		return "resolving"
	case StateRetrieving:
		return "retrieving"
	case StateBudgeting:
		return "budgeting"
	case StateGenerating:
		return "generating"
	case StateFitting:
		return "fitting"
	case StateDelivered:
		return "delivered"
	case StateSkipped:
		return "skipped"
	case StateAborted:
		return "aborted"
	}
	return "unknown"
}

// Outcome is the terminal result of one invocation.
type Outcome struct {
	State State

	// Query is the resolved retrieval request, nil when the pipeline
	// skipped or aborted before resolving one.
	Query *ResolvedQuery

	// Response is the first payload delivered to the user, empty when
	// delivery itself failed.
	Response string
}

// Orchestrator sequences the pipeline for one trigger message. Invocations
// are independent: the orchestrator holds no mutable state, so a single
// instance serves any number of concurrent triggers. Callers on a latency-
// sensitive dispatch path should run HandleTrigger in its own goroutine.
type Orchestrator struct {
	Sanitizer  *Sanitizer
	Classifier *IntentClassifier
	Times      *TimeResolver
	Generator  Completer

	// SelfID is the bot's own account id, excluded from author filters and
	// used to drop command messages from transcripts.
	SelfID string

	Loc         *time.Location
	MinStart    time.Time
	TokenBudget int

	// Now supplies the reference time, injectable for tests.
	Now func() time.Time

	Log zerolog.Logger
}

// NewOrchestrator wires the full pipeline around one delegate and the bot's
// identity. All delegate calls (sanitize, classify, time parsing,
// generation) go through the same Completer.
func NewOrchestrator(delegate Completer, selfID string, loc *time.Location, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		Sanitizer:   NewSanitizer(delegate, log),
		Classifier:  &IntentClassifier{Delegate: delegate, Log: log},
		Times:       NewTimeResolver(delegate, loc, log),
		Generator:   delegate,
		SelfID:      selfID,
		Loc:         loc,
		MinStart:    MinAllowedStart(loc),
		TokenBudget: DefaultTokenBudget,
		Now:         func() time.Time { return time.Now().In(loc) },
		Log:         log,
	}
}

// HandleTrigger runs the whole pipeline for one trigger message and delivers
// the result through out. It never panics and never returns an error: every
// failure terminates in a user-visible notice and an Aborted outcome.
func (o *Orchestrator) HandleTrigger(ctx context.Context, src HistorySource, out Responder, trig Trigger) Outcome {
	log := o.Log.With().Str("request_id", uuid.NewString()).Str("channel", trig.ChannelName).Logger()
	now := o.Now()

	log.Info().Str("state", StateSanitizing.String()).Msg("pipeline: trigger received")
	clean := o.Sanitizer.Sanitize(ctx, trig.Content)

	log.Info().Str("state", StateClassifying.String()).Msg("pipeline: classifying intent")
	intent := o.Classifier.Classify(ctx, clean, trig.ChannelName)

	if intent.WrongChannel {
		return o.skip(ctx, out, wrongChannelReply, log)
	}
	if !intent.Summary {
		return o.skip(ctx, out, notSummaryReply, log)
	}

	// Time and author resolution have no data dependency on each other.
	log.Info().Str("state", StateResolving.String()).Msg("pipeline: resolving window and authors")
	var (
		window  *TimeWindow
		authors []string
		wg      sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		if intent.TimeLimit == nil || strings.TrimSpace(*intent.TimeLimit) == "" {
			return
		}
		w := o.Times.Resolve(ctx, *intent.TimeLimit, now)
		window = &w
	}()
	go func() {
		defer wg.Done()
		roster, err := src.Members(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("pipeline: roster unavailable, no author filter")
			return
		}
		authors = ResolveAuthors(intent.Authors, trig.Mentions, roster, o.SelfID)
	}()
	wg.Wait()

	q := BuildQuery(intent, window, authors, now, o.MinStart)
	log.Info().
		Int("limit", q.Limit).
		Bool("ascending", q.Ascending).
		Strs("authors", q.Authors).
		Strs("notices", q.Notices).
		Msg("pipeline: query resolved")

	log.Info().Str("state", StateRetrieving.String()).Msg("pipeline: fetching history")
	msgs, err := FetchValid(ctx, src, q, o.SelfID, log)
	if err != nil {
		log.Error().Err(err).Msg("pipeline: history fetch failed")
		return o.abort(ctx, out, log)
	}
	if len(msgs) == 0 {
		reply := noMessagesReply(o.formatBound(q.Window.Start), o.formatBound(&q.Window.End))
		return o.deliverShort(ctx, out, reply, &q, log)
	}

	log.Info().Str("state", StateBudgeting.String()).Int("messages", len(msgs)).Msg("pipeline: assembling prompt")
	prompt, ok := AssemblePrompt(msgs, q.Focus, o.TokenBudget, o.Loc)
	if !ok {
		return o.deliverShort(ctx, out, emptySummaryReply, &q, log)
	}
	log.Info().Int("lines", prompt.Lines).Int("tokens", prompt.Tokens).Msg("pipeline: prompt assembled")

	log.Info().Str("state", StateGenerating.String()).Msg("pipeline: generating summary")
	generated, err := o.Generator.Complete(ctx, CompletionRequest{
		Instructions: prompt.Instructions,
		Input:        prompt.Input,
	})
	generated = strings.TrimSpace(generated)
	if err != nil || generated == "" {
		log.Error().Err(err).Msg("pipeline: generation failed")
		return o.abort(ctx, out, log)
	}

	log.Info().Str("state", StateFitting.String()).Msg("pipeline: fitting response")
	response := Fit(generated, MaxResponseChars, FitTarget)
	if len(q.Notices) > 0 {
		response = Fit(strings.Join(q.Notices, "\n")+"\n\n"+response, MaxResponseChars, FitTarget)
	}

	if err := out.Edit(ctx, response); err != nil {
		log.Warn().Err(err).Msg("pipeline: edit failed, sending chunks")
		for _, c := range Chunk(response, ChunkSize) {
			if err := out.Send(ctx, c); err != nil {
				log.Error().Err(err).Msg("pipeline: delivery failed")
				return Outcome{State: StateAborted, Query: &q}
			}
		}
	}

	log.Info().Str("state", StateDelivered.String()).Msg("pipeline: delivered")
	return Outcome{State: StateDelivered, Query: &q, Response: response}
}

func (o *Orchestrator) skip(ctx context.Context, out Responder, reply string, log zerolog.Logger) Outcome {
	if err := out.Edit(ctx, reply); err != nil {
		log.Error().Err(err).Msg("pipeline: delivery failed")
		return Outcome{State: StateAborted}
	}
	log.Info().Str("state", StateSkipped.String()).Msg("pipeline: not a summary request")
	return Outcome{State: StateSkipped, Response: reply}
}

func (o *Orchestrator) abort(ctx context.Context, out Responder, log zerolog.Logger) Outcome {
	if err := out.Edit(ctx, failureReply); err != nil {
		log.Error().Err(err).Msg("pipeline: failure notice undeliverable")
	}
	return Outcome{State: StateAborted, Response: failureReply}
}

func (o *Orchestrator) deliverShort(ctx context.Context, out Responder, reply string, q *ResolvedQuery, log zerolog.Logger) Outcome {
	if err := out.Edit(ctx, reply); err != nil {
		log.Error().Err(err).Msg("pipeline: delivery failed")
		return Outcome{State: StateAborted, Query: q}
	}
	log.Info().Str("state", StateDelivered.String()).Str("reply", reply).Msg("pipeline: delivered without generation")
	return Outcome{State: StateDelivered, Query: q, Response: reply}
}

func (o *Orchestrator) formatBound(t *time.Time) string {
	if t == nil {
		return "–"
	}
	return t.In(o.Loc).Format(transcriptTimeLayout)
}
