package interview

import (
	"context"
	"errors"
	"log/slog"

	"github.com/amishk599/talentscout/internal/extract"
	"github.com/amishk599/talentscout/internal/filter"
	"github.com/amishk599/talentscout/internal/model"
)

// ErrUnknownState is logged when the controller is asked to advance from a
// state it does not know. Reaching it means a caller corrupted the state.
var ErrUnknownState = errors.New("unknown conversation state")

// Extractor is the language-understanding dependency of the controller.
// *extract.Client satisfies it; tests substitute a deterministic double.
type Extractor interface {
	ExtractField(ctx context.Context, utterance string, field model.Field) (string, error)
	GenerateTechnicalQuestions(ctx context.Context, techStack string) []string
}

// Turn is the outcome of one user utterance.
type Turn struct {
	Next     State
	Response string
}

// QuestionSet tracks the technical questions of one interview.
// CurrentIdx never exceeds len(Questions); Answers[i] answers Questions[i].
type QuestionSet struct {
	Questions  []string
	CurrentIdx int
	Answered   int
	Answers    []string
}

// Current returns the question awaiting an answer.
func (q *QuestionSet) Current() (string, bool) {
	if q.CurrentIdx >= len(q.Questions) {
		return "", false
	}
	return q.Questions[q.CurrentIdx], true
}

// Pairs returns the answered questions with their answers.
func (q *QuestionSet) Pairs() []model.QuestionAnswer {
	pairs := make([]model.QuestionAnswer, 0, len(q.Answers))
	for i, a := range q.Answers {
		if i >= len(q.Questions) {
			break
		}
		pairs = append(pairs, model.QuestionAnswer{Question: q.Questions[i], Answer: a})
	}
	return pairs
}

// Data is the per-interview record the controller mutates.
type Data struct {
	Candidate model.CandidateRecord
	Questions QuestionSet
	// Attempts counts consecutive failed extractions in the current state.
	Attempts int
}

// Controller runs the intake state machine. It holds no per-interview state
// and may be shared by any number of sessions.
type Controller struct {
	extractor   Extractor
	exit        *filter.ExitFilter
	maxAttempts int
	logger      *slog.Logger
}

// NewController builds a controller. A nil exit filter selects the default
// keywords with substring matching. maxAttempts <= 0 lets a collecting state
// be retried forever; otherwise the field is skipped after that many
// consecutive failures.
func NewController(extractor Extractor, exit *filter.ExitFilter, maxAttempts int, logger *slog.Logger) *Controller {
	if exit == nil {
		exit = filter.NewExitFilter(nil, filter.MatchSubstring)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller{
		extractor:   extractor,
		exit:        exit,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// Advance processes one utterance received in state current, updating d
// and returning the next state together with the reply for the user.
func (c *Controller) Advance(ctx context.Context, d *Data, current State, utterance string) Turn {
	if c.exit.Match(utterance) {
		d.Attempts = 0
		return Turn{Next: StateConversationEnd, Response: Farewell}
	}

	switch current {
	case StateCollectingName, StateCollectingEmail, StateCollectingPhone,
		StateCollectingExperience, StateCollectingPosition, StateCollectingLocation,
		StateCollectingTechStack:
		return c.collect(ctx, d, current, utterance)
	case StateAskingTechQuestions:
		return c.answer(d, utterance)
	case StateConversationEnd:
		return Turn{Next: StateConversationEnd, Response: ClosingMessage}
	default:
		c.logger.Error("cannot advance conversation", "state", string(current), "error", ErrUnknownState)
		return Turn{Next: current, Response: NotUnderstoodMessage}
	}
}

func (c *Controller) collect(ctx context.Context, d *Data, current State, utterance string) Turn {
	field, _ := current.Field()

	value, err := c.extractor.ExtractField(ctx, utterance, field)
	if err != nil || value == "" {
		c.logExtractFailure(field, err)
		d.Attempts++
		if c.maxAttempts > 0 && d.Attempts >= c.maxAttempts {
			return c.skip(d, current)
		}
		return Turn{Next: current, Response: reprompts[current]}
	}

	d.Candidate.Set(field, value)
	d.Attempts = 0

	if current == StateCollectingTechStack {
		return c.startQuestions(ctx, d, value)
	}
	return Turn{Next: current.next(), Response: acknowledge(current, value)}
}

func (c *Controller) logExtractFailure(field model.Field, err error) {
	if err != nil && !errors.Is(err, extract.ErrNotFound) {
		c.logger.Warn("field extraction failed", "field", string(field), "error", err)
		return
	}
	c.logger.Debug("field not found in utterance", "field", string(field))
}

// skip gives up on the current field and moves along the backbone.
func (c *Controller) skip(d *Data, current State) Turn {
	d.Attempts = 0
	c.logger.Info("skipping field after repeated failures", "state", string(current), "max_attempts", c.maxAttempts)

	if current == StateCollectingTechStack {
		return Turn{Next: StateConversationEnd, Response: NoQuestionsMessage}
	}
	next := current.next()
	return Turn{Next: next, Response: moveOnPrefix + prompts[next]}
}

func (c *Controller) startQuestions(ctx context.Context, d *Data, techStack string) Turn {
	questions := c.extractor.GenerateTechnicalQuestions(ctx, techStack)
	d.Questions = QuestionSet{Questions: questions}

	if len(questions) == 0 {
		c.logger.Warn("no technical questions generated", "tech_stack", techStack)
		return Turn{Next: StateConversationEnd, Response: NoQuestionsMessage}
	}
	return Turn{Next: StateAskingTechQuestions, Response: firstQuestion(questions[0])}
}

func (c *Controller) answer(d *Data, utterance string) Turn {
	q := &d.Questions
	if _, ok := q.Current(); !ok {
		return Turn{Next: StateConversationEnd, Response: QuestionsDoneMessage}
	}

	q.Answers = append(q.Answers, utterance)
	q.Answered++
	q.CurrentIdx++

	if next, ok := q.Current(); ok {
		return Turn{Next: StateAskingTechQuestions, Response: nextQuestion(next)}
	}
	return Turn{Next: StateConversationEnd, Response: QuestionsDoneMessage}
}
