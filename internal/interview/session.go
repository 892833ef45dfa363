package interview

import (
	"context"
	"time"

	"github.com/amishk599/talentscout/internal/model"
)

// CompletionFunc receives the finished interview the first time a session
// reaches conversation_end.
type CompletionFunc func(ctx context.Context, rec model.InterviewRecord)

// Session is one candidate's interview: state, collected data and transcript.
// It is not safe for concurrent use; callers serialize turns.
type Session struct {
	id         string
	controller *Controller
	onComplete CompletionFunc
	now        func() time.Time

	state      State
	data       Data
	transcript model.Transcript
	startedAt  time.Time
	completed  bool
}

// NewSession starts an interview in the initial state with the greeting as
// the first transcript entry. onComplete may be nil.
func NewSession(id string, controller *Controller, onComplete CompletionFunc) *Session {
	s := &Session{
		id:         id,
		controller: controller,
		onComplete: onComplete,
		now:        time.Now,
	}
	s.Reset()
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// State returns the current conversation state.
func (s *Session) State() State { return s.state }

// Candidate returns a copy of what has been collected so far.
func (s *Session) Candidate() model.CandidateRecord { return s.data.Candidate }

// Questions returns a copy of the technical question set.
func (s *Session) Questions() QuestionSet {
	q := s.data.Questions
	q.Questions = append([]string(nil), q.Questions...)
	q.Answers = append([]string(nil), q.Answers...)
	return q
}

// Transcript returns a copy of the conversation so far.
func (s *Session) Transcript() model.Transcript {
	return append(model.Transcript(nil), s.transcript...)
}

// Done reports whether the interview has reached its terminal state.
func (s *Session) Done() bool { return s.state == StateConversationEnd }

// Advance records the utterance, runs it through the controller and records
// the reply. The completion hook fires on the first entry into
// conversation_end since the session was started or last reset.
func (s *Session) Advance(ctx context.Context, utterance string) Turn {
	s.transcript.Append(model.RoleUser, utterance, s.now())

	turn := s.controller.Advance(ctx, &s.data, s.state, utterance)
	s.state = turn.Next
	s.transcript.Append(model.RoleAssistant, turn.Response, s.now())

	if s.state == StateConversationEnd && !s.completed {
		s.completed = true
		if s.onComplete != nil {
			s.onComplete(ctx, s.record())
		}
	}
	return turn
}

// Reset discards everything and starts the interview over.
func (s *Session) Reset() {
	s.state = InitialState
	s.data = Data{}
	s.completed = false
	s.startedAt = s.now()
	s.transcript = model.Transcript{}
	s.transcript.Append(model.RoleAssistant, Greeting, s.startedAt)
}

// progressSteps is seven fields plus the technical questions as one step.
const progressSteps = 8

// Progress estimates completion as a percentage in [0, 100].
func (s *Session) Progress() int {
	if s.state == StateConversationEnd {
		return 100
	}
	step := float64(s.data.Candidate.Filled())
	if s.state == StateAskingTechQuestions {
		q := s.data.Questions
		step += float64(q.Answered) / float64(max(len(q.Questions), 1))
	}
	return min(int(step/progressSteps*100), 100)
}

// Snapshot is a read-only view of a session for presentation layers.
type Snapshot struct {
	ID              string                `json:"id"`
	State           State                 `json:"state"`
	Candidate       model.CandidateRecord `json:"candidate"`
	Questions       []string              `json:"questions,omitempty"`
	CurrentQuestion int                   `json:"current_question"`
	Answered        int                   `json:"questions_answered"`
	Progress        int                   `json:"progress"`
	Done            bool                  `json:"done"`
	Transcript      model.Transcript      `json:"transcript"`
	StartedAt       time.Time             `json:"started_at"`
}

// Snapshot copies the session's current state.
func (s *Session) Snapshot() Snapshot {
	q := s.Questions()
	return Snapshot{
		ID:              s.id,
		State:           s.state,
		Candidate:       s.data.Candidate,
		Questions:       q.Questions,
		CurrentQuestion: q.CurrentIdx,
		Answered:        q.Answered,
		Progress:        s.Progress(),
		Done:            s.Done(),
		Transcript:      s.Transcript(),
		StartedAt:       s.startedAt,
	}
}

func (s *Session) record() model.InterviewRecord {
	return model.InterviewRecord{
		SessionID:   s.id,
		Candidate:   s.data.Candidate,
		Answers:     s.data.Questions.Pairs(),
		Transcript:  s.Transcript(),
		StartedAt:   s.startedAt,
		CompletedAt: s.now(),
	}
}
