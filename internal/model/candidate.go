package model

import (
	"context"
	"time"
)

// Field identifies one piece of candidate information collected during intake.
type Field string

const (
	FieldName       Field = "name"
	FieldEmail      Field = "email"
	FieldPhone      Field = "phone"
	FieldExperience Field = "experience"
	FieldPosition   Field = "position"
	FieldLocation   Field = "location"
	FieldTechStack  Field = "tech_stack"
)

// Fields lists every collectable field in intake order.
var Fields = []Field{
	FieldName,
	FieldEmail,
	FieldPhone,
	FieldExperience,
	FieldPosition,
	FieldLocation,
	FieldTechStack,
}

// Label is the human-readable name of the field, used in UIs and notifications.
func (f Field) Label() string {
	switch f {
	case FieldName:
		return "Name"
	case FieldEmail:
		return "Email"
	case FieldPhone:
		return "Phone"
	case FieldExperience:
		return "Experience"
	case FieldPosition:
		return "Desired Position"
	case FieldLocation:
		return "Location"
	case FieldTechStack:
		return "Tech Stack"
	}
	return string(f)
}

// CandidateRecord holds what has been collected about a candidate so far.
// An empty string means the field has not been collected.
type CandidateRecord struct {
	FullName        string `json:"full_name,omitempty"`
	Email           string `json:"email,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Experience      string `json:"experience,omitempty"`
	DesiredPosition string `json:"desired_position,omitempty"`
	Location        string `json:"location,omitempty"`
	TechStack       string `json:"tech_stack,omitempty"`
}

// Get returns the value stored for f.
func (r CandidateRecord) Get(f Field) string {
	switch f {
	case FieldName:
		return r.FullName
	case FieldEmail:
		return r.Email
	case FieldPhone:
		return r.Phone
	case FieldExperience:
		return r.Experience
	case FieldPosition:
		return r.DesiredPosition
	case FieldLocation:
		return r.Location
	case FieldTechStack:
		return r.TechStack
	}
	return ""
}

// Set stores value for f. Unknown fields are ignored.
func (r *CandidateRecord) Set(f Field, value string) {
	switch f {
	case FieldName:
		r.FullName = value
	case FieldEmail:
		r.Email = value
	case FieldPhone:
		r.Phone = value
	case FieldExperience:
		r.Experience = value
	case FieldPosition:
		r.DesiredPosition = value
	case FieldLocation:
		r.Location = value
	case FieldTechStack:
		r.TechStack = value
	}
}

// Filled returns how many fields have been collected.
func (r CandidateRecord) Filled() int {
	n := 0
	for _, f := range Fields {
		if r.Get(f) != "" {
			n++
		}
	}
	return n
}

// IsEmpty reports whether no field has been collected yet.
func (r CandidateRecord) IsEmpty() bool {
	return r.Filled() == 0
}

// Role is the author of a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one transcript entry.
type Message struct {
	Role    Role      `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// Transcript is the ordered conversation history of one interview.
type Transcript []Message

// Append adds an entry stamped with at.
func (t *Transcript) Append(role Role, content string, at time.Time) {
	*t = append(*t, Message{Role: role, Content: content, At: at})
}

// QuestionAnswer pairs a generated technical question with the candidate's reply.
type QuestionAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// InterviewRecord is the hand-off unit produced when an interview finishes.
type InterviewRecord struct {
	SessionID   string           `json:"session_id"`
	Candidate   CandidateRecord  `json:"candidate"`
	Answers     []QuestionAnswer `json:"answers,omitempty"`
	Transcript  Transcript       `json:"transcript"`
	StartedAt   time.Time        `json:"started_at"`
	CompletedAt time.Time        `json:"completed_at"`
}

// InterviewStore archives finished interviews.
type InterviewStore interface {
	Save(ctx context.Context, rec InterviewRecord) error
	List(ctx context.Context, limit int) ([]InterviewRecord, error)
	Cleanup(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Notifier tells recruiters about finished interviews.
type Notifier interface {
	Notify(ctx context.Context, rec InterviewRecord) error
}
