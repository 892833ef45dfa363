package interview

import "github.com/amishk599/talentscout/internal/model"

// State is a step of the intake conversation.
type State string

const (
	StateCollectingName       State = "collecting_name"
	StateCollectingEmail      State = "collecting_email"
	StateCollectingPhone      State = "collecting_phone"
	StateCollectingExperience State = "collecting_experience"
	StateCollectingPosition   State = "collecting_position"
	StateCollectingLocation   State = "collecting_location"
	StateCollectingTechStack  State = "collecting_tech_stack"
	StateAskingTechQuestions  State = "asking_tech_questions"
	StateConversationEnd      State = "conversation_end"
)

// States lists every state in conversation order.
var States = []State{
	StateCollectingName,
	StateCollectingEmail,
	StateCollectingPhone,
	StateCollectingExperience,
	StateCollectingPosition,
	StateCollectingLocation,
	StateCollectingTechStack,
	StateAskingTechQuestions,
	StateConversationEnd,
}

// InitialState is where every interview starts.
const InitialState = StateCollectingName

// Valid reports whether s is one of the known states.
func (s State) Valid() bool {
	switch s {
	case StateCollectingName, StateCollectingEmail, StateCollectingPhone,
		StateCollectingExperience, StateCollectingPosition, StateCollectingLocation,
		StateCollectingTechStack, StateAskingTechQuestions, StateConversationEnd:
		return true
	}
	return false
}

// Field returns the candidate field a collecting state gathers.
func (s State) Field() (model.Field, bool) {
	switch s {
	case StateCollectingName:
		return model.FieldName, true
	case StateCollectingEmail:
		return model.FieldEmail, true
	case StateCollectingPhone:
		return model.FieldPhone, true
	case StateCollectingExperience:
		return model.FieldExperience, true
	case StateCollectingPosition:
		return model.FieldPosition, true
	case StateCollectingLocation:
		return model.FieldLocation, true
	case StateCollectingTechStack:
		return model.FieldTechStack, true
	}
	return "", false
}

// next is the successor of a collecting state on the linear backbone.
// Tech stack is not listed: its successor depends on question generation.
func (s State) next() State {
	switch s {
	case StateCollectingName:
		return StateCollectingEmail
	case StateCollectingEmail:
		return StateCollectingPhone
	case StateCollectingPhone:
		return StateCollectingExperience
	case StateCollectingExperience:
		return StateCollectingPosition
	case StateCollectingPosition:
		return StateCollectingLocation
	case StateCollectingLocation:
		return StateCollectingTechStack
	}
	return StateConversationEnd
}
