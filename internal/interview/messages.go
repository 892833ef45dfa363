package interview

import "fmt"

const (
	// Greeting opens every interview.
	Greeting = "Hello! I'm TalentScout's Hiring Assistant. I'll help assess your fit for our technology positions. Could you please tell me your full name to get started?"

	// Farewell answers an exit keyword.
	Farewell = "Thank you for your time! Your information has been recorded and our team will be in touch soon. Have a great day!"

	// ClosingMessage is the reply to anything said after the interview ended.
	ClosingMessage = "Our team has received your information and will be in touch soon. Have a great day!"

	// NoQuestionsMessage ends the interview when no technical questions could be produced.
	NoQuestionsMessage = "Thank you for providing your information. Unfortunately, I couldn't generate technical questions at this time. Our team will review your profile and get back to you soon!"

	// QuestionsDoneMessage follows the answer to the last technical question.
	QuestionsDoneMessage = "Thank you for answering all the technical questions! We've collected all the necessary information for now. Our recruitment team will review your profile and get back to you shortly if there's a good match. Do you have any questions for us?"

	// NotUnderstoodMessage is returned when the conversation is in an unrecognised state.
	NotUnderstoodMessage = "I apologize, but I didn't understand that. Could you please try again or rephrase your message?"

	moveOnPrefix = "No problem, let's move on. "
)

// prompts asks for the field gathered in each collecting state.
var prompts = map[State]string{
	StateCollectingName:       "Could you please tell me your full name?",
	StateCollectingEmail:      "Could you please provide your email address?",
	StateCollectingPhone:      "Could you please share your phone number?",
	StateCollectingExperience: "How many years of experience do you have in your field?",
	StateCollectingPosition:   "What position(s) are you interested in applying for?",
	StateCollectingLocation:   "Where are you currently located?",
	StateCollectingTechStack:  "Please list your tech stack - the programming languages, frameworks, databases, and tools you're proficient in.",
}

var reprompts = map[State]string{
	StateCollectingName:       "I didn't catch your full name. Could you please provide it again?",
	StateCollectingEmail:      "That doesn't look like a valid email address. Could you please provide it in the format example@domain.com?",
	StateCollectingPhone:      "I couldn't recognize that as a valid phone number. Could you please provide it again?",
	StateCollectingExperience: "I didn't catch your years of experience. Could you please provide it as a number or range?",
	StateCollectingPosition:   "I didn't understand which position you're interested in. Could you please specify again?",
	StateCollectingLocation:   "I didn't catch your location. Could you please specify your city and country?",
	StateCollectingTechStack:  "I didn't catch your tech stack. Please list programming languages, frameworks, databases, and tools you're proficient in.",
}

// acknowledge confirms a collected value for state s and asks for the next one.
func acknowledge(s State, value string) string {
	switch s {
	case StateCollectingName:
		return fmt.Sprintf("Nice to meet you, %s! Could you please provide your email address?", value)
	case StateCollectingEmail:
		return "Thank you! Now, could you please share your phone number?"
	case StateCollectingPhone:
		return "Great! How many years of experience do you have in your field?"
	case StateCollectingExperience:
		return "Thank you! What position(s) are you interested in applying for?"
	case StateCollectingPosition:
		return "Excellent! Where are you currently located?"
	case StateCollectingLocation:
		return "Thanks! Now, please list your tech stack - the programming languages, frameworks, databases, and tools you're proficient in."
	}
	return ""
}

func firstQuestion(q string) string {
	return "Great! Based on your tech stack, I'd like to ask you a few technical questions to assess your proficiency.\n\nFirst question: " + q
}

func nextQuestion(q string) string {
	return "Thanks for your answer. Next question: " + q
}
