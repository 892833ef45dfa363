package extract

import (
	_ "embed"
	"strings"
	"text/template"

	"github.com/amishk599/talentscout/internal/model"
)

// NotFoundSentinel is what the model is told to answer when the field is absent.
const NotFoundSentinel = "NOT_FOUND"

//go:embed prompts/system.md
var systemPrompt string

//go:embed prompts/field.tmpl
var fieldPromptRaw string

//go:embed prompts/questions.tmpl
var questionsPromptRaw string

// Parsed once at package init; reused on every call.
var (
	fieldTemplate     = template.Must(template.New("field").Parse(fieldPromptRaw))
	questionsTemplate = template.Must(template.New("questions").Parse(questionsPromptRaw))
)

// SystemPrompt returns the recruitment-screening persona shared by all calls.
func SystemPrompt() string {
	return strings.TrimSpace(systemPrompt)
}

// fieldGuidance is the one-shot example appended to the extraction prompt.
var fieldGuidance = map[model.Field]string{
	model.FieldName: `Extract the full name of the person. If only a first name is provided, return just that.
Example: For "My name is John Smith", return "John Smith".`,
	model.FieldEmail: `Extract a valid email address in the format username@domain.com.
Example: For "You can reach me at john.smith@example.com", return "john.smith@example.com".`,
	model.FieldPhone: `Extract a valid phone number. Accept various formats including international formats.
Return digits only, with a leading + for international numbers.
Example: For "My number is +1-555-123-4567", return "+15551234567".`,
	model.FieldExperience: `Extract the years of experience as a number or range.
Example: For "I have been working for 5 years", return "5 years".
For "I have 3-5 years of experience", return "3-5 years".`,
	model.FieldPosition: `Extract the desired position or role the candidate is interested in.
Example: For "I'd like to apply for the Software Engineer position", return "Software Engineer".
For multiple positions, list them all separated by commas.`,
	model.FieldLocation: `Extract the current location of the candidate, preferably as city and country.
Example: For "I'm currently based in New York, USA", return "New York, USA".`,
	model.FieldTechStack: `Extract the technology stack mentioned, including programming languages, frameworks, databases, and tools.
Example: For "I work with Python, Django, PostgreSQL, and Docker", return "Python, Django, PostgreSQL, Docker".
List all technologies mentioned, separated by commas.`,
}

// promptLabel is how the field is named inside the prompt text.
func promptLabel(f model.Field) string {
	if f == model.FieldTechStack {
		return "tech stack"
	}
	return string(f)
}

func renderFieldPrompt(utterance string, field model.Field) (string, error) {
	var b strings.Builder
	err := fieldTemplate.Execute(&b, struct {
		Label     string
		Utterance string
		Sentinel  string
		Guidance  string
	}{
		Label:     promptLabel(field),
		Utterance: utterance,
		Sentinel:  NotFoundSentinel,
		Guidance:  fieldGuidance[field],
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

func renderQuestionsPrompt(techStack string, count int) (string, error) {
	slots := make([]int, count)
	for i := range slots {
		slots[i] = i + 1
	}

	var b strings.Builder
	err := questionsTemplate.Execute(&b, struct {
		TechStack string
		Count     int
		Slots     []int
	}{
		TechStack: techStack,
		Count:     count,
		Slots:     slots,
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
