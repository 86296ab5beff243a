package prompt

import (
	"strings"

	"academic-integrity-simulator/internal/model"
)

// Compose renders the persona, the prior turns as labeled dialogue and the
// current utterance into one prompt. The remote model keeps no session, so
// the whole conversation is re-sent on every call. Turn analyses are never
// included.
func Compose(persona Persona, priorTurns []model.Turn, userText string) string {
	var b strings.Builder
	b.WriteString(string(persona))
	b.WriteString("\n\n")

	for _, t := range priorTurns {
		b.WriteString(roleLabel(t.Role))
		b.WriteString(": ")
		b.WriteString(t.Content)
		b.WriteString("\n")
	}

	b.WriteString(`User: "`)
	b.WriteString(userText)
	b.WriteString(`"`)
	return b.String()
}

func roleLabel(r model.Role) string {
	if r == model.RoleUser {
		return "User"
	}
	return "Student"
}
