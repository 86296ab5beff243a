package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academic-integrity-simulator/internal/model"
)

func strPtr(s string) *string { return &s }

func TestComposeEmptyHistory(t *testing.T) {
	got := Compose(StudentPersona, nil, "Explain gravity")

	assert.Equal(t, string(StudentPersona)+"\n\n"+`User: "Explain gravity"`, got)
}

func TestComposeWithHistory(t *testing.T) {
	history := []model.Turn{
		model.UserTurn("What is photosynthesis?"),
		model.AssistantTurn("Plants make food from light.", strPtr("Verdict: ✅ Likely Original Work")),
		model.UserTurn("And at night?"),
		model.AssistantTurn("I think they rest?", nil),
	}

	got := Compose(StudentPersona, history, "Explain gravity")

	require.True(t, strings.HasPrefix(got, string(StudentPersona)+"\n\n"))
	assert.True(t, strings.HasSuffix(got, `User: "Explain gravity"`))

	body := strings.TrimPrefix(got, string(StudentPersona)+"\n\n")
	lines := strings.Split(strings.TrimSuffix(body, `User: "Explain gravity"`), "\n")
	// trailing newline after the last history line leaves one empty element
	require.Len(t, lines, len(history)+1)
	assert.Equal(t, "User: What is photosynthesis?", lines[0])
	assert.Equal(t, "Student: Plants make food from light.", lines[1])
	assert.Equal(t, "User: And at night?", lines[2])
	assert.Equal(t, "Student: I think they rest?", lines[3])
	assert.Empty(t, lines[4])
}

func TestComposeNeverEchoesAnalysis(t *testing.T) {
	analysis := "The phrasing is suspiciously formal. Verdict: ⚠️ Potential Plagiarism Detected"
	history := []model.Turn{
		model.UserTurn("Define entropy"),
		model.AssistantTurn("Entropy quantifies the number of microstates.", &analysis),
	}

	got := Compose(StudentPersona, history, "Thanks")

	assert.NotContains(t, got, analysis)
	assert.NotContains(t, got, "Potential Plagiarism")
	assert.Contains(t, got, "Student: Entropy quantifies the number of microstates.\n")
}

func TestComposeCheckerPersona(t *testing.T) {
	got := Compose(IntegrityCheckerPersona, nil, "Gravity pulls things down.")

	assert.True(t, strings.HasPrefix(got, "You are an AI that acts as an Academic Integrity Officer"))
	assert.True(t, strings.HasSuffix(got, `User: "Gravity pulls things down."`))
	assert.Contains(t, got, model.OriginalWorkMarker)
	assert.Contains(t, got, model.PotentialPlagiarismMarker)
}
