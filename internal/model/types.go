package model

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one logged exchange unit. Analysis is only ever set on assistant
// turns whose integrity check ran and succeeded.
type Turn struct {
	Role     Role    `json:"role"`
	Content  string  `json:"content"`
	Analysis *string `json:"analysis,omitempty"`
}

func UserTurn(content string) Turn {
	return Turn{Role: RoleUser, Content: content}
}

func AssistantTurn(content string, analysis *string) Turn {
	return Turn{Role: RoleAssistant, Content: content, Analysis: analysis}
}

func (t Turn) HasAnalysis() bool {
	return t.Analysis != nil
}

type AIChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type AIChatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

type AIErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}

type SendMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

type UpdateSettingsRequest struct {
	IntegrityCheck *bool `json:"integrity_check" binding:"required"`
}

type SessionResponse struct {
	SessionID      string `json:"session_id"`
	IntegrityCheck bool   `json:"integrity_check"`
	Turns          []Turn `json:"turns,omitempty"`
}

type TurnResponse struct {
	Turn    Turn    `json:"turn"`
	Verdict Verdict `json:"verdict"`
	Warning string  `json:"warning,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind"`
	Details string `json:"details,omitempty"`
}
