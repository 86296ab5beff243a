package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"academic-integrity-simulator/internal/model"
	"academic-integrity-simulator/internal/prompt"
)

type Stage string

const (
	StageStudent        Stage = "student"
	StageIntegrityCheck Stage = "integrity_check"
)

// State is the per-turn pipeline state.
type State string

const (
	StateIdle            State = "idle"
	StateAwaitingStudent State = "awaiting_student"
	StateAwaitingVerdict State = "awaiting_verdict"
	StateSkippingVerdict State = "skipping_verdict"
	StateDone            State = "done"
	StateFailed          State = "failed"
)

// Completer is the part of CompletionService the pipeline depends on.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type TurnResult struct {
	State   State
	Turn    model.Turn
	Verdict model.Verdict
	// Warning is set when the integrity check ran and failed. The student
	// answer is still delivered and logged.
	Warning error
}

type PipelineService struct {
	completer Completer
	observer  func(State)
	logger    *zap.Logger
}

type PipelineOption func(*PipelineService)

// WithStateObserver registers fn to be called on every state transition of
// a turn, on the calling goroutine.
func WithStateObserver(fn func(State)) PipelineOption {
	return func(s *PipelineService) {
		s.observer = fn
	}
}

func WithPipelineLogger(logger *zap.Logger) PipelineOption {
	return func(s *PipelineService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewPipelineService(completer Completer, opts ...PipelineOption) *PipelineService {
	s := &PipelineService{
		completer: completer,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunTurn processes one user utterance against conv. The user turn is
// appended before the student is asked; the assistant turn is appended only
// when the student stage succeeds. An integrity check failure never hides
// the student answer.
func (s *PipelineService) RunTurn(ctx context.Context, conv *model.Conversation, userText string) (*TurnResult, error) {
	if strings.TrimSpace(userText) == "" {
		return nil, ErrEmptyInput
	}

	s.transition(conv, StateIdle)
	history := conv.Turns()
	conv.Append(model.UserTurn(userText))

	s.transition(conv, StateAwaitingStudent)
	studentText, err := s.completer.Complete(ctx, prompt.Compose(prompt.StudentPersona, history, userText))
	if err != nil {
		s.transition(conv, StateFailed)
		s.logger.Error("student stage failed", zap.String("session_id", conv.ID), zap.Error(err))
		return &TurnResult{State: StateFailed}, &StageError{Stage: StageStudent, Err: err}
	}

	result := &TurnResult{Verdict: model.VerdictUnparsed}
	var analysis *string

	if conv.IntegrityCheck() {
		s.transition(conv, StateAwaitingVerdict)
		verdictText, err := s.completer.Complete(ctx, prompt.Compose(prompt.IntegrityCheckerPersona, nil, studentText))
		if err != nil {
			s.logger.Warn("integrity check failed, delivering student answer without analysis",
				zap.String("session_id", conv.ID),
				zap.Error(err),
			)
			result.Warning = &StageError{Stage: StageIntegrityCheck, Err: err}
		} else {
			analysis = &verdictText
			result.Verdict = model.ParseVerdict(verdictText)
		}
	} else {
		s.transition(conv, StateSkippingVerdict)
	}

	result.Turn = model.AssistantTurn(studentText, analysis)
	conv.Append(result.Turn)

	result.State = StateDone
	s.transition(conv, StateDone)
	return result, nil
}

func (s *PipelineService) transition(conv *model.Conversation, state State) {
	s.logger.Debug("pipeline state", zap.String("session_id", conv.ID), zap.String("state", string(state)))
	if s.observer != nil {
		s.observer(state)
	}
}
