package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"academic-integrity-simulator/internal/client"
	"academic-integrity-simulator/internal/model"
	"academic-integrity-simulator/internal/repository"
	"academic-integrity-simulator/internal/service"
	"academic-integrity-simulator/internal/utils"
)

const (
	studentFailedMsg = "The AI student didn't provide a response."
	checkerFailedMsg = "The integrity checker could not provide an analysis."
)

// TurnRunner runs one pipeline turn against a conversation.
type TurnRunner interface {
	RunTurn(ctx context.Context, conv *model.Conversation, userText string) (*service.TurnResult, error)
}

type ChatHandler struct {
	pipeline TurnRunner
	sessions *repository.SessionRepository
	logger   *zap.Logger
}

func NewChatHandler(pipeline TurnRunner, sessions *repository.SessionRepository, logger *zap.Logger) *ChatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{pipeline: pipeline, sessions: sessions, logger: logger}
}

func (h *ChatHandler) conversation(c *gin.Context) (*model.Conversation, bool) {
	id := c.Param("id")
	if !utils.ValidSessionID(id) {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "session not found", Kind: "not_found"})
		return nil, false
	}
	conv, found := h.sessions.Get(id)
	if !found {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "session not found", Kind: "not_found"})
		return nil, false
	}
	return conv, true
}

func (h *ChatHandler) CreateSessionHandler(c *gin.Context) {
	conv := h.sessions.Create()
	c.JSON(http.StatusCreated, model.SessionResponse{
		SessionID:      conv.ID,
		IntegrityCheck: conv.IntegrityCheck(),
	})
}

func (h *ChatHandler) GetSessionHandler(c *gin.Context) {
	conv, ok := h.conversation(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, model.SessionResponse{
		SessionID:      conv.ID,
		IntegrityCheck: conv.IntegrityCheck(),
		Turns:          conv.Turns(),
	})
}

func (h *ChatHandler) UpdateSettingsHandler(c *gin.Context) {
	var req model.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request body", Kind: "bad_request", Details: err.Error()})
		return
	}
	conv, ok := h.conversation(c)
	if !ok {
		return
	}

	conv.SetIntegrityCheck(*req.IntegrityCheck)
	h.logger.Info("integrity check toggled", zap.String("session_id", conv.ID), zap.Bool("enabled", *req.IntegrityCheck))
	c.JSON(http.StatusOK, model.SessionResponse{SessionID: conv.ID, IntegrityCheck: conv.IntegrityCheck()})
}

func (h *ChatHandler) DeleteSessionHandler(c *gin.Context) {
	if !h.sessions.Delete(c.Param("id")) {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "session not found", Kind: "not_found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ChatHandler) SendMessageHandler(c *gin.Context) {
	var req model.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request body", Kind: "bad_request", Details: err.Error()})
		return
	}
	conv, ok := h.conversation(c)
	if !ok {
		return
	}

	// One utterance at a time per conversation.
	conv.Lock()
	defer conv.Unlock()

	result, err := h.pipeline.RunTurn(c.Request.Context(), conv, req.Text)
	if err != nil {
		h.handleTurnError(c, err)
		return
	}

	resp := model.TurnResponse{Turn: result.Turn, Verdict: result.Verdict}
	if result.Warning != nil {
		resp.Warning = checkerFailedMsg
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ChatHandler) handleTurnError(c *gin.Context, err error) {
	kind := service.ErrorKind(err)
	switch {
	case errors.Is(err, service.ErrEmptyInput):
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "message text is empty", Kind: kind})
	case errors.Is(err, service.ErrConfig):
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Error:   "The API key is missing or invalid. Add it to the configuration and try again.",
			Kind:    kind,
			Details: err.Error(),
		})
	case errors.Is(err, service.ErrEmptyResponse):
		c.JSON(http.StatusBadGateway, model.ErrorResponse{Error: studentFailedMsg, Kind: kind})
	case errors.Is(err, client.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, model.ErrorResponse{
			Error:   "The model is rate limiting requests, please try again later.",
			Kind:    kind,
			Details: err.Error(),
		})
	default:
		c.JSON(http.StatusBadGateway, model.ErrorResponse{
			Error:   "An API error occurred.",
			Kind:    kind,
			Details: err.Error(),
		})
	}
}

type aboutResponse struct {
	Title      string   `json:"title"`
	Tagline    string   `json:"tagline"`
	HowItWorks []string `json:"how_it_works"`
}

var about = aboutResponse{
	Title:   "Academic Integrity Simulator",
	Tagline: "Test whether you can spot AI-generated student answers that might not be original work.",
	HowItWorks: []string{
		"You ask the 'AI Student' a question.",
		"The student gives an answer. Sometimes its answer is genuine; sometimes it's written as if copied from another source.",
		"A second AI, the 'Integrity Checker,' analyzes the student's response for signs of plagiarism.",
		"The checker provides its verdict and reasoning.",
	},
}

func (h *ChatHandler) AboutHandler(c *gin.Context) {
	c.JSON(http.StatusOK, about)
}
