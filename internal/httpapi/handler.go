package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhinavk0220/ecommerce-chat-assistant/internal/agent"
	"github.com/abhinavk0220/ecommerce-chat-assistant/internal/cache"
	"github.com/abhinavk0220/ecommerce-chat-assistant/internal/guardrails"
	"github.com/abhinavk0220/ecommerce-chat-assistant/internal/sessions"
	"github.com/abhinavk0220/ecommerce-chat-assistant/pkg/llm"
	"github.com/abhinavk0220/ecommerce-chat-assistant/pkg/logging"
)

const (
	maxMessageRunes           = 10000
	defaultMaxHistoryMessages = 20
)

// Handler serves the chat pipeline over HTTP: guardrails first, then the
// response cache, and only on a miss the full orchestration run.
type Handler struct {
	Agent *agent.Orchestrator
	Cache *cache.Cache
	// Sessions is nil when no database is configured; session endpoints
	// then answer 503 and /chat runs stateless.
	Sessions           *sessions.Store
	Logger             logging.Logger
	MaxHistoryMessages int
}

func NewHandler(orch *agent.Orchestrator, responses *cache.Cache, store *sessions.Store, logger logging.Logger) *Handler {
	return &Handler{
		Agent:              orch,
		Cache:              responses,
		Sessions:           store,
		Logger:             logger,
		MaxHistoryMessages: defaultMaxHistoryMessages,
	}
}

func RegisterRoutes(router gin.IRoutes, handler *Handler) {
	router.POST("/chat", handler.HandleChat)
	router.POST("/sessions", handler.HandleCreateSession)
	router.GET("/sessions/:id", handler.HandleGetSession)
	router.PATCH("/sessions/:id", handler.HandleLinkUser)
	router.DELETE("/sessions/:id", handler.HandleCloseSession)
	router.GET("/sessions/:id/history", handler.HandleHistory)
}

type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
	UserID    string `json:"user_id,omitempty"`
}

type ChatResponse struct {
	Intent             string                 `json:"intent"`
	Answer             string                 `json:"answer"`
	Route              string                 `json:"route"`
	SessionID          string                 `json:"session_id,omitempty"`
	ToolCalls          []agent.ToolCallRecord `json:"tool_calls"`
	Iterations         int                    `json:"iterations"`
	RouterInfo         interface{}            `json:"router_info"`
	FromCache          bool                   `json:"from_cache"`
	GuardrailTriggered bool                   `json:"guardrail_triggered"`
	GuardrailReason    *string                `json:"guardrail_reason"`
}

func (h *Handler) HandleChat(c *gin.Context) {
	startedAt := time.Now()

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		chatRequestsTotal.WithLabelValues("rejected").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}
	if len([]rune(req.Message)) > maxMessageRunes {
		chatRequestsTotal.WithLabelValues("rejected").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "message too long"})
		return
	}

	gr := guardrails.Evaluate(req.Message)
	if !gr.Allowed {
		reason := string(gr.Reason)
		if reason == "" {
			reason = "blocked"
		}
		guardrailBlocksTotal.WithLabelValues(reason).Inc()
		chatRequestsTotal.WithLabelValues("blocked").Inc()
		c.JSON(http.StatusOK, ChatResponse{
			Intent:             "guardrail",
			Answer:             gr.Message,
			Route:              "guardrail:" + reason,
			SessionID:          req.SessionID,
			ToolCalls:          []agent.ToolCallRecord{},
			RouterInfo:         gin.H{},
			GuardrailTriggered: true,
			GuardrailReason:    &reason,
		})
		return
	}

	ctx := c.Request.Context()

	userID := strings.TrimSpace(req.UserID)
	var history []llm.Message
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID != "" && h.Sessions != nil {
		sess, err := h.Sessions.GetSession(ctx, sessionID)
		if err != nil {
			if errors.Is(err, sessions.ErrSessionNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
				return
			}
			h.Logger.WithError(err).Error("Failed to load session")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load session"})
			return
		}
		if userID == "" {
			userID = sess.UserID
		}
		history, err = h.loadHistory(ctx, sessionID)
		if err != nil {
			h.Logger.WithError(err).Error("Failed to load session history")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load conversation history"})
			return
		}
	}

	value, fromCache, err := h.Cache.Do(ctx, sessionID, req.Message, func(ctx context.Context) (interface{}, error) {
		return h.Agent.Handle(ctx, agent.Request{
			Message:   req.Message,
			SessionID: sessionID,
			UserID:    userID,
			History:   history,
		}), nil
	})
	if err != nil {
		h.Logger.WithError(err).Error("Chat pipeline failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process message"})
		return
	}
	result, ok := value.(agent.Result)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process message"})
		return
	}

	h.persistTurn(ctx, sessionID, userID, req.Message, result)

	outcome := "answered"
	if fromCache {
		outcome = "cached"
	}
	chatRequestsTotal.WithLabelValues(outcome).Inc()
	chatDuration.Observe(time.Since(startedAt).Seconds())

	c.JSON(http.StatusOK, ChatResponse{
		Intent:     string(result.Intent),
		Answer:     result.Answer,
		Route:      result.Route,
		SessionID:  sessionID,
		ToolCalls:  result.ToolCalls,
		Iterations: result.Iterations,
		RouterInfo: result.RouterInfo,
		FromCache:  fromCache,
	})
}

func (h *Handler) loadHistory(ctx context.Context, sessionID string) ([]llm.Message, error) {
	limit := h.MaxHistoryMessages
	if limit <= 0 {
		limit = defaultMaxHistoryMessages
	}
	stored, err := h.Sessions.History(ctx, sessionID, limit)
	if err != nil {
		return nil, err
	}
	history := make([]llm.Message, 0, len(stored))
	for _, msg := range stored {
		if msg.Role != "user" && msg.Role != "assistant" {
			continue
		}
		history = append(history, llm.Message{Role: msg.Role, Content: msg.Content})
	}
	return history, nil
}

// persistTurn records both sides of the exchange. Failures are logged but do
// not fail the request, the answer is already computed.
func (h *Handler) persistTurn(ctx context.Context, sessionID, userID, message string, result agent.Result) {
	if h.Sessions == nil || sessionID == "" {
		return
	}
	if err := h.Sessions.AppendMessage(ctx, sessionID, userID, "user", message, "", ""); err != nil {
		h.Logger.WithError(err).Warn("Failed to persist user message")
		return
	}
	if err := h.Sessions.AppendMessage(ctx, sessionID, userID, "assistant", result.Answer, string(result.Intent), result.Route); err != nil {
		h.Logger.WithError(err).Warn("Failed to persist assistant message")
	}
}

type createSessionRequest struct {
	UserID string `json:"user_id,omitempty"`
}

func (h *Handler) HandleCreateSession(c *gin.Context) {
	if h.Sessions == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "session store unavailable"})
		return
	}
	var req createSessionRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
			return
		}
	}
	sessionID, err := h.Sessions.CreateSession(c.Request.Context(), strings.TrimSpace(req.UserID))
	if err != nil {
		h.Logger.WithError(err).Error("Failed to create session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session_id": sessionID})
}

func (h *Handler) HandleGetSession(c *gin.Context) {
	if h.Sessions == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "session store unavailable"})
		return
	}
	sess, err := h.Sessions.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, sessions.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		h.Logger.WithError(err).Error("Failed to load session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load session"})
		return
	}
	c.JSON(http.StatusOK, sess)
}

type linkUserRequest struct {
	UserID string `json:"user_id"`
}

func (h *Handler) HandleLinkUser(c *gin.Context) {
	if h.Sessions == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "session store unavailable"})
		return
	}
	var req linkUserRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.UserID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}
	if err := h.Sessions.LinkUser(c.Request.Context(), c.Param("id"), strings.TrimSpace(req.UserID)); err != nil {
		if errors.Is(err, sessions.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		h.Logger.WithError(err).Error("Failed to link user to session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) HandleCloseSession(c *gin.Context) {
	if h.Sessions == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "session store unavailable"})
		return
	}
	if err := h.Sessions.CloseSession(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, sessions.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		h.Logger.WithError(err).Error("Failed to close session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to close session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "closed"})
}

func (h *Handler) HandleHistory(c *gin.Context) {
	if h.Sessions == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "session store unavailable"})
		return
	}
	limit := h.MaxHistoryMessages
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > 200 {
		limit = 200
	}
	sessionID := c.Param("id")
	if _, err := h.Sessions.GetSession(c.Request.Context(), sessionID); err != nil {
		if errors.Is(err, sessions.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		h.Logger.WithError(err).Error("Failed to load session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load session"})
		return
	}
	messages, err := h.Sessions.History(c.Request.Context(), sessionID, limit)
	if err != nil {
		h.Logger.WithError(err).Error("Failed to load session history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": sessionID, "messages": messages})
}
