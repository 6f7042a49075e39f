// Package agent drives the bounded conversation between the reasoning model
// and the tool registry. Every request terminates in a structured Result:
// built-in intents and auth gating short-circuit before the loop, the loop
// itself is capped, and failed or empty runs degrade through partial tool
// results into the retrieval fallback.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/abhinavk0220/ecommerce-chat-assistant/internal/rag"
	"github.com/abhinavk0220/ecommerce-chat-assistant/internal/router"
	"github.com/abhinavk0220/ecommerce-chat-assistant/internal/tools"
	"github.com/abhinavk0220/ecommerce-chat-assistant/pkg/llm"
	"github.com/abhinavk0220/ecommerce-chat-assistant/pkg/logging"
)

// Route tags identify which strategy produced the final answer.
const (
	RouteChitchat       = "builtin:chitchat"
	RouteDate           = "builtin:date"
	RouteAuthRequired   = "auth:user_id_required"
	RouteNoAPIKey       = "error:no_api_key"
	RouteAgentic        = "agentic_function_calling"
	RouteMaxIterations  = "max_iterations_with_tools"
	RoutePartialResults = "error_with_partial_results"
	RouteFallbackRAG    = "fallback:rag"
)

const (
	defaultMaxToolRounds = 10
	defaultCallTimeout   = 60 * time.Second
)

// ToolCallRecord is the append-only log entry for one executed tool call.
type ToolCallRecord struct {
	Tool   string          `json:"tool"`
	Args   json.RawMessage `json:"args,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
}

// Result is the terminal artifact of one orchestration run.
type Result struct {
	Intent     router.Intent    `json:"intent"`
	Answer     string           `json:"answer"`
	Route      string           `json:"route"`
	ToolCalls  []ToolCallRecord `json:"tool_calls"`
	Iterations int              `json:"iterations"`
	RouterInfo router.Result    `json:"router_info"`
}

// Request is one inbound message with its conversation context.
type Request struct {
	Message   string
	SessionID string
	// UserID is the resolved identity, empty for anonymous sessions.
	UserID string
	// History is prior user/assistant turns, oldest first.
	History []llm.Message
}

type Options struct {
	// Provider is nil when no model credential is configured; requests that
	// need the loop then hard-stop with a corrective answer.
	Provider      llm.Provider
	Registry      *tools.Registry
	Answerer      Answerer
	Logger        logging.Logger
	MaxToolRounds int
	// CallTimeout bounds each individual model call.
	CallTimeout time.Duration
	// Now supplies the clock; tests and demo deployments pin it.
	Now func() time.Time
}

type Orchestrator struct {
	provider    llm.Provider
	registry    *tools.Registry
	answerer    Answerer
	logger      logging.Logger
	maxRounds   int
	callTimeout time.Duration
	now         func() time.Time
}

func New(opts Options) *Orchestrator {
	maxRounds := opts.MaxToolRounds
	if maxRounds <= 0 {
		maxRounds = defaultMaxToolRounds
	}
	callTimeout := opts.CallTimeout
	if callTimeout <= 0 {
		callTimeout = defaultCallTimeout
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewLogger()
	}
	return &Orchestrator{
		provider:    opts.Provider,
		registry:    opts.Registry,
		answerer:    opts.Answerer,
		logger:      logger,
		maxRounds:   maxRounds,
		callTimeout: callTimeout,
		now:         now,
	}
}

// Handle runs the full orchestration for one message. It never returns an
// error; every failure mode degrades into an answer with a diagnostic route.
func (o *Orchestrator) Handle(ctx context.Context, req Request) Result {
	info := router.Detect(req.Message)
	today := o.now().Format("2006-01-02")

	res := Result{
		Intent:     info.Intent,
		ToolCalls:  []ToolCallRecord{},
		RouterInfo: info,
	}

	switch {
	case info.Intent == router.IntentChitchat:
		res.Answer = chitchatAnswer(req.Message)
		res.Route = RouteChitchat
		return o.done(res)
	case info.Intent == router.IntentDateQuery:
		res.Answer = fmt.Sprintf("Today's date is %s.", today)
		res.Route = RouteDate
		return o.done(res)
	// Identity gating applies to identity-bound lookups ("my orders"); a
	// directly supplied order id can be resolved without knowing the user.
	case router.PrivateIntents[info.Intent] && req.UserID == "" && info.OrderID == "":
		res.Answer = authPrompt
		res.Route = RouteAuthRequired
		return o.done(res)
	}

	if o.provider == nil {
		res.Answer = noAPIKeyAnswer
		res.Route = RouteNoAPIKey
		return o.done(res)
	}

	return o.runLoop(ctx, req, today, res)
}

func (o *Orchestrator) runLoop(ctx context.Context, req Request, today string, res Result) Result {
	messages := make([]llm.Message, 0, len(req.History)+2)
	messages = append(messages, llm.Message{
		Role:    "system",
		Content: systemPrompt(req.UserID, req.SessionID, today, o.registry.Names()),
	})
	messages = append(messages, req.History...)
	messages = append(messages, llm.Message{Role: "user", Content: req.Message})

	var records []ToolCallRecord
	lastToolMessage := ""

	for round := 0; round < o.maxRounds; round++ {
		if err := ctx.Err(); err != nil {
			return o.recover(ctx, req, res, records, lastToolMessage, err)
		}

		turn, err := o.modelTurn(ctx, messages)
		if err != nil {
			o.logger.WithFields(logging.Fields{
				"round": round,
				"error": err.Error(),
			}).Warn("Model call failed")
			return o.recover(ctx, req, res, records, lastToolMessage, err)
		}

		switch turn.kind {
		case turnFinal:
			res.Answer = strings.TrimSpace(turn.text)
			res.Route = RouteAgentic
			res.ToolCalls = records
			res.Iterations = round + 1
			return o.done(res)

		case turnToolCall:
			call := turn.call
			toolCallsTotal.WithLabelValues(call.Name).Inc()
			o.logger.WithFields(logging.Fields{
				"tool":  call.Name,
				"round": round,
			}).Info("Dispatching tool call")

			resultJSON := o.registry.Dispatch(ctx, call.Name, call.Arguments, today)
			records = append(records, ToolCallRecord{
				Tool:   call.Name,
				Args:   rawJSON(call.Arguments),
				Result: json.RawMessage(resultJSON),
			})
			if msg := resultMessage(resultJSON); msg != "" {
				lastToolMessage = msg
			}

			messages = append(messages,
				llm.Message{Role: "assistant", Content: turn.text, ToolCalls: []llm.ToolCall{call}},
				llm.Message{Role: "tool", Content: resultJSON, Name: call.Name, ToolCallID: call.ID},
			)

		case turnProtocolError:
			o.logger.WithFields(logging.Fields{"round": round}).
				Warn("Model returned neither text nor a tool call")
			return o.recover(ctx, req, res, records, lastToolMessage, nil)
		}
	}

	// Iteration cap reached while the model was still asking for tools.
	if len(records) > 0 {
		answer := lastToolMessage
		if answer == "" {
			answer = degradedAnswer
		}
		res.Answer = answer
		res.Route = RouteMaxIterations
		res.ToolCalls = records
		res.Iterations = o.maxRounds
		return o.done(res)
	}
	return o.fallback(ctx, req, res)
}

// recover handles model or protocol failures mid-loop: completed tool work is
// surfaced as a degraded answer, otherwise the fallback chain takes over.
func (o *Orchestrator) recover(ctx context.Context, req Request, res Result, records []ToolCallRecord, lastToolMessage string, cause error) Result {
	if cause != nil && len(records) == 0 {
		o.logger.WithFields(logging.Fields{"error": cause.Error()}).
			Info("No tool results to salvage, falling back to retrieval")
	}
	if len(records) > 0 && lastToolMessage != "" {
		res.Answer = lastToolMessage
		res.Route = RoutePartialResults
		res.ToolCalls = records
		res.Iterations = len(records)
		return o.done(res)
	}
	return o.fallback(ctx, req, res)
}

func (o *Orchestrator) fallback(ctx context.Context, req Request, res Result) Result {
	res.Route = RouteFallbackRAG
	res.ToolCalls = []ToolCallRecord{}
	res.Iterations = 0

	if o.answerer == nil {
		res.Answer = fallbackTroubleAnswer
		return o.done(res)
	}
	ans, err := o.answerer.Answer(ctx, req.Message)
	if err != nil || strings.TrimSpace(ans.Text) == "" || rag.IsInsufficient(ans.Text) {
		if err != nil {
			o.logger.WithFields(logging.Fields{"error": err.Error()}).
				Warn("Retrieval fallback failed")
		}
		res.Answer = fallbackTroubleAnswer
		return o.done(res)
	}
	res.Answer = ans.Text
	return o.done(res)
}

func (o *Orchestrator) done(res Result) Result {
	orchestrationsTotal.WithLabelValues(res.Route).Inc()
	loopIterations.Observe(float64(res.Iterations))
	return res
}

type turnKind int

const (
	turnFinal turnKind = iota
	turnToolCall
	turnProtocolError
)

// turn is the classified outcome of one model call.
type turn struct {
	kind turnKind
	text string
	call llm.ToolCall
}

// modelTurn runs one bounded model call and classifies the response: a tool
// request, final text, or a protocol error when the stream carried neither.
func (o *Orchestrator) modelTurn(ctx context.Context, messages []llm.Message) (turn, error) {
	callCtx := ctx
	cancel := func() {}
	if o.callTimeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, o.callTimeout)
	}
	defer cancel()

	start := time.Now()
	stream, err := o.provider.Complete(callCtx, messages, o.registry.Definitions())
	if err != nil {
		llmCallsTotal.WithLabelValues("error").Inc()
		return turn{}, err
	}
	defer stream.Close()

	var text strings.Builder
	var calls []llm.ToolCall
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			llmCallsTotal.WithLabelValues("error").Inc()
			return turn{}, err
		}
		text.WriteString(chunk.Content)
		if len(chunk.ToolCalls) > 0 {
			calls = mergeToolCalls(calls, chunk.ToolCalls)
		}
	}
	llmCallsTotal.WithLabelValues("success").Inc()
	llmDuration.Observe(time.Since(start).Seconds())

	// At most one tool per turn: the first complete call wins, extras are
	// dropped for this round.
	for _, call := range calls {
		if call.Name == "" {
			continue
		}
		return turn{kind: turnToolCall, text: text.String(), call: call}, nil
	}
	if strings.TrimSpace(text.String()) != "" {
		return turn{kind: turnFinal, text: text.String()}, nil
	}
	return turn{kind: turnProtocolError}, nil
}

// mergeToolCalls folds streamed tool-call fragments together. A fragment with
// the ID of an already-seen call replaces its arguments (providers stream the
// accumulated JSON); new IDs are appended.
func mergeToolCalls(existing, incoming []llm.ToolCall) []llm.ToolCall {
	for _, inc := range incoming {
		found := false
		for i, ex := range existing {
			if ex.ID != "" && ex.ID == inc.ID {
				existing[i].Arguments = inc.Arguments
				if inc.Name != "" {
					existing[i].Name = inc.Name
				}
				found = true
				break
			}
		}
		if !found {
			existing = append(existing, inc)
		}
	}
	return existing
}

// resultMessage pulls the human-readable summary out of a tool result
// envelope, when present.
func resultMessage(resultJSON string) string {
	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(resultJSON), &payload); err != nil {
		return ""
	}
	if msg, ok := payload["message"].(string); ok {
		return strings.TrimSpace(msg)
	}
	return ""
}

func rawJSON(s string) json.RawMessage {
	if s == "" {
		return nil
	}
	if json.Valid([]byte(s)) {
		return json.RawMessage(s)
	}
	quoted, _ := json.Marshal(s)
	return quoted
}
