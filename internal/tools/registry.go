// Package tools implements the deterministic function-calling surface of the
// support agent: a registry of named tools with JSON-schema parameter
// validation and a dispatcher that returns a uniform JSON envelope. Tool
// failures are reported in-band so the model can react to them instead of
// aborting the conversation.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/abhinavk0220/ecommerce-chat-assistant/pkg/llm"
	"github.com/abhinavk0220/ecommerce-chat-assistant/pkg/logging"
)

// Args holds decoded tool-call arguments.
type Args map[string]interface{}

// String returns the string argument for key, or "" when absent.
func (a Args) String(key string) string {
	if v, ok := a[key].(string); ok {
		return v
	}
	return ""
}

// Float returns the numeric argument for key. ok is false when absent.
func (a Args) Float(key string) (float64, bool) {
	switch v := a[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

// StringSlice returns the array-of-strings argument for key.
func (a Args) StringSlice(key string) []string {
	raw, ok := a[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Handler executes a tool against validated arguments and returns the result
// payload. Returned errors are converted to in-band error envelopes by the
// dispatcher.
type Handler func(ctx context.Context, args Args) (map[string]interface{}, error)

// Spec describes one registered tool.
type Spec struct {
	Name        string
	Description string
	// Parameters is the JSON-schema object advertised to the model and used
	// to validate arguments before the handler runs.
	Parameters map[string]interface{}
	// NeedsToday marks tools whose schema takes a "today" date; the
	// dispatcher injects the agent's current date when the model omits it.
	NeedsToday bool
	Handler    Handler
}

// Registry holds the tool specs available to the agent loop.
type Registry struct {
	specs  map[string]Spec
	logger logging.Logger
}

// NewRegistry returns an empty registry.
func NewRegistry(logger logging.Logger) *Registry {
	return &Registry{
		specs:  make(map[string]Spec),
		logger: logger,
	}
}

// Register adds a tool spec. Registering the same name twice replaces the
// earlier spec.
func (r *Registry) Register(spec Spec) {
	r.specs[spec.Name] = spec
}

// Names returns the registered tool names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.specs))
	for name := range r.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Definitions returns the registered tools in the shape the LLM providers
// expect.
func (r *Registry) Definitions() []llm.Tool {
	defs := make([]llm.Tool, 0, len(r.specs))
	for _, name := range r.Names() {
		spec := r.specs[name]
		defs = append(defs, llm.Tool{
			Name:        spec.Name,
			Description: spec.Description,
			Parameters:  spec.Parameters,
		})
	}
	return defs
}

// Dispatch decodes, validates and executes a tool call. The returned string is
// always a JSON object; failures come back as {"error": "..."} so the model
// sees them as tool output rather than a broken turn.
func (r *Registry) Dispatch(ctx context.Context, name, rawArgs, today string) string {
	spec, ok := r.specs[name]
	if !ok {
		return errorEnvelope(fmt.Sprintf("Unknown tool: %s", name))
	}

	args := Args{}
	if rawArgs != "" {
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			return errorEnvelope(fmt.Sprintf("Invalid arguments for %s: %v", name, err))
		}
	}

	if spec.NeedsToday {
		if args.String("today") == "" {
			args["today"] = today
		}
	}

	if err := validateArgs(spec.Parameters, args); err != nil {
		return errorEnvelope(fmt.Sprintf("Invalid arguments for %s: %v", name, err))
	}

	result, err := spec.Handler(ctx, args)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logging.Fields{
				"tool":  name,
				"error": err.Error(),
			}).Warn("Tool execution failed")
		}
		return errorEnvelope(err.Error())
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return errorEnvelope(fmt.Sprintf("Failed to encode result for %s: %v", name, err))
	}
	return string(payload)
}

func errorEnvelope(message string) string {
	payload, _ := json.Marshal(map[string]string{"error": message})
	return string(payload)
}

// validateArgs checks decoded arguments against the tool's parameter schema:
// required keys must be present and every provided value must match its
// declared type. Unknown keys are rejected so malformed model output fails
// loudly instead of being silently dropped.
func validateArgs(schema map[string]interface{}, args Args) error {
	properties, _ := schema["properties"].(map[string]interface{})
	required, _ := schema["required"].([]string)
	if required == nil {
		if rawRequired, ok := schema["required"].([]interface{}); ok {
			for _, item := range rawRequired {
				if s, ok := item.(string); ok {
					required = append(required, s)
				}
			}
		}
	}

	for _, key := range required {
		if _, ok := args[key]; !ok {
			return fmt.Errorf("missing required argument %q", key)
		}
	}

	for key, value := range args {
		propSchema, ok := properties[key].(map[string]interface{})
		if !ok {
			return fmt.Errorf("unexpected argument %q", key)
		}
		if value == nil {
			continue
		}
		declared, _ := propSchema["type"].(string)
		if err := checkType(key, declared, value); err != nil {
			return err
		}
	}
	return nil
}

func checkType(key, declared string, value interface{}) error {
	switch declared {
	case "string":
		if _, ok := value.(string); !ok {
			return fmt.Errorf("argument %q must be a string", key)
		}
	case "number", "integer":
		if _, ok := value.(float64); !ok {
			return fmt.Errorf("argument %q must be a number", key)
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("argument %q must be a boolean", key)
		}
	case "array":
		if _, ok := value.([]interface{}); !ok {
			return fmt.Errorf("argument %q must be an array", key)
		}
	case "object":
		if _, ok := value.(map[string]interface{}); !ok {
			return fmt.Errorf("argument %q must be an object", key)
		}
	}
	return nil
}

func toolParams(properties map[string]interface{}, required []string) map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}
