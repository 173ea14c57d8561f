package toolexport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/harun/batai/pkg/toolexecutor"
	"github.com/openai/openai-go"
	"github.com/rs/zerolog/log"
)

// Call is a provider-neutral tool call
type Call struct {
	ID        string
	Name      string
	Arguments []byte // JSON object; empty means no arguments
}

// CallFromAnthropic extracts a call from an Anthropic tool_use block
func CallFromAnthropic(block anthropic.ToolUseBlock) Call {
	return Call{ID: block.ID, Name: block.Name, Arguments: []byte(block.JSON.Input.Raw())}
}

// CallFromOpenAI extracts a call from an OpenAI assistant tool call
func CallFromOpenAI(tc openai.ChatCompletionMessageToolCall) Call {
	return Call{ID: tc.ID, Name: tc.Function.Name, Arguments: []byte(tc.Function.Arguments)}
}

// Dispatcher executes provider tool calls through a ToolExecutor
type Dispatcher struct {
	executor *toolexecutor.ToolExecutor
	callerID string
}

// NewDispatcher creates a dispatcher; callerID is attached to every execution
func NewDispatcher(executor *toolexecutor.ToolExecutor, callerID string) *Dispatcher {
	return &Dispatcher{executor: executor, callerID: callerID}
}

// Dispatch decodes the call arguments and executes the tool
func (d *Dispatcher) Dispatch(ctx context.Context, call Call) toolexecutor.ToolResult {
	params, err := DecodeArguments(call.Arguments)
	if err != nil {
		log.Warn().
			Str("tool", call.Name).
			Str("call_id", call.ID).
			Err(err).
			Msg("Failed to parse tool arguments")
		return toolexecutor.ToolResult{Tool: call.Name, Error: err.Error()}
	}

	return d.executor.Execute(ctx, call.Name, params, &toolexecutor.ExecutionContext{
		CallerID: d.callerID,
	})
}

// AnthropicResult dispatches the call and renders an Anthropic tool_result block
func (d *Dispatcher) AnthropicResult(ctx context.Context, call Call) anthropic.ContentBlockParamUnion {
	content, isError := Render(d.Dispatch(ctx, call))
	return anthropic.NewToolResultBlock(call.ID, content, isError)
}

// OpenAIResult dispatches the call and renders an OpenAI tool message
func (d *Dispatcher) OpenAIResult(ctx context.Context, call Call) openai.ChatCompletionMessageParamUnion {
	content, _ := Render(d.Dispatch(ctx, call))
	return openai.ToolMessage(content, call.ID)
}

// DecodeArguments parses a JSON object of tool arguments
func DecodeArguments(raw []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}

	var params map[string]any
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, fmt.Errorf("failed to parse tool arguments: %w", err)
	}
	if params == nil {
		params = map[string]any{}
	}
	return params, nil
}

// Render turns a result into tool-result text. Strings are passed
// through, other outputs are JSON encoded.
func Render(result toolexecutor.ToolResult) (string, bool) {
	if !result.Success {
		return result.Error, true
	}

	if s, ok := result.Output.(string); ok {
		return s, false
	}
	data, err := json.Marshal(result.Output)
	if err != nil {
		return fmt.Sprintf("%v", result.Output), false
	}
	return string(data), false
}
