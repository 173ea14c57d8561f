// Package toolexport converts tool schemas into LLM provider tool
// declarations and dispatches provider tool calls through an executor.
package toolexport

import (
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/harun/batai/pkg/schema"
	"github.com/openai/openai-go"
)

// Format names a tool declaration format
type Format string

const (
	FormatJSON      Format = "json"
	FormatAnthropic Format = "anthropic"
	FormatOpenAI    Format = "openai"
)

// Formats lists every supported declaration format
func Formats() []Format {
	return []Format{FormatJSON, FormatAnthropic, FormatOpenAI}
}

// AnthropicTool declares a tool for the Anthropic Messages API
func AnthropicTool(s *schema.ToolSchema) anthropic.ToolUnionParam {
	doc := s.JSONSchema()
	toolParam := anthropic.ToolParam{
		Name:        s.Name,
		Description: anthropic.String(s.Description),
		InputSchema: anthropic.ToolInputSchemaParam{
			Properties: doc["properties"],
		},
	}
	if required, ok := doc["required"].([]string); ok && len(required) > 0 {
		toolParam.InputSchema.Required = required
	}
	return anthropic.ToolUnionParam{OfTool: &toolParam}
}

// AnthropicTools declares every schema for the Anthropic Messages API
func AnthropicTools(schemas []*schema.ToolSchema) []anthropic.ToolUnionParam {
	tools := make([]anthropic.ToolUnionParam, 0, len(schemas))
	for _, s := range schemas {
		tools = append(tools, AnthropicTool(s))
	}
	return tools
}

// OpenAITool declares a tool for the OpenAI Chat Completions API
func OpenAITool(s *schema.ToolSchema) openai.ChatCompletionToolParam {
	return openai.ChatCompletionToolParam{
		Type: "function",
		Function: openai.FunctionDefinitionParam{
			Name:        s.Name,
			Description: openai.String(s.Description),
			Parameters:  openai.FunctionParameters(s.JSONSchema()),
		},
	}
}

// OpenAITools declares every schema for the OpenAI Chat Completions API
func OpenAITools(schemas []*schema.ToolSchema) []openai.ChatCompletionToolParam {
	tools := make([]openai.ChatCompletionToolParam, 0, len(schemas))
	for _, s := range schemas {
		tools = append(tools, OpenAITool(s))
	}
	return tools
}

// Declarations renders schemas in the given format. The JSON format
// yields plain name/description/input_schema documents.
func Declarations(format Format, schemas []*schema.ToolSchema) (any, bool) {
	switch format {
	case FormatJSON, "":
		docs := make([]map[string]any, 0, len(schemas))
		for _, s := range schemas {
			docs = append(docs, map[string]any{
				"name":         s.Name,
				"description":  s.Description,
				"input_schema": s.JSONSchema(),
			})
		}
		return docs, true
	case FormatAnthropic:
		return AnthropicTools(schemas), true
	case FormatOpenAI:
		return OpenAITools(schemas), true
	}
	return nil, false
}
