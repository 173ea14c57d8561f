// Command batai-text-extras is a batai tool plugin serving extra text tools.
//
// Install it next to a manifest:
//
//	~/.batai/plugins/text-extras/plugin.json
//	~/.batai/plugins/text-extras/batai-text-extras
//
// with plugin.json
//
//	{"id": "text-extras", "name": "Text Extras", "version": "1.0.0",
//	 "main": "batai-text-extras", "host": ">=0.1.0", "tools": ["textReverse"]}
package main

import (
	"context"

	"github.com/harun/batai/pkg/plugin"
	"github.com/harun/batai/pkg/schema"
	"github.com/harun/batai/pkg/toolexecutor"
	"github.com/harun/batai/pkg/tools/text"
)

func main() {
	plugin.Serve(plugin.NewProvider(reverse()))
}

func reverse() toolexecutor.Tool {
	s := &schema.ToolSchema{
		Name:        "textReverse",
		Description: "Reverses the characters of a text",
		Category:    text.Category,
		Version:     "1.0.0",
		Parameters: map[string]schema.ParameterDefinition{
			"text": {Type: schema.TypeString, Description: "Text to reverse"},
		},
		Required: []string{"text"},
	}

	return toolexecutor.NewDefinition(s, func(ctx context.Context, params map[string]any) (any, error) {
		runes := []rune(params["text"].(string))
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return string(runes), nil
	})
}
