package plugin

import (
	"context"
	"fmt"
	"sort"

	"github.com/harun/batai/pkg/schema"
	"github.com/harun/batai/pkg/toolexecutor"
)

// ToolProvider is implemented by plugin processes. The host activates the
// provider with its config, reads the tool schemas and then calls tools by
// name. Params reaching Call have already been validated by the host.
type ToolProvider interface {
	Activate(config map[string]any) error
	Schemas() ([]*schema.ToolSchema, error)
	Call(name string, params map[string]any) (any, error)
}

// Provider serves a fixed set of tools
type Provider struct {
	tools map[string]toolexecutor.Tool

	// OnActivate, when set, receives the plugin config from the host
	OnActivate func(config map[string]any) error
}

// NewProvider creates a provider for tools
func NewProvider(tools ...toolexecutor.Tool) *Provider {
	p := &Provider{tools: make(map[string]toolexecutor.Tool, len(tools))}
	for _, tool := range tools {
		p.tools[tool.Schema().Name] = tool
	}
	return p
}

func (p *Provider) Activate(config map[string]any) error {
	if p.OnActivate == nil {
		return nil
	}
	return p.OnActivate(config)
}

func (p *Provider) Schemas() ([]*schema.ToolSchema, error) {
	names := make([]string, 0, len(p.tools))
	for name := range p.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	schemas := make([]*schema.ToolSchema, 0, len(names))
	for _, name := range names {
		schemas = append(schemas, p.tools[name].Schema())
	}
	return schemas, nil
}

func (p *Provider) Call(name string, params map[string]any) (any, error) {
	tool, ok := p.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", toolexecutor.ErrToolNotFound, name)
	}
	return tool.Execute(context.Background(), params)
}
