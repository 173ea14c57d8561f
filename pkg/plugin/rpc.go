package plugin

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/rpc"

	"github.com/harun/batai/pkg/schema"
	goplugin "github.com/hashicorp/go-plugin"
)

// PluginName is the name a tool provider is dispensed under
const PluginName = "tools"

// Handshake is used to verify that the plugin and host are compatible
var Handshake = goplugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "BATAI_PLUGIN",
	MagicCookieValue: "batai-tool-plugin-v1",
}

// PluginMap is the map of plugins the host can dispense
var PluginMap = map[string]goplugin.Plugin{
	PluginName: &ToolProviderPlugin{},
}

// Serve runs provider as a plugin process. It is called from a plugin's main
// and does not return.
func Serve(provider ToolProvider) {
	goplugin.Serve(&goplugin.ServeConfig{
		HandshakeConfig: Handshake,
		Plugins: map[string]goplugin.Plugin{
			PluginName: &ToolProviderPlugin{Impl: provider},
		},
	})
}

// ToolProviderPlugin is the go-plugin glue for ToolProvider over net/rpc.
// Payloads travel as JSON so params and results keep their JSON shape.
type ToolProviderPlugin struct {
	Impl ToolProvider
}

func (p *ToolProviderPlugin) Server(*goplugin.MuxBroker) (interface{}, error) {
	return &ToolProviderRPCServer{Impl: p.Impl}, nil
}

func (p *ToolProviderPlugin) Client(b *goplugin.MuxBroker, c *rpc.Client) (interface{}, error) {
	return &ToolProviderRPCClient{client: c}, nil
}

// CallArgs are the arguments for the Call RPC
type CallArgs struct {
	Name   string
	Params []byte
}

// RPCResponse carries a JSON payload or an error message
type RPCResponse struct {
	Payload []byte
	Error   string
}

// ToolProviderRPCServer is the RPC server that ToolProviderRPCClient talks to
type ToolProviderRPCServer struct {
	Impl ToolProvider
}

func (s *ToolProviderRPCServer) Activate(config []byte, resp *RPCResponse) error {
	var cfg map[string]any
	if len(config) > 0 {
		if err := json.Unmarshal(config, &cfg); err != nil {
			return err
		}
	}
	if err := s.Impl.Activate(cfg); err != nil {
		resp.Error = err.Error()
	}
	return nil
}

func (s *ToolProviderRPCServer) Schemas(args interface{}, resp *RPCResponse) error {
	schemas, err := s.Impl.Schemas()
	if err != nil {
		resp.Error = err.Error()
		return nil
	}
	resp.Payload, err = json.Marshal(schemas)
	return err
}

func (s *ToolProviderRPCServer) Call(args *CallArgs, resp *RPCResponse) (err error) {
	defer func() {
		if r := recover(); r != nil {
			resp.Error = fmt.Sprintf("tool panicked: %v", r)
			err = nil
		}
	}()

	var params map[string]any
	if len(args.Params) > 0 {
		if err := json.Unmarshal(args.Params, &params); err != nil {
			return err
		}
	}

	result, callErr := s.Impl.Call(args.Name, params)
	if callErr != nil {
		resp.Error = callErr.Error()
		return nil
	}
	resp.Payload, err = json.Marshal(result)
	return err
}

// ToolProviderRPCClient is the host side of a plugin's ToolProvider
type ToolProviderRPCClient struct {
	client *rpc.Client
}

func (c *ToolProviderRPCClient) Activate(config map[string]any) error {
	data, err := json.Marshal(config)
	if err != nil {
		return err
	}
	var resp RPCResponse
	if err := c.client.Call("Plugin.Activate", data, &resp); err != nil {
		return err
	}
	return respError(resp)
}

func (c *ToolProviderRPCClient) Schemas() ([]*schema.ToolSchema, error) {
	var resp RPCResponse
	if err := c.client.Call("Plugin.Schemas", new(interface{}), &resp); err != nil {
		return nil, err
	}
	if err := respError(resp); err != nil {
		return nil, err
	}

	var schemas []*schema.ToolSchema
	if err := json.Unmarshal(resp.Payload, &schemas); err != nil {
		return nil, fmt.Errorf("failed to decode tool schemas: %w", err)
	}
	return schemas, nil
}

func (c *ToolProviderRPCClient) Call(name string, params map[string]any) (any, error) {
	data, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}
	var resp RPCResponse
	if err := c.client.Call("Plugin.Call", &CallArgs{Name: name, Params: data}, &resp); err != nil {
		return nil, err
	}
	if err := respError(resp); err != nil {
		return nil, err
	}

	var result any
	if err := json.Unmarshal(resp.Payload, &result); err != nil {
		return nil, fmt.Errorf("failed to decode tool result: %w", err)
	}
	return result, nil
}

func respError(resp RPCResponse) error {
	if resp.Error == "" {
		return nil
	}
	return errors.New(resp.Error)
}
