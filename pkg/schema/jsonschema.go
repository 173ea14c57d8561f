package schema

import "sort"

// DefaultItemDescription is applied to array items declared without a description
const DefaultItemDescription = "Array item"

// JSONSchema renders the schema as a JSON Schema object document, the
// shape LLM function-calling APIs expect for tool input.
func (s *ToolSchema) JSONSchema() map[string]any {
	properties := make(map[string]any, len(s.Parameters))
	for name, def := range s.Parameters {
		properties[name] = def.JSONSchema()
	}

	doc := map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
	if len(s.Required) > 0 {
		doc["required"] = append([]string(nil), s.Required...)
	}
	return doc
}

// JSONSchema renders a single definition. Array items carry only their
// type and description, matching what validation applies to them.
func (d ParameterDefinition) JSONSchema() map[string]any {
	doc := map[string]any{
		"type": string(d.Type),
	}
	if d.Description != "" {
		doc["description"] = d.Description
	}
	if len(d.Enum) > 0 {
		doc["enum"] = append([]any(nil), d.Enum...)
	}

	if d.Items != nil {
		doc["items"] = d.Items.ItemDefinition().JSONSchema()
	}

	if len(d.Properties) > 0 {
		properties := make(map[string]any, len(d.Properties))
		for name, prop := range d.Properties {
			properties[name] = prop.JSONSchema()
		}
		doc["properties"] = properties
	}
	if len(d.Required) > 0 {
		doc["required"] = append([]string(nil), d.Required...)
	}

	return doc
}

// ItemDefinition returns the definition applied to each array element:
// the item type, and its description or DefaultItemDescription.
func (d ParameterDefinition) ItemDefinition() ParameterDefinition {
	description := d.Description
	if description == "" {
		description = DefaultItemDescription
	}
	return ParameterDefinition{
		Type:        d.Type,
		Description: description,
	}
}

// SortedKeys returns map keys in lexical order
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
