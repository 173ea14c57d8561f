package toolexecutor

import (
	"path"

	"github.com/rs/zerolog/log"
)

// ToolPolicy defines which tools a caller can use.
// Entries are exact names, "*" or path.Match patterns such as "text*".
type ToolPolicy struct {
	Allow []string `json:"allow" mapstructure:"allow"` // List of allowed tools (* for all)
	Deny  []string `json:"deny" mapstructure:"deny"`   // List of denied tools (overrides allow)
}

// IsToolAllowed checks if a tool is allowed by the policy
func (tp *ToolPolicy) IsToolAllowed(toolName string) bool {
	if tp == nil {
		// No policy means allow all
		return true
	}

	// Check deny list first (overrides allow list)
	for _, denied := range tp.Deny {
		if matchesPattern(denied, toolName) {
			return false
		}
	}

	for _, allowed := range tp.Allow {
		if matchesPattern(allowed, toolName) {
			return true
		}
	}

	// If no explicit allow, deny by default
	return false
}

// Validate reports malformed patterns and logs rules that shadow each other
func (tp *ToolPolicy) Validate() error {
	if tp == nil {
		return nil
	}

	hasAllowWildcard := false
	hasDenyWildcard := false

	for _, pattern := range append(append([]string{}, tp.Allow...), tp.Deny...) {
		if _, err := path.Match(pattern, ""); err != nil {
			return err
		}
	}
	for _, allowed := range tp.Allow {
		if allowed == "*" {
			hasAllowWildcard = true
		}
	}
	for _, denied := range tp.Deny {
		if denied == "*" {
			hasDenyWildcard = true
		}
	}

	if hasAllowWildcard && hasDenyWildcard {
		log.Warn().Msg("Policy has both allow and deny wildcards - deny will override allow")
	}
	if len(tp.Allow) == 0 {
		log.Warn().Msg("Policy has empty allow list - all tools will be denied by default")
	}

	return nil
}

// Filter returns the names allowed by the policy, preserving order
func (tp *ToolPolicy) Filter(tools []string) []string {
	if tp == nil {
		return tools
	}

	filtered := []string{}
	for _, tool := range tools {
		if tp.IsToolAllowed(tool) {
			filtered = append(filtered, tool)
		}
	}
	return filtered
}

func matchesPattern(pattern, name string) bool {
	if pattern == "*" || pattern == name {
		return true
	}
	ok, err := path.Match(pattern, name)
	return err == nil && ok
}
