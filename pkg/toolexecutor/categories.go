package toolexecutor

import (
	"sort"
	"strings"
)

// UncategorizedCategory groups tools whose schema declares no category
const UncategorizedCategory = "general"

func categoryOf(t Tool) string {
	category := strings.TrimSpace(t.Schema().Category)
	if category == "" {
		return UncategorizedCategory
	}
	return category
}

// Categories returns the distinct categories of registered tools, sorted
func (te *ToolExecutor) Categories() []string {
	te.mu.RLock()
	defer te.mu.RUnlock()

	seen := make(map[string]bool)
	categories := []string{}
	for _, tool := range te.tools {
		category := categoryOf(tool)
		if !seen[category] {
			seen[category] = true
			categories = append(categories, category)
		}
	}
	sort.Strings(categories)
	return categories
}

// ToolsByCategory returns sorted names of tools in a category.
// Matching ignores case.
func (te *ToolExecutor) ToolsByCategory(category string) []string {
	te.mu.RLock()
	defer te.mu.RUnlock()

	filtered := []string{}
	for name, tool := range te.tools {
		if strings.EqualFold(categoryOf(tool), strings.TrimSpace(category)) {
			filtered = append(filtered, name)
		}
	}
	sort.Strings(filtered)
	return filtered
}
