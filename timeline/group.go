package timeline

// AnnotateGroups walks a render sequence and marks the first item of each
// contiguous same-role span. Consecutive assistant-side items (text,
// reasoning, tool calls) share one avatar; a user item always starts a new
// group. Operates in place on the slice the caller owns.
func AnnotateGroups(items []Item) {
	for i := range items {
		items[i].FirstOfGroup = i == 0 || items[i].Class.Role != items[i-1].Class.Role
	}
}
