package contextstate

import "slices"

// InclusionReason records why a file or directory is part of the context.
// An entity can carry several reasons at once.
type InclusionReason interface {
	isInclusionReason()
}

// ExplicitReason means the user asked for the path directly.
type ExplicitReason struct{}

func (ExplicitReason) isInclusionReason() {}

// ToolUseReason means a tool call referenced the path.
type ToolUseReason struct {
	ToolUseID string
}

func (ToolUseReason) isInclusionReason() {}

// EditorReason means the editor reported the path. At most one per entity.
type EditorReason struct {
	CurrentlyOpen bool
}

func (EditorReason) isInclusionReason() {}

// Explicit returns an ExplicitReason.
func Explicit() InclusionReason { return ExplicitReason{} }

// ToolUse returns a ToolUseReason for id.
func ToolUse(id string) InclusionReason { return ToolUseReason{ToolUseID: id} }

// Editor returns an EditorReason.
func Editor(currentlyOpen bool) InclusionReason { return EditorReason{CurrentlyOpen: currentlyOpen} }

// mergeReason returns reasons with r merged in. The input slice is never
// modified, so previously handed out snapshots stay valid.
func mergeReason(reasons []InclusionReason, r InclusionReason) []InclusionReason {
	switch r := r.(type) {
	case ExplicitReason:
		if slices.ContainsFunc(reasons, isExplicit) {
			return reasons
		}
	case ToolUseReason:
		if slices.Contains(reasons, InclusionReason(r)) {
			return reasons
		}
	case EditorReason:
		if i := slices.IndexFunc(reasons, isEditor); i >= 0 {
			if reasons[i] == InclusionReason(r) {
				return reasons
			}
			merged := slices.Clone(reasons)
			merged[i] = r
			return merged
		}
	}
	return append(slices.Clip(reasons), r)
}

func isExplicit(r InclusionReason) bool {
	_, ok := r.(ExplicitReason)
	return ok
}

func isEditor(r InclusionReason) bool {
	_, ok := r.(EditorReason)
	return ok
}

// ShouldInclude reports whether any reason makes the entity visible.
// Tool-use reasons count only while their id is in visibleToolUses.
func ShouldInclude(reasons []InclusionReason, visibleToolUses []string) bool {
	for _, reason := range reasons {
		switch r := reason.(type) {
		case ExplicitReason:
			return true
		case ToolUseReason:
			if slices.Contains(visibleToolUses, r.ToolUseID) {
				return true
			}
		case EditorReason:
			if r.CurrentlyOpen {
				return true
			}
		}
	}
	return false
}

// ShouldIncludeFile applies ShouldInclude to a file.
func ShouldIncludeFile(f ContextFile, visibleToolUses []string) bool {
	return ShouldInclude(f.InclusionReasons, visibleToolUses)
}

// ShouldIncludeDirectory applies ShouldInclude to a directory.
func ShouldIncludeDirectory(d ContextDirectory, visibleToolUses []string) bool {
	return ShouldInclude(d.InclusionReasons, visibleToolUses)
}
