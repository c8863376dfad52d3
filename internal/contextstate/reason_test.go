package contextstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeReason(t *testing.T) {
	t.Run("Explicit is idempotent", func(t *testing.T) {
		var reasons []InclusionReason
		for range 5 {
			reasons = mergeReason(reasons, Explicit())
		}
		assert.Equal(t, []InclusionReason{ExplicitReason{}}, reasons)
	})

	t.Run("Distinct tool uses coexist", func(t *testing.T) {
		var reasons []InclusionReason
		reasons = mergeReason(reasons, ToolUse("id1"))
		reasons = mergeReason(reasons, ToolUse("id2"))
		reasons = mergeReason(reasons, ToolUse("id1"))

		assert.Equal(t, []InclusionReason{ToolUse("id1"), ToolUse("id2")}, reasons)
	})

	t.Run("Editor updates in place", func(t *testing.T) {
		reasons := []InclusionReason{Explicit()}
		reasons = mergeReason(reasons, Editor(true))
		reasons = mergeReason(reasons, ToolUse("a"))
		reasons = mergeReason(reasons, Editor(false))

		assert.Equal(t, []InclusionReason{Explicit(), Editor(false), ToolUse("a")}, reasons)
	})

	t.Run("Input slice is not modified", func(t *testing.T) {
		original := make([]InclusionReason, 1, 4)
		original[0] = Editor(true)

		merged := mergeReason(original, Editor(false))
		appended := mergeReason(original, Explicit())

		assert.Equal(t, Editor(true), original[0])
		assert.Equal(t, []InclusionReason{Editor(false)}, merged)
		assert.Equal(t, []InclusionReason{Editor(true), Explicit()}, appended)
		assert.Len(t, original, 1)
	})
}

func TestShouldInclude(t *testing.T) {
	tests := []struct {
		name    string
		reasons []InclusionReason
		visible []string
		want    bool
	}{
		{"Tool use not visible", []InclusionReason{ToolUse("a")}, []string{"b"}, false},
		{"Tool use visible", []InclusionReason{ToolUse("a")}, []string{"a"}, true},
		{"Explicit with nothing visible", []InclusionReason{Explicit()}, nil, true},
		{"Explicit with other visible", []InclusionReason{Explicit()}, []string{"z"}, true},
		{"Editor open", []InclusionReason{Editor(true)}, nil, true},
		{"Editor closed", []InclusionReason{Editor(false)}, nil, false},
		{"Closed editor but visible tool use", []InclusionReason{Editor(false), ToolUse("x")}, []string{"x"}, true},
		{"No reasons", nil, []string{"a"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldInclude(tt.reasons, tt.visible))
		})
	}
}

func TestShouldIncludeEntities(t *testing.T) {
	f := ContextFile{Path: "/a", InclusionReasons: []InclusionReason{ToolUse("t1")}}
	d := ContextDirectory{Path: "/d", InclusionReasons: []InclusionReason{Editor(true)}}

	assert.True(t, ShouldIncludeFile(f, []string{"t1"}))
	assert.False(t, ShouldIncludeFile(f, nil))
	assert.True(t, ShouldIncludeDirectory(d, nil))
}
