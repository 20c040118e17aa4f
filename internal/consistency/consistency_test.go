package consistency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/truthweb/internal/catalog"
)

func testSet(t *testing.T) catalog.QuestionSet {
	t.Helper()
	set, err := catalog.QuestionSet{
		Name: "Test",
		Questions: []catalog.Question{
			{ID: "a", Text: "A"},
			{ID: "b", Text: "B"},
			{ID: "c", Text: "C"},
			{ID: "d", Text: "D"},
		},
		Relations: []catalog.Relation{
			{From: "a", To: "b", Kind: catalog.Contradicts},
			{From: "b", To: "a", Kind: catalog.Contradicts},
			{From: "c", To: "b", Kind: catalog.Contradicts},
			{From: "d", To: "a", Kind: catalog.Requires},
		},
	}.Normalized()
	require.NoError(t, err)
	return set
}

func TestEvaluateEmptyAnswers(t *testing.T) {
	state := Evaluate(testSet(t), Answers{})
	assert.True(t, state.Consistent())
	assert.Empty(t, state.Contradictions)
	assert.Empty(t, state.Requirements)
	for _, report := range state.Reports {
		assert.Equal(t, StatusInactive, report.Status)
	}
}

func TestEvaluateContradictionReportedOnce(t *testing.T) {
	state := Evaluate(testSet(t), Answers{"a": true, "b": true})
	assert.Equal(t, []Edge{{From: "a", To: "b", Kind: catalog.Contradicts}}, state.Contradictions)
	assert.Equal(t, 1, state.Violations())
}

func TestEvaluateMirroredContradictionWithoutNormalizing(t *testing.T) {
	set := catalog.QuestionSet{
		Name:      "Raw",
		Questions: []catalog.Question{{ID: "a", Text: "A"}, {ID: "b", Text: "B"}},
		Relations: []catalog.Relation{
			{From: "a", To: "b", Kind: catalog.Contradicts},
			{From: "b", To: "a", Kind: catalog.Contradicts},
			{From: "a", To: "b", Kind: catalog.Contradicts},
		},
	}
	state := Evaluate(set, Answers{"a": true, "b": true})
	assert.Equal(t, []Edge{{From: "a", To: "b", Kind: catalog.Contradicts}}, state.Contradictions)
	assert.Len(t, state.Reports, 1)
	assert.Equal(t, []string{"b"}, ConflictsInvolving(set, "a", Answers{"a": true, "b": true}))
}

func TestEvaluateContradictionNeedsBothAgreed(t *testing.T) {
	for _, answers := range []Answers{
		{"a": true, "b": false},
		{"a": false, "b": false},
		{"a": true},
	} {
		state := Evaluate(testSet(t), answers)
		assert.Empty(t, state.Contradictions, "answers %v", answers)
	}
	state := Evaluate(testSet(t), Answers{"a": true, "b": false})
	assert.Equal(t, StatusSatisfied, state.Reports[0].Status)
}

func TestEvaluateRequirement(t *testing.T) {
	set := testSet(t)
	requires := Edge{From: "d", To: "a", Kind: catalog.Requires}

	state := Evaluate(set, Answers{"d": true})
	assert.Equal(t, []Edge{requires}, state.Requirements, "unanswered target violates")

	state = Evaluate(set, Answers{"d": true, "a": false})
	assert.Equal(t, []Edge{requires}, state.Requirements, "disagreed target violates")

	state = Evaluate(set, Answers{"d": true, "a": true})
	assert.Empty(t, state.Requirements)
	assert.Equal(t, []Edge{requires}, state.Satisfied)
}

func TestEvaluateRequirementIgnoresDisagreedSource(t *testing.T) {
	state := Evaluate(testSet(t), Answers{"d": false, "a": false})
	assert.Empty(t, state.Requirements)
	assert.Empty(t, state.Satisfied)
	assert.Equal(t, StatusInactive, state.Reports[len(state.Reports)-1].Status)
}

func TestEvaluateIgnoresOrphans(t *testing.T) {
	state := Evaluate(testSet(t), Answers{"zz": true, "yy": true})
	assert.True(t, state.Consistent())
}

func TestEvaluateIsPure(t *testing.T) {
	set := testSet(t)
	answers := Answers{"a": true, "b": true, "c": true, "d": true}
	first := Evaluate(set, answers)
	Evaluate(set, Answers{"a": false})
	second := Evaluate(set, answers)
	assert.Equal(t, first, second)
	assert.Equal(t, Answers{"a": true, "b": true, "c": true, "d": true}, answers, "inputs untouched")
}

func TestEvaluateSelfRelations(t *testing.T) {
	set, err := catalog.QuestionSet{
		Name:      "Self",
		Questions: []catalog.Question{{ID: "a", Text: "A"}},
		Relations: []catalog.Relation{
			{From: "a", To: "a", Kind: catalog.Contradicts},
			{From: "a", To: "a", Kind: catalog.Requires},
		},
	}.Normalized()
	require.NoError(t, err)

	state := Evaluate(set, Answers{"a": true})
	assert.Len(t, state.Contradictions, 1)
	assert.Empty(t, state.Requirements)
	assert.Len(t, state.Satisfied, 1)
	assert.Equal(t, []string{"a"}, ConflictsInvolving(set, "a", Answers{"a": true}))

	state = Evaluate(set, Answers{"a": false})
	assert.True(t, state.Consistent())
}

func TestConflictsInvolvingOrderedByCatalog(t *testing.T) {
	set := testSet(t)
	answers := Answers{"a": true, "b": true, "c": true}
	assert.Equal(t, []string{"a", "c"}, ConflictsInvolving(set, "b", answers))
	assert.Equal(t, []string{"b"}, ConflictsInvolving(set, "a", answers))
	assert.Nil(t, ConflictsInvolving(set, "d", answers))
	assert.Nil(t, ConflictsInvolving(set, "unknown", answers))
}

func TestStateInvolving(t *testing.T) {
	state := Evaluate(testSet(t), Answers{"a": true, "b": true, "d": true})
	assert.Len(t, state.Involving("a"), 1)
	assert.Len(t, state.Involving("d"), 1)
	assert.Empty(t, state.Involving("c"))
}

func TestEvaluateBuiltinSet(t *testing.T) {
	c, err := catalog.Builtin()
	require.NoError(t, err)
	set, err := c.Get("Superheroes")
	require.NoError(t, err)

	state := Evaluate(set, Answers{"q1": true, "q2": true, "q7": true, "q6": true})
	assert.Len(t, state.Contradictions, 2)
	assert.Equal(t, []Edge{{From: "q6", To: "q1", Kind: catalog.Requires}}, state.Satisfied)
	assert.Equal(t, []string{"q2", "q7"}, ConflictsInvolving(set, "q1", Answers{"q1": true, "q2": true, "q7": true}))
}
