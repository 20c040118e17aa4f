// Package consistency evaluates a set of answers against the relations of a
// question set. Evaluation is a pure function of its inputs: nothing is
// cached between calls, so it is safe to re-run after every answer.
package consistency

import (
	"github.com/kingrea/truthweb/internal/catalog"
)

// Answers maps question ids to agree (true) / disagree (false).
// Unanswered questions are absent.
type Answers map[string]bool

// Status classifies a relation under the current answers.
type Status string

const (
	StatusInactive  Status = "inactive"
	StatusSatisfied Status = "satisfied"
	StatusViolated  Status = "violated"
)

// Edge identifies a relation by its endpoints for rendering.
type Edge struct {
	From string               `json:"from"`
	To   string               `json:"to"`
	Kind catalog.RelationKind `json:"kind"`
}

// Touches reports whether id is one of the endpoints.
func (e Edge) Touches(id string) bool {
	return e.From == id || e.To == id
}

// Other returns the endpoint opposite id. For self relations it returns id.
func (e Edge) Other(id string) string {
	if e.From == id {
		return e.To
	}
	return e.From
}

// EdgeReport pairs a relation with its status.
type EdgeReport struct {
	Edge
	Status Status `json:"status"`
}

// State is the derived consistency picture for one set of answers.
type State struct {
	// Contradictions holds contradicts relations where both sides were agreed with.
	Contradictions []Edge `json:"contradictions"`
	// Requirements holds requires relations whose source was agreed with
	// while the target was disagreed with or left unanswered.
	Requirements []Edge `json:"requirements"`
	// Satisfied holds requires relations with both sides agreed.
	Satisfied []Edge `json:"satisfied"`
	// Reports lists every relation of the set in catalog order.
	Reports []EdgeReport `json:"reports"`
}

// Consistent reports whether no relation is violated.
func (s State) Consistent() bool {
	return len(s.Contradictions) == 0 && len(s.Requirements) == 0
}

// Violations returns the number of violated relations.
func (s State) Violations() int {
	return len(s.Contradictions) + len(s.Requirements)
}

// Involving returns the violated edges that touch id.
func (s State) Involving(id string) []Edge {
	var out []Edge
	for _, edge := range s.Contradictions {
		if edge.Touches(id) {
			out = append(out, edge)
		}
	}
	for _, edge := range s.Requirements {
		if edge.Touches(id) {
			out = append(out, edge)
		}
	}
	return out
}

// Evaluate classifies every relation of set under answers. Answers for ids
// outside the set are ignored. A contradiction declared in both directions,
// or any relation declared twice, is evaluated once at its first occurrence.
func Evaluate(set catalog.QuestionSet, answers Answers) State {
	state := State{
		Contradictions: []Edge{},
		Requirements:   []Edge{},
		Satisfied:      []Edge{},
		Reports:        make([]EdgeReport, 0, len(set.Relations)),
	}
	seen := make(map[Edge]struct{}, len(set.Relations))
	for _, rel := range set.Relations {
		edge := Edge{From: rel.From, To: rel.To, Kind: rel.Kind}
		key := edge
		if rel.Kind == catalog.Contradicts && key.To < key.From {
			key.From, key.To = key.To, key.From
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		status := classify(rel, answers)
		switch {
		case status == StatusViolated && rel.Kind == catalog.Contradicts:
			state.Contradictions = append(state.Contradictions, edge)
		case status == StatusViolated && rel.Kind == catalog.Requires:
			state.Requirements = append(state.Requirements, edge)
		case status == StatusSatisfied && rel.Kind == catalog.Requires:
			state.Satisfied = append(state.Satisfied, edge)
		}
		state.Reports = append(state.Reports, EdgeReport{Edge: edge, Status: status})
	}
	return state
}

func classify(rel catalog.Relation, answers Answers) Status {
	from, fromOK := answers[rel.From]
	to, toOK := answers[rel.To]
	switch rel.Kind {
	case catalog.Contradicts:
		if !fromOK || !toOK {
			return StatusInactive
		}
		if from && to {
			return StatusViolated
		}
		return StatusSatisfied
	case catalog.Requires:
		// A disagreed or unanswered source places no constraint on the target.
		if !fromOK || !from {
			return StatusInactive
		}
		if toOK && to {
			return StatusSatisfied
		}
		return StatusViolated
	default:
		return StatusInactive
	}
}

// ConflictsInvolving returns the questions that currently contradict id,
// in catalog order and without duplicates. A violated self-contradiction
// yields id itself.
func ConflictsInvolving(set catalog.QuestionSet, id string, answers Answers) []string {
	if !set.Has(id) {
		return nil
	}
	conflicting := map[string]struct{}{}
	for _, edge := range Evaluate(set, answers).Contradictions {
		if edge.Touches(id) {
			conflicting[edge.Other(id)] = struct{}{}
		}
	}
	if len(conflicting) == 0 {
		return nil
	}
	out := make([]string, 0, len(conflicting))
	for _, q := range set.Questions {
		if _, ok := conflicting[q.ID]; ok {
			out = append(out, q.ID)
		}
	}
	return out
}
