package survey

import (
	"errors"
	"testing"

	"github.com/kingrea/truthweb/internal/answers"
)

func conflictedSession(t *testing.T) *Session {
	t.Helper()
	session, err := Open(heroes(t), answers.NewMemoryStore())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	// q1 contradicts q2 and q7; q9 contradicts q10.
	for _, id := range []string{"q1", "q2", "q7", "q9", "q10"} {
		if err := session.SetAnswer(id, true); err != nil {
			t.Fatalf("set %s: %v", id, err)
		}
	}
	return session
}

func TestFlowWithoutConflictsIsResolved(t *testing.T) {
	session, err := Open(heroes(t), answers.NewMemoryStore())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	flow := NewFlow(session)
	if flow.Phase() != PhaseResolved {
		t.Fatalf("phase = %s, want resolved", flow.Phase())
	}
	if err := flow.Handle(Skip{}); !errors.Is(err, ErrInvalidEvent) {
		t.Fatalf("events after resolution should be rejected, got %v", err)
	}
}

func TestFlowResolvesAllContradictions(t *testing.T) {
	session := conflictedSession(t)
	flow := NewFlow(session)
	if flow.Phase() != PhasePresenting {
		t.Fatalf("phase = %s, want presenting", flow.Phase())
	}
	if _, total := flow.Position(); total != 3 {
		t.Fatalf("open conflicts = %d, want 3", total)
	}

	// Disagreeing with q1 clears both of its contradictions at once.
	mustHandle(t, flow, Choose{QuestionID: "q1"})
	if flow.Phase() != PhaseAwaitingResolution || flow.Selected() != "q1" {
		t.Fatalf("expected awaiting q1, got %s/%s", flow.Phase(), flow.Selected())
	}
	mustHandle(t, flow, Answer{Value: false})
	if flow.Phase() != PhasePresenting {
		t.Fatalf("phase = %s, want presenting for q9/q10", flow.Phase())
	}
	edge, ok := flow.Conflict()
	if !ok || edge.From != "q9" || edge.To != "q10" {
		t.Fatalf("presented conflict = %+v", edge)
	}

	mustHandle(t, flow, Choose{QuestionID: "q10"})
	mustHandle(t, flow, Answer{Value: false})
	if flow.Phase() != PhaseResolved || flow.Cancelled() {
		t.Fatalf("expected resolved, got %s (cancelled=%v)", flow.Phase(), flow.Cancelled())
	}
	if flow.Revisions() != 2 {
		t.Fatalf("revisions = %d, want 2", flow.Revisions())
	}
	if !session.Evaluate().Consistent() {
		t.Fatalf("session should be consistent")
	}
}

func TestFocusedFlowStopsWhenFocusIsClear(t *testing.T) {
	session := conflictedSession(t)
	flow, err := NewFocusedFlow(session, "q2")
	if err != nil {
		t.Fatalf("new focused flow: %v", err)
	}
	if _, total := flow.Position(); total != 1 {
		t.Fatalf("focused conflicts = %d, want 1", total)
	}
	mustHandle(t, flow, Choose{QuestionID: "q2"})
	mustHandle(t, flow, Answer{Value: false})
	if flow.Phase() != PhaseResolved {
		t.Fatalf("phase = %s, want resolved", flow.Phase())
	}
	if session.Evaluate().Consistent() {
		t.Fatalf("unrelated contradictions should remain")
	}
}

func TestFlowRejectsChoosingOutsideConflict(t *testing.T) {
	flow := NewFlow(conflictedSession(t))
	if err := flow.Handle(Choose{QuestionID: "q5"}); !errors.Is(err, ErrInvalidEvent) {
		t.Fatalf("expected ErrInvalidEvent, got %v", err)
	}
	if flow.Phase() != PhasePresenting {
		t.Fatalf("invalid event must not change phase")
	}
	if err := flow.Handle(Answer{Value: true}); !errors.Is(err, ErrInvalidEvent) {
		t.Fatalf("answer before choosing should fail, got %v", err)
	}
}

func TestFlowSkipBackAndCancel(t *testing.T) {
	session := conflictedSession(t)
	flow := NewFlow(session)
	first, _ := flow.Conflict()
	mustHandle(t, flow, Skip{})
	second, _ := flow.Conflict()
	if first == second {
		t.Fatalf("skip should present a different conflict")
	}
	mustHandle(t, flow, Choose{QuestionID: second.From})
	mustHandle(t, flow, Back{})
	if flow.Phase() != PhasePresenting || flow.Selected() != "" {
		t.Fatalf("back should return to presenting")
	}
	mustHandle(t, flow, Cancel{})
	if flow.Phase() != PhaseResolved || !flow.Cancelled() {
		t.Fatalf("cancel should resolve as cancelled")
	}
	if session.Evaluate().Consistent() {
		t.Fatalf("cancel must not change answers")
	}
}

func TestNewFocusedFlowUnknownQuestion(t *testing.T) {
	if _, err := NewFocusedFlow(conflictedSession(t), "nope"); !errors.Is(err, ErrUnknownQuestion) {
		t.Fatalf("expected ErrUnknownQuestion, got %v", err)
	}
}

func mustHandle(t *testing.T, flow *Flow, ev Event) {
	t.Helper()
	if err := flow.Handle(ev); err != nil {
		t.Fatalf("handle %T: %v", ev, err)
	}
}
