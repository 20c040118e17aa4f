package survey

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/kingrea/truthweb/internal/consistency"
)

// Phase is the state of a resolution flow.
type Phase string

const (
	// PhasePresenting shows a contradicting pair and waits for the user to
	// pick which side to revise.
	PhasePresenting Phase = "presenting"
	// PhaseAwaitingResolution waits for a new answer to the chosen question.
	PhaseAwaitingResolution Phase = "awaiting_resolution"
	// PhaseResolved is terminal.
	PhaseResolved Phase = "resolved"
)

// ErrInvalidEvent is returned when an event does not apply to the current phase.
var ErrInvalidEvent = errors.New("survey: event not valid in this phase")

// Event is an input to a resolution Flow.
type Event interface {
	event()
}

// Choose selects which side of the presented conflict to revise.
type Choose struct {
	QuestionID string
}

// Answer gives the new answer for the chosen question.
type Answer struct {
	Value bool
}

// Skip moves on to the next conflict without changing anything.
type Skip struct{}

// Back returns from answering to the conflict view.
type Back struct{}

// Cancel ends the flow leaving any remaining conflicts in place.
type Cancel struct{}

func (Choose) event() {}
func (Answer) event() {}
func (Skip) event()   {}
func (Back) event()   {}
func (Cancel) event() {}

// Flow walks the user through contradicting answers one pair at a time.
// Each revision re-evaluates the session, so the conflict list always
// reflects the current answers.
type Flow struct {
	id        string
	session   *Session
	focus     string
	phase     Phase
	conflicts []consistency.Edge
	index     int
	selected  string
	cancelled bool
	revisions int
}

// NewFlow starts a flow over every violated contradiction of the session.
func NewFlow(s *Session) *Flow {
	f := &Flow{id: uuid.NewString(), session: s}
	f.start()
	return f
}

// NewFocusedFlow starts a flow over the contradictions involving id. It
// resolves as soon as none of them remain, even if unrelated ones do.
func NewFocusedFlow(s *Session, id string) (*Flow, error) {
	if !s.Set().Has(id) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownQuestion, id)
	}
	f := &Flow{id: uuid.NewString(), session: s, focus: id}
	f.start()
	return f, nil
}

func (f *Flow) start() {
	scope := "all contradictions"
	if f.focus != "" {
		scope = "contradictions of " + f.session.Set().Label(f.focus)
	}
	f.session.log.Info("Resolve %s · %s in %s: %d open", f.short(), scope, f.session.Set().Name, len(f.open()))
	f.refresh()
}

func (f *Flow) short() string {
	if len(f.id) > 8 {
		return f.id[:8]
	}
	return f.id
}

// ID returns the flow's run identifier.
func (f *Flow) ID() string {
	return f.id
}

// Phase returns the current phase.
func (f *Flow) Phase() Phase {
	return f.phase
}

// Focus returns the question the flow is scoped to, if any.
func (f *Flow) Focus() string {
	return f.focus
}

// Conflict returns the contradiction currently presented.
func (f *Flow) Conflict() (consistency.Edge, bool) {
	if f.phase == PhaseResolved || len(f.conflicts) == 0 {
		return consistency.Edge{}, false
	}
	return f.conflicts[f.index], true
}

// Position returns the zero-based index of the presented conflict and how
// many are open.
func (f *Flow) Position() (int, int) {
	return f.index, len(f.conflicts)
}

// Selected returns the question chosen for revision while awaiting an answer.
func (f *Flow) Selected() string {
	return f.selected
}

// Cancelled reports whether the flow ended on a Cancel event.
func (f *Flow) Cancelled() bool {
	return f.cancelled
}

// Revisions returns how many answers were changed through this flow.
func (f *Flow) Revisions() int {
	return f.revisions
}

// Handle applies an event. Invalid events leave the flow unchanged.
func (f *Flow) Handle(ev Event) error {
	if f.phase == PhaseResolved {
		return fmt.Errorf("%w: flow already resolved", ErrInvalidEvent)
	}
	switch ev := ev.(type) {
	case Cancel:
		f.cancelled = true
		f.finish()
		return nil
	case Choose:
		if f.phase != PhasePresenting {
			return fmt.Errorf("%w: choose while %s", ErrInvalidEvent, f.phase)
		}
		edge, _ := f.Conflict()
		if !edge.Touches(ev.QuestionID) {
			return fmt.Errorf("%w: %s is not part of the presented conflict", ErrInvalidEvent, ev.QuestionID)
		}
		f.selected = ev.QuestionID
		f.phase = PhaseAwaitingResolution
		return nil
	case Skip:
		if f.phase != PhasePresenting {
			return fmt.Errorf("%w: skip while %s", ErrInvalidEvent, f.phase)
		}
		f.index = (f.index + 1) % len(f.conflicts)
		return nil
	case Back:
		if f.phase != PhaseAwaitingResolution {
			return fmt.Errorf("%w: back while %s", ErrInvalidEvent, f.phase)
		}
		f.selected = ""
		f.phase = PhasePresenting
		return nil
	case Answer:
		if f.phase != PhaseAwaitingResolution {
			return fmt.Errorf("%w: answer while %s", ErrInvalidEvent, f.phase)
		}
		if err := f.session.SetAnswer(f.selected, ev.Value); err != nil {
			return err
		}
		f.revisions++
		f.session.log.Info("Resolve %s · %s set to %s", f.short(), f.session.Set().Label(f.selected), agreeWord(ev.Value))
		f.selected = ""
		f.index = 0
		f.refresh()
		return nil
	default:
		return fmt.Errorf("%w: %T", ErrInvalidEvent, ev)
	}
}

func (f *Flow) open() []consistency.Edge {
	var open []consistency.Edge
	for _, edge := range f.session.Evaluate().Contradictions {
		if f.focus == "" || edge.Touches(f.focus) {
			open = append(open, edge)
		}
	}
	return open
}

func (f *Flow) refresh() {
	open := f.open()
	f.conflicts = open
	if len(open) == 0 {
		f.finish()
		return
	}
	if f.index >= len(open) {
		f.index = 0
	}
	f.phase = PhasePresenting
}

func (f *Flow) finish() {
	if f.phase == PhaseResolved {
		return
	}
	f.phase = PhaseResolved
	f.selected = ""
	outcome := "resolved"
	if f.cancelled {
		outcome = "cancelled"
	}
	f.session.log.Info("Resolve %s · %s after %d revision(s), %d still open", f.short(), outcome, f.revisions, len(f.conflicts))
}

func agreeWord(v bool) string {
	if v {
		return "Agree"
	}
	return "Disagree"
}
