package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/truthweb/internal/catalog"
	"github.com/kingrea/truthweb/internal/survey"
	"github.com/kingrea/truthweb/internal/truthweb"
)

const (
	maxCanvasWidth     = 80
	defaultCanvasLines = 20
)

func (a *App) renderQuestion(width int) string {
	set := a.session.Set()
	q, ok := a.session.Current()
	if !ok {
		return "All questions answered."
	}
	idx, total := a.session.Position()
	title := titleStyle.Render(fmt.Sprintf("%s · Question %d of %d", set.Name, idx+1, total))
	text := lipgloss.NewStyle().Bold(true).Width(max(20, width)).Render(q.Text)
	progress := mutedStyle.Render(fmt.Sprintf("%d of %d answered", a.session.Answered(), total))
	hint := hintStyle.Render("a/y → Agree    d/n → Disagree    esc → home")
	return lipgloss.JoinVertical(lipgloss.Left, title, "", text, "", progress, hint)
}

func (a *App) renderResults() string {
	set := a.session.Set()
	state := a.session.Evaluate()
	lines := []string{titleStyle.Render(fmt.Sprintf("%s · Results", set.Name)), ""}
	for _, q := range set.Questions {
		lines = append(lines, fmt.Sprintf("%-4s %s  %s", set.Label(q.ID), a.answerMark(q.ID), q.Text))
	}
	lines = append(lines, "")
	if len(state.Contradictions) == 0 {
		lines = append(lines, agreeStyle.Render("No contradictions found."))
	} else {
		lines = append(lines, conflictStyle.Render(fmt.Sprintf("Contradictions (%d)", len(state.Contradictions))))
		for _, edge := range state.Contradictions {
			lines = append(lines, fmt.Sprintf("  %s ✗ %s  %s / %s",
				set.Label(edge.From), set.Label(edge.To), questionText(set, edge.From), questionText(set, edge.To)))
		}
	}
	if len(state.Requirements) > 0 {
		lines = append(lines, "", unmetStyle.Render(fmt.Sprintf("Unmet requirements (%d)", len(state.Requirements))))
		for _, edge := range state.Requirements {
			lines = append(lines, fmt.Sprintf("  %s requires %s  %s", set.Label(edge.From), set.Label(edge.To), questionText(set, edge.To)))
		}
	}
	hint := hintStyle.Render("w → TruthWeb    x → resolve    r → restart    h → home")
	return lipgloss.JoinVertical(lipgloss.Left, strings.Join(lines, "\n"), hint)
}

func (a *App) answerMark(id string) string {
	value, ok := a.session.Answer(id)
	switch {
	case !ok:
		return mutedStyle.Render("·  -        ")
	case value:
		return agreeStyle.Render("✓  Agree   ")
	default:
		return disagreeStyle.Render("✗  Disagree")
	}
}

func (a *App) renderWeb(width int) string {
	set := a.session.Set()
	graph := truthweb.Build(set, a.session.Answers(), a.session.Evaluate())
	lines := defaultCanvasLines
	if a.height > 0 {
		lines = max(12, a.height-24)
	}
	canvas := truthweb.Render(graph, truthweb.RenderOptions{
		Width:    min(max(20, width), maxCanvasWidth),
		Height:   lines,
		Selected: a.webSelected,
	})
	title := titleStyle.Render(fmt.Sprintf("TruthWeb · %s", set.Name))
	summary := mutedStyle.Render(fmt.Sprintf("%d contradiction(s) · %d requirement(s) met · %d unmet",
		graph.Count(truthweb.EdgeContradiction), graph.Count(truthweb.EdgeRequirement), graph.Count(truthweb.EdgeUnmet)))
	hint := hintStyle.Render("←/→ → select    x → resolve    esc → results    h → home")
	return lipgloss.JoinVertical(lipgloss.Left,
		title, summary, "", canvas, "",
		truthweb.Details(graph, a.webSelected), "",
		truthweb.Legend(), hint)
}

func (a *App) renderResolve(width int) string {
	f := a.flow
	if f == nil {
		return "Nothing left to resolve."
	}
	set := a.session.Set()
	edge, ok := f.Conflict()
	if !ok {
		return "Nothing left to resolve."
	}
	pos, total := f.Position()
	heading := fmt.Sprintf("Resolve · contradiction %d of %d", pos+1, total)
	if focus := f.Focus(); focus != "" {
		heading += " involving " + set.Label(focus)
	}
	wrap := lipgloss.NewStyle().Width(max(20, width))
	var body []string
	var hint string
	switch f.Phase() {
	case survey.PhaseAwaitingResolution:
		id := f.Selected()
		body = []string{
			fmt.Sprintf("Revise %s", set.Label(id)),
			wrap.Bold(true).Render(questionText(set, id)),
			mutedStyle.Render("Currently: " + a.answerWord(id)),
		}
		hint = "a/y → Agree    d/n → Disagree    esc → back"
	default:
		body = []string{
			"You agreed with both of these:",
			wrap.Render(fmt.Sprintf("[1] %s  %s", set.Label(edge.From), questionText(set, edge.From))),
			wrap.Render(fmt.Sprintf("[2] %s  %s", set.Label(edge.To), questionText(set, edge.To))),
		}
		hint = "1/2 → revise that answer    s → skip    esc → stop"
	}
	parts := append([]string{conflictStyle.Render(heading), ""}, body...)
	parts = append(parts, hintStyle.Render(hint))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (a *App) answerWord(id string) string {
	value, ok := a.session.Answer(id)
	switch {
	case !ok:
		return "Not answered"
	case value:
		return "Agree"
	default:
		return "Disagree"
	}
}

func questionText(set catalog.QuestionSet, id string) string {
	if q, ok := set.Question(id); ok {
		return q.Text
	}
	return id
}
