package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kingrea/truthweb/internal/catalog"
	"github.com/kingrea/truthweb/internal/consistency"
	"github.com/kingrea/truthweb/internal/survey"
)

// errInconsistent makes `check` exit non-zero when answers conflict.
var errInconsistent = errors.New("answers are inconsistent")

func (c *cli) setsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sets",
		Short: "List question sets and how far each has been answered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.open()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SET\tSTATUS\tANSWERED")
			for _, name := range ws.catalog.Names() {
				set, err := ws.catalog.Get(name)
				if err != nil {
					return err
				}
				records, err := ws.store.Load(name)
				if err != nil {
					return err
				}
				kept, _ := records.Prune(set)
				fmt.Fprintf(tw, "%s\t%s\t%d/%d\n", name, survey.ProgressOf(set, records), len(kept), set.Len())
			}
			return tw.Flush()
		},
	}
}

// checkReport is the --json shape of `check`.
type checkReport struct {
	Set            string             `json:"set"`
	Answered       int                `json:"answered"`
	Total          int                `json:"total"`
	Consistent     bool               `json:"consistent"`
	Contradictions []consistency.Edge `json:"contradictions"`
	Requirements   []consistency.Edge `json:"unmet_requirements"`
	Satisfied      []consistency.Edge `json:"met_requirements"`
}

func (c *cli) checkCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "check <set>",
		Short: "Report contradictions and unmet requirements in the stored answers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.open()
			if err != nil {
				return err
			}
			session, err := ws.session(args[0])
			if err != nil {
				return err
			}
			state := session.Evaluate()
			set := session.Set()
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(checkReport{
					Set:            set.Name,
					Answered:       session.Answered(),
					Total:          set.Len(),
					Consistent:     state.Consistent(),
					Contradictions: state.Contradictions,
					Requirements:   state.Requirements,
					Satisfied:      state.Satisfied,
				}); err != nil {
					return err
				}
			} else {
				printState(cmd, set, session.Answered(), state)
			}
			if !state.Consistent() {
				return fmt.Errorf("%w: %d violation(s)", errInconsistent, state.Violations())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func printState(cmd *cobra.Command, set catalog.QuestionSet, answered int, state consistency.State) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s · %d/%d answered\n", set.Name, answered, set.Len())
	if state.Consistent() {
		fmt.Fprintln(out, "No contradictions found.")
		return
	}
	for _, edge := range state.Contradictions {
		fmt.Fprintf(out, "%s ✗ %s  contradiction\n", set.Label(edge.From), set.Label(edge.To))
	}
	for _, edge := range state.Requirements {
		fmt.Fprintf(out, "%s → %s  requirement not met\n", set.Label(edge.From), set.Label(edge.To))
	}
}

func (c *cli) answerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "answer <set> <question> <agree|disagree>",
		Short: "Record or revise one answer; the question is an id (q3) or a label (Q3)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := parseAgreement(args[2])
			if err != nil {
				return err
			}
			ws, err := c.open()
			if err != nil {
				return err
			}
			session, err := ws.session(args[0])
			if err != nil {
				return err
			}
			set := session.Set()
			id, err := resolveQuestion(set, args[1])
			if err != nil {
				return err
			}
			if err := session.SetAnswer(id, value); err != nil {
				return err
			}
			word := "Disagree"
			if value {
				word = "Agree"
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s set to %s\n", set.Label(id), word)
			for _, other := range session.Conflicts(id) {
				fmt.Fprintf(out, "%s contradicts %s\n", set.Label(id), set.Label(other))
			}
			return nil
		},
	}
}

func (c *cli) restartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restart <set>",
		Short: "Clear every stored answer of a question set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.open()
			if err != nil {
				return err
			}
			session, err := ws.session(args[0])
			if err != nil {
				return err
			}
			if err := session.Restart(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared answers for %s\n", session.Set().Name)
			return nil
		},
	}
}

func parseAgreement(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "agree", "a", "yes", "y", "true":
		return true, nil
	case "disagree", "d", "no", "n", "false":
		return false, nil
	default:
		return false, fmt.Errorf("answer must be agree or disagree, got %q", value)
	}
}

// resolveQuestion accepts a question id or its 1-based label.
func resolveQuestion(set catalog.QuestionSet, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if set.Has(ref) {
		return ref, nil
	}
	if len(ref) > 1 && (ref[0] == 'Q' || ref[0] == 'q') {
		if n, err := strconv.Atoi(ref[1:]); err == nil && n >= 1 && n <= set.Len() {
			return set.Questions[n-1].ID, nil
		}
	}
	return "", fmt.Errorf("%w: %s", survey.ErrUnknownQuestion, ref)
}
