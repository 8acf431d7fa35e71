// Command journey replays questionnaire routing and eligibility against a
// set of answers read from a JSON or YAML file.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"helptoheat/internal/eligibility"
	q "helptoheat/internal/questionnaire"
	"helptoheat/internal/routing"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	answersPath string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "journey",
		Short:        "Inspect questionnaire routing for a set of answers",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.answersPath, "answers", "a", "-", "Answers file (JSON or YAML), - for stdin")

	root.AddCommand(
		newNextCmd(opts),
		newPrevCmd(opts),
		newPathCmd(opts),
		newEligibilityCmd(opts),
		newSummaryCmd(opts),
	)
	return root
}

func newNextCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "next <page>",
		Short: "Print the page after <page>",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, answers, err := pageAndAnswers(cmd, opts, args[0])
			if err != nil {
				return err
			}
			next := routing.NextPage(page, answers)
			if next == q.PageUnknown {
				return fmt.Errorf("no page follows %s for these answers", page)
			}
			return writeJSON(cmd.OutOrStdout(), map[string]q.Page{"page": next})
		},
	}
}

func newPrevCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "prev <page>",
		Short: "Print the page before <page>",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, answers, err := pageAndAnswers(cmd, opts, args[0])
			if err != nil {
				return err
			}
			prev := routing.PrevPage(page, answers)
			if prev == q.PageUnknown {
				return fmt.Errorf("%s is not reachable with these answers", page)
			}
			return writeJSON(cmd.OutOrStdout(), map[string]q.Page{"page": prev})
		},
	}
}

func newPathCmd(opts *options) *cobra.Command {
	var to, from string
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print every page from --from to --to",
		RunE: func(cmd *cobra.Command, _ []string) error {
			target, answers, err := pageAndAnswers(cmd, opts, to)
			if err != nil {
				return err
			}
			var start q.Page
			if from != "" {
				if start = q.ParsePage(from); start == q.PageUnknown {
					return fmt.Errorf("unknown page %q", from)
				}
			}
			journey, err := routing.CalculateJourney(answers, target, start)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string][]q.Page{"journey": journey})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Target page")
	cmd.Flags().StringVar(&from, "from", "", "First page (default start_page)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newEligibilityCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "eligibility",
		Short: "Print the schemes the answers qualify for",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			answers, err := loadAnswers(cmd, opts)
			if err != nil {
				return err
			}
			schemes := eligibility.Calculate(answers)
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"eligible": len(schemes) > 0,
				"schemes":  eligibility.Strings(schemes),
			})
		},
	}
}

func newSummaryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print the answer summary lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			answers, err := loadAnswers(cmd, opts)
			if err != nil {
				return err
			}
			lines := q.Summary(answers)
			if lines == nil {
				lines = []q.SummaryLine{}
			}
			return writeJSON(cmd.OutOrStdout(), map[string][]q.SummaryLine{"summary": lines})
		},
	}
}

func pageAndAnswers(cmd *cobra.Command, opts *options, name string) (q.Page, q.Answers, error) {
	page := q.ParsePage(name)
	if page == q.PageUnknown {
		return "", nil, fmt.Errorf("unknown page %q", name)
	}
	answers, err := loadAnswers(cmd, opts)
	if err != nil {
		return "", nil, err
	}
	return page, answers, nil
}

// loadAnswers accepts YAML, which covers JSON input too.
func loadAnswers(cmd *cobra.Command, opts *options) (q.Answers, error) {
	var r io.Reader = cmd.InOrStdin()
	if opts.answersPath != "-" {
		f, err := os.Open(opts.answersPath)
		if err != nil {
			return nil, fmt.Errorf("open answers: %w", err)
		}
		defer f.Close()
		r = f
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}
	answers := q.Answers{}
	if err := yaml.Unmarshal(raw, &answers); err != nil {
		return nil, fmt.Errorf("parse answers: %w", err)
	}
	return answers, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
