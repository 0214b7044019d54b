package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"sentinel-portal/memo"
)

var (
	labelStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	bulletStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	emptyStyle  = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("240"))
)

type options struct {
	kind    string
	format  string
	bullets bool
	raw     bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "parse-memo [file]",
		Short: "Split a decision memo into labeled sections",
		Long: `Reads a compliance or advisory memo from a file (or stdin) and prints the
sections the portal would display.

Examples:
  parse-memo legal_opinion.txt
  parse-memo --kind advisory --bullets wealth_plan.txt
  cat memo.txt | parse-memo --format json --raw`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.kind, "kind", "k", string(memo.KindCompliance), "memo kind (compliance, advisory)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "output format (text, json, yaml)")
	cmd.Flags().BoolVar(&opts.bullets, "bullets", false, "split Recommendation content into bullets")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "print extracted sections without projection")

	return cmd
}

func run(cmd *cobra.Command, args []string, opts *options) error {
	kind, err := memo.ParseKind(opts.kind)
	if err != nil {
		return fmt.Errorf("--kind %q: %w", opts.kind, err)
	}

	text, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	var result any
	if opts.raw {
		result = memo.Extract(text, kind)
	} else {
		result = memo.Render(text, kind, opts.bullets)
	}

	out := cmd.OutOrStdout()
	switch opts.format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(result)
	case "text":
		if opts.raw {
			return writeText(out, kind, toRendered(result.([]memo.Section)))
		}
		return writeText(out, kind, result.([]memo.Rendered))
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", opts.format)
	}
}

func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		b, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to read memo: %w", err)
		}
		return string(b), nil
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(b), nil
}

func toRendered(sections []memo.Section) []memo.Rendered {
	out := make([]memo.Rendered, 0, len(sections))
	for _, s := range sections {
		out = append(out, memo.Rendered{Label: s.Label, Content: s.Content})
	}
	return out
}

func writeText(w io.Writer, kind memo.Kind, sections []memo.Rendered) error {
	if len(sections) == 0 {
		_, err := fmt.Fprintln(w, emptyStyle.Render(memo.EmptyText(kind)))
		return err
	}

	var b strings.Builder
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(labelStyle.Render(string(s.Label) + ":"))
		if len(s.Bullets) == 0 {
			b.WriteString(" " + s.Content + "\n")
			continue
		}
		b.WriteString("\n")
		for _, line := range s.Bullets {
			b.WriteString(bulletStyle.Render("  • ") + line + "\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
