package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/panelgrid/pkg/core/diag"
	"github.com/matzehuels/panelgrid/pkg/pipeline"
)

// errInvalidLayout is returned by commands that exit non-zero on an invalid
// layout after reporting its diagnostics.
var errInvalidLayout = errors.New("layout is invalid")

// parseCommand creates the parse command.
func (c *CLI) parseCommand() *cobra.Command {
	var (
		flags   layoutFlags
		format  string
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "parse [code|-]",
		Short: "Interpret a layout code and print the resolved grid",
		Long: `Interpret a layout code and print the outcome document: the resolved
grid, validity and diagnostics.

Examples:
  panelgrid parse "aab/aac/ddd"
  panelgrid parse -f yaml "[top:ab]/cd"
  echo "ab/cd" | panelgrid parse -
  panelgrid parse --template nature_classic_5 -o figure.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != pipeline.FormatJSON && format != pipeline.FormatYAML {
				return fmt.Errorf("invalid format: %s (must be 'json' or 'yaml')", format)
			}
			code, err := c.readLayout(cmd, args, &flags)
			if err != nil {
				return err
			}
			opts := c.pipelineOptions(code, &flags)
			opts.Formats = []string{format}
			return c.runParse(cmd, opts, output, noCache)
		},
	}

	c.registerLayoutFlags(cmd, &flags)
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatJSON, "output format: json, yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runParse(cmd *cobra.Command, opts pipeline.Options, output string, noCache bool) error {
	ctx := cmd.Context()
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}
	logResult(c.Logger, "interpreted layout", res)

	data := res.Artifacts[opts.Formats[0]]
	if output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess("Wrote %s", output)
	printStats(res.Stats, res.CacheInfo.ParseHit)
	return nil
}

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	var (
		flags  layoutFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "validate [code|-]",
		Short: "Check a layout code and report diagnostics",
		Long: `Check a layout code without printing the grid. Exits non-zero when the
layout has errors; warnings alone keep it valid.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := c.readLayout(cmd, args, &flags)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer runner.Close()

			out, err := runner.Interpret(cmd.Context(), c.pipelineOptions(code, &flags))
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if asJSON {
				if err := writeReportJSON(w, out.Report()); err != nil {
					return err
				}
			} else {
				writeReport(w, code, out.Valid, out.Diagnostics)
			}
			if !out.Valid {
				return errInvalidLayout
			}
			return nil
		},
	}

	c.registerLayoutFlags(cmd, &flags)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")

	return cmd
}

func writeReport(w io.Writer, code string, valid bool, ds []diag.Diagnostic) {
	errs, warnings := diag.Count(ds)
	if valid {
		msg := "Layout is valid"
		if warnings > 0 {
			msg = fmt.Sprintf("%s (%d warnings)", msg, warnings)
		}
		fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+msg)
	} else {
		fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf("Layout is invalid (%d errors, %d warnings)", errs, warnings))
	}
	writeDiagnostics(w, code, ds)
}

func writeReportJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
