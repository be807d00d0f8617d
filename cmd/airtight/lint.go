package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"airtight/internal/diag"
	"airtight/internal/diagfmt"
	"airtight/internal/driver"
	"airtight/internal/linter"
	"airtight/internal/version"
)

var lintCmd = &cobra.Command{
	Use:   "lint [flags] [file.ts|directory]...",
	Short: "Lint TypeScript sources",
	Long: `Lint every .ts/.tsx/.mts/.cts file under the given paths. Each source
is linted from the ESTree JSON stored next to it (file.ts.ast.json by default).`,
	RunE: runLint,
}

func init() {
	addLintFlags(lintCmd)
	lintCmd.Flags().String("format", "pretty", "output format (pretty|json|sarif|short)")
	lintCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	lintCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	lintCmd.Flags().Bool("preview", false, "preview fix edits in output")
	lintCmd.Flags().String("path-mode", "auto", "how paths are shown (auto|absolute|relative|basename)")
	lintCmd.Flags().Int8("context", 1, "source lines shown around each diagnostic")
	lintCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
	lintCmd.Flags().Bool("quiet", false, "report errors only")
}

// outputOptions holds the rendering flags of the lint command.
type outputOptions struct {
	format    string
	quiet     bool
	color     bool
	withNotes bool
	suggest   bool
	preview   bool
	pathMode  diagfmt.PathMode
	context   int8
}

func readOutputOptions(cmd *cobra.Command) (outputOptions, error) {
	var (
		o   outputOptions
		err error
	)
	if o.format, err = cmd.Flags().GetString("format"); err != nil {
		return o, fmt.Errorf("failed to get format flag: %w", err)
	}
	switch o.format {
	case "pretty", "json", "sarif", "short":
	default:
		return o, fmt.Errorf("unknown format: %s", o.format)
	}
	if o.quiet, err = cmd.Flags().GetBool("quiet"); err != nil {
		return o, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if o.withNotes, err = cmd.Flags().GetBool("with-notes"); err != nil {
		return o, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if o.suggest, err = cmd.Flags().GetBool("suggest"); err != nil {
		return o, fmt.Errorf("failed to get suggest flag: %w", err)
	}
	if o.preview, err = cmd.Flags().GetBool("preview"); err != nil {
		return o, fmt.Errorf("failed to get preview flag: %w", err)
	}
	if o.context, err = cmd.Flags().GetInt8("context"); err != nil {
		return o, fmt.Errorf("failed to get context flag: %w", err)
	}
	modeStr, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return o, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	mode, ok := diagfmt.ParsePathMode(modeStr)
	if !ok {
		return o, fmt.Errorf("invalid --path-mode value %q (expected auto|absolute|relative|basename)", modeStr)
	}
	o.pathMode = mode
	if o.color, err = useColor(cmd); err != nil {
		return o, err
	}
	return o, nil
}

func runLint(cmd *cobra.Command, args []string) error {
	settings, err := readLintSettings(cmd, args)
	if err != nil {
		return err
	}
	out, err := readOutputOptions(cmd)
	if err != nil {
		return err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	plan, err := planLint(cmd, settings)
	if err != nil {
		return err
	}
	if len(plan.files) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No TypeScript files found.")
		return nil
	}

	// TUI только для человекочитаемого вывода
	useUI := out.format == "pretty" && shouldUseTUI(mode)
	result, err := plan.run(cmd.Context(), useUI)
	if err != nil {
		dumpTrace(cmd)
		return fmt.Errorf("lint failed: %w", err)
	}

	if out.quiet {
		result.Bag.Filter(func(d *diag.Diagnostic) bool { return d.Severity >= diag.SevError })
	}
	if err := renderResult(cmd.OutOrStdout(), result, plan.linter, out, args); err != nil {
		return err
	}
	if result.Dropped > 0 && out.format == "pretty" {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d more diagnostic(s) not shown (--max-diagnostics)\n", result.Dropped)
	}
	if err := printTimings(cmd, result); err != nil {
		return err
	}

	if result.HasErrors() {
		return errDiagnostics
	}
	return nil
}

func renderResult(w io.Writer, result *driver.Result, l *linter.Linter, out outputOptions, args []string) error {
	showFixes := out.suggest || out.preview
	switch out.format {
	case "pretty":
		diagfmt.Pretty(w, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:       out.color,
			Context:     out.context,
			PathMode:    out.pathMode,
			ShowNotes:   out.withNotes,
			ShowFixes:   showFixes,
			ShowPreview: out.preview,
		})
		if result.Bag.Len() > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, summaryLine(result))
	case "short":
		return diagfmt.Short(w, result.Bag, result.FileSet, diagfmt.ShortOpts{
			PathMode:  out.pathMode,
			WithNotes: out.withNotes,
		})
	case "json":
		return diagfmt.JSON(w, result.Bag, result.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         out.pathMode,
			IncludeNotes:     out.withNotes,
			IncludeFixes:     showFixes,
			IncludePreviews:  out.preview,
		})
	case "sarif":
		return diagfmt.Sarif(w, result.Bag, result.FileSet, sarifMeta(l, args))
	}
	return nil
}

func summaryLine(result *driver.Result) string {
	var errs, warns int
	for _, d := range result.Bag.Items() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		}
	}
	return fmt.Sprintf("%d file(s) linted, %d error(s), %d warning(s)", len(result.Files), errs, warns)
}

func sarifMeta(l *linter.Linter, args []string) diagfmt.SarifRunMeta {
	meta := diagfmt.SarifRunMeta{
		ToolName:       "airtight",
		ToolVersion:    version.Current().Version,
		InvocationArgs: append([]string{"lint"}, args...),
	}
	for _, e := range l.Entries() {
		m := e.Rule.Meta()
		meta.Rules = append(meta.Rules, diagfmt.SarifRule{ID: m.Name, Description: m.Description})
	}
	return meta
}

func printTimings(cmd *cobra.Command, result *driver.Result) error {
	show, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	if !show {
		return nil
	}
	format, err := cmd.Root().PersistentFlags().GetString("timings-format")
	if err != nil {
		return fmt.Errorf("failed to get timings-format flag: %w", err)
	}
	switch format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid --timings-format value %q (expected text|json)", format)
	}
	return driver.WriteTimings(os.Stderr, result, format == "json")
}
