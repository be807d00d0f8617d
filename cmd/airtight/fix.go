package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"airtight/internal/fix"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] [file.ts|directory]...",
	Short: "Apply available fixes to TypeScript sources",
	Long: `Lint the given paths, then apply the fixes attached to the reported
diagnostics according to the chosen strategy. One pass is made; run fix
again to pick up fixes that only appear after the first edits.`,
	RunE: runFix,
}

func init() {
	addLintFlags(fixCmd)
	fixCmd.Flags().Bool("all", false, "apply all non-conflicting fixes")
	fixCmd.Flags().Bool("once", false, "apply the first available fix (default)")
	fixCmd.Flags().String("id", "", "apply fix with a specific identifier")
	fixCmd.Flags().Bool("dry-run", false, "print the fixed sources instead of writing them")
}

func runFix(cmd *cobra.Command, args []string) error {
	applyAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	applyOnceFlag, err := cmd.Flags().GetBool("once")
	if err != nil {
		return err
	}
	targetID, err := cmd.Flags().GetString("id")
	if err != nil {
		return err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}

	if targetID != "" && (applyAll || applyOnceFlag) {
		return fmt.Errorf("--id cannot be combined with --all or --once")
	}
	if applyAll && applyOnceFlag {
		return fmt.Errorf("--all and --once are mutually exclusive")
	}

	mode := fix.ApplyModeOnce
	if targetID != "" {
		mode = fix.ApplyModeID
	} else if applyAll {
		mode = fix.ApplyModeAll
	}
	opts := fix.ApplyOptions{
		Mode:     mode,
		TargetID: targetID,
		DryRun:   dryRun,
	}

	settings, err := readLintSettings(cmd, args)
	if err != nil {
		return err
	}
	// фиксы ищем во всех диагностиках, лимит только для вывода
	settings.maxDiags = 0

	plan, err := planLint(cmd, settings)
	if err != nil {
		return err
	}
	// id уникален только в пределах одного файла
	if targetID != "" && len(plan.files) != 1 {
		return fmt.Errorf("fix: --id can only be used with a single file, got %d", len(plan.files))
	}

	result, err := plan.run(cmd.Context(), false)
	if err != nil {
		dumpTrace(cmd)
		return fmt.Errorf("fix: lint failed: %w", err)
	}

	res, applyErr := fix.Apply(result.FileSet, result.Bag.Items(), opts)
	if err := handleApplyResult(cmd.OutOrStdout(), res, applyErr); err != nil {
		return err
	}
	if dryRun && res != nil {
		return printDryRun(cmd.OutOrStdout(), res)
	}
	return printTimings(cmd, result)
}

func handleApplyResult(out io.Writer, res *fix.ApplyResult, applyErr error) error {
	if res == nil {
		return applyErr
	}

	if len(res.Applied) > 0 {
		fmt.Fprintf(out, "Applied %d fix(es):\n", len(res.Applied))
		for _, item := range res.Applied {
			location := item.PrimaryPath
			if location == "" {
				location = "(unknown location)"
			}
			fmt.Fprintf(out, "  %s [%s] %s: %s (%d edits, %s)\n",
				item.Title,
				item.ID,
				item.Code,
				location,
				item.EditCount,
				item.Applicability.String(),
			)
		}
	}

	if len(res.FileChanges) > 0 {
		fmt.Fprintln(out, "Updated files:")
		for _, change := range res.FileChanges {
			fmt.Fprintf(out, "  %s (%d edits)\n", change.Path, change.EditCount)
		}
	}

	if len(res.Skipped) > 0 {
		fmt.Fprintln(out, "Skipped fixes:")
		for _, skip := range res.Skipped {
			id := skip.ID
			if id == "" {
				id = "(unnamed)"
			}
			if skip.Title != "" {
				fmt.Fprintf(out, "  %s [%s]: %s\n", skip.Title, id, skip.Reason)
			} else {
				fmt.Fprintf(out, "  [%s]: %s\n", id, skip.Reason)
			}
		}
	}

	if applyErr != nil {
		if errors.Is(applyErr, fix.ErrNoFixes) && len(res.Applied) == 0 {
			fmt.Fprintln(out, "No applicable fixes found.")
			return nil
		}
		return applyErr
	}

	if len(res.Applied) == 0 {
		fmt.Fprintln(out, "No fixes applied.")
	}
	return nil
}

func printDryRun(out io.Writer, res *fix.ApplyResult) error {
	for _, change := range res.FileChanges {
		if _, err := fmt.Fprintf(out, "--- %s\n", change.Path); err != nil {
			return err
		}
		if _, err := out.Write(change.Content); err != nil {
			return err
		}
		if n := len(change.Content); n > 0 && change.Content[n-1] != '\n' {
			fmt.Fprintln(out)
		}
	}
	return nil
}
