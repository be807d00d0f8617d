package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"airtight/internal/rules"
	"airtight/internal/version"
)

const versionTagline = "no leaks past the linter"

// versionReport is what `airtight version` prints: build metadata plus the
// shape of the compiled-in rule set.
type versionReport struct {
	Tool        string `json:"tool"`
	Version     string `json:"version"`
	Tagline     string `json:"tagline"`
	Rules       int    `json:"rules"`
	Recommended int    `json:"recommended"`
	GoVersion   string `json:"go_version"`
	GitCommit   string `json:"git_commit,omitempty"`
	BuildDate   string `json:"build_date,omitempty"`

	raw string // версия без цвета для pretty-вывода
}

func init() {
	versionCmd.Flags().Bool("hash", false, "include git commit hash")
	versionCmd.Flags().Bool("date", false, "include build timestamp")
	versionCmd.Flags().Bool("full", false, "show every recorded bit of build metadata")
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show airtight build fingerprints and rule set size",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func runVersion(cmd *cobra.Command, _ []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	full, _ := cmd.Flags().GetBool("full")
	withHash, _ := cmd.Flags().GetBool("hash")
	withDate, _ := cmd.Flags().GetBool("date")

	report := buildVersionReport(version.Current(), withHash || full, withDate || full)
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "pretty":
		colored, err := useColor(cmd)
		if err != nil {
			return err
		}
		report.writePretty(cmd.OutOrStdout(), colored)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
}

func buildVersionReport(info version.Info, withHash, withDate bool) versionReport {
	r := versionReport{
		Tool:      "airtight",
		Version:   info.Version,
		Tagline:   versionTagline,
		GoVersion: runtime.Version(),
		raw:       info.Version,
	}
	for _, rl := range rules.All() {
		r.Rules++
		if rl.Meta().Recommended {
			r.Recommended++
		}
	}
	if withHash {
		r.GitCommit = orUnknown(info.GitCommit)
	}
	if withDate {
		r.BuildDate = orUnknown(info.BuildDate)
	}
	return r
}

func (r versionReport) writePretty(out io.Writer, colored bool) {
	v := r.raw
	if colored {
		v = version.Colored(v)
	}
	fmt.Fprintf(out, "airtight %s: %s\n", v, r.Tagline)
	fmt.Fprintf(out, "rules:  %d (%d recommended)\n", r.Rules, r.Recommended)
	if r.GitCommit != "" {
		fmt.Fprintf(out, "commit: %s\n", r.GitCommit)
	}
	if r.BuildDate != "" {
		fmt.Fprintf(out, "built:  %s (%s)\n", r.BuildDate, r.GoVersion)
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
