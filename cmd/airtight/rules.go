package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"airtight/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the available rules",
	RunE:  runRules,
}

func init() {
	rulesCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type ruleInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Fixable     bool     `json:"fixable"`
	Recommended bool     `json:"recommended"`
	Messages    []string `json:"messages"`
}

func collectRules() []ruleInfo {
	all := rules.All()
	out := make([]ruleInfo, 0, len(all))
	for _, r := range all {
		m := r.Meta()
		out = append(out, ruleInfo{
			Name:        m.Name,
			Description: m.Description,
			Type:        string(m.Type),
			Fixable:     m.Fixable,
			Recommended: m.Recommended,
			Messages:    m.MessageIDs(),
		})
	}
	return out
}

func runRules(cmd *cobra.Command, _ []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	switch format {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(collectRules())
	case "pretty":
		return renderRulesPretty(cmd.OutOrStdout(), collectRules())
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
}

func renderRulesPretty(out io.Writer, infos []ruleInfo) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RULE\tTYPE\tFLAGS\tDESCRIPTION")
	for _, info := range infos {
		flags := ""
		if info.Recommended {
			flags += "R"
		}
		if info.Fixable {
			flags += "F"
		}
		if flags == "" {
			flags = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", info.Name, info.Type, flags, info.Description)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(out, "\nR = recommended (enabled without configuration), F = fixable")
	return err
}
