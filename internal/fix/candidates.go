package fix

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"airtight/internal/diag"
)

type candidate struct {
	diag  *diag.Diagnostic
	fix   *diag.Fix
	order int
}

// collect resolves every fix once. Fixes without edits, with an id already
// seen, or failing to build end up in res.Skipped. A fix without an id gets
// one derived from its diagnostic.
func collect(ctx diag.FixBuildContext, diagnostics []diag.Diagnostic, res *ApplyResult) []candidate {
	var out []candidate
	seen := make(map[string]bool)
	for i := range diagnostics {
		d := &diagnostics[i]
		if len(d.Fixes) == 0 {
			continue
		}
		resolved, err := diag.MaterializeFixes(ctx, d.Fixes)
		if err != nil {
			res.Skipped = append(res.Skipped, SkippedFix{Title: d.Message, Reason: fmt.Sprintf("failed to build fixes: %v", err)})
		}
		for n := range resolved {
			f := &resolved[n]
			if f.ID == "" {
				f.ID = fmt.Sprintf("%s-%d-%d-%d", d.Code(), d.Primary.File, d.Primary.Start, n)
			}
			switch {
			case len(f.Edits) == 0:
				res.skip(f, "fix has no edits")
			case seen[f.ID]:
				res.skip(f, "duplicate fix id")
			default:
				seen[f.ID] = true
				out = append(out, candidate{diag: d, fix: f, order: len(out)})
			}
		}
	}
	return out
}

// sortCandidates orders by primary span, then discovery order, code,
// preference, id and title.
func sortCandidates(cands []candidate) {
	slices.SortStableFunc(cands, func(a, b candidate) int {
		pa, pb := a.diag.Primary, b.diag.Primary
		if c := cmp.Or(
			cmp.Compare(pa.File, pb.File),
			cmp.Compare(pa.Start, pb.Start),
			cmp.Compare(pa.End, pb.End),
			cmp.Compare(a.order, b.order),
			strings.Compare(a.diag.Code(), b.diag.Code()),
		); c != 0 {
			return c
		}
		if a.fix.IsPreferred != b.fix.IsPreferred {
			if a.fix.IsPreferred {
				return -1
			}
			return 1
		}
		return cmp.Or(strings.Compare(a.fix.ID, b.fix.ID), strings.Compare(a.fix.Title, b.fix.Title))
	})
}

// choose applies the selection mode. Fixes not chosen for a reason the
// user can act on are recorded in res.
func choose(cands []candidate, opts ApplyOptions, res *ApplyResult) []candidate {
	safe := func(c candidate) bool { return c.fix.Applicability == diag.FixApplicabilityAlwaysSafe }

	switch opts.Mode {
	case ApplyModeID:
		i := slices.IndexFunc(cands, func(c candidate) bool { return c.fix.ID == opts.TargetID })
		switch {
		case i < 0:
			res.Skipped = append(res.Skipped, SkippedFix{ID: opts.TargetID, Reason: "fix id not found"})
		case cands[i].fix.RequiresAll:
			res.Skipped = append(res.Skipped, SkippedFix{ID: opts.TargetID, Reason: "fix requires all fixes to be applied"})
		default:
			return cands[i : i+1]
		}
		return nil

	case ApplyModeAll:
		var out []candidate
		for _, c := range cands {
			if safe(c) {
				out = append(out, c)
				continue
			}
			res.skip(c.fix, "applicability is "+c.fix.Applicability.String())
		}
		return out

	case ApplyModeOnce:
		fallback := -1
		for i, c := range cands {
			if c.fix.RequiresAll {
				res.skip(c.fix, "fix requires all fixes to be applied")
				continue
			}
			if safe(c) {
				return []candidate{c}
			}
			if fallback < 0 {
				fallback = i
			}
		}
		if fallback >= 0 {
			return []candidate{cands[fallback]}
		}
	}
	return nil
}
