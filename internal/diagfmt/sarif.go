package diagfmt

import (
	"encoding/json"
	"io"
	"path/filepath"
	"sort"

	"airtight/internal/diag"
	"airtight/internal/source"
)

const (
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
	sarifVersion = "2.1.0"
)

// SarifLog is the root of a SARIF document.
type SarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string                `json:"name"`
	Version        string                `json:"version,omitempty"`
	InformationURI string                `json:"informationUri,omitempty"`
	Rules          []sarifReportingDescr `json:"rules,omitempty"`
}

type sarifReportingDescr struct {
	ID               string        `json:"id"`
	ShortDescription *sarifMessage `json:"shortDescription,omitempty"`
	HelpURI          string        `json:"helpUri,omitempty"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId,omitempty"`
	RuleIndex *int            `json:"ruleIndex,omitempty"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
	Related   []sarifLocation `json:"relatedLocations,omitempty"`
	Fixes     []sarifFix      `json:"fixes,omitempty"`
}

type sarifLocation struct {
	Physical sarifPhysicalLocation `json:"physicalLocation"`
	Message  *sarifMessage         `json:"message,omitempty"`
}

type sarifPhysicalLocation struct {
	Artifact sarifArtifact `json:"artifactLocation"`
	Region   sarifRegion   `json:"region"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn"`
	EndLine     uint32 `json:"endLine"`
	EndColumn   uint32 `json:"endColumn"`
	ByteOffset  uint32 `json:"byteOffset"`
	ByteLength  uint32 `json:"byteLength"`
}

type sarifFix struct {
	Description sarifMessage          `json:"description"`
	Changes     []sarifArtifactChange `json:"artifactChanges"`
}

type sarifArtifactChange struct {
	Artifact     sarifArtifact      `json:"artifactLocation"`
	Replacements []sarifReplacement `json:"replacements"`
}

type sarifReplacement struct {
	Deleted  sarifRegion   `json:"deletedRegion"`
	Inserted *sarifMessage `json:"insertedContent,omitempty"`
}

// Sarif форматирует диагностики в SARIF формат (v2.1.0).
// Пути выводятся относительно fs.BaseDir() со слешами.
func Sarif(w io.Writer, bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) error {
	out := BuildSarif(bag, fs, meta)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// BuildSarif builds the SARIF log without serialising it.
func BuildSarif(bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) SarifLog {
	ruleIndex := make(map[string]int, len(meta.Rules))
	driver := sarifDriver{
		Name:           meta.ToolName,
		Version:        meta.ToolVersion,
		InformationURI: meta.InformationURI,
	}
	for i, r := range meta.Rules {
		ruleIndex[r.ID] = i
		descr := sarifReportingDescr{ID: r.ID, HelpURI: r.HelpURI}
		if r.Description != "" {
			descr.ShortDescription = &sarifMessage{Text: r.Description}
		}
		driver.Rules = append(driver.Rules, descr)
	}

	run := sarifRun{Tool: sarifTool{Driver: driver}, Results: []sarifResult{}}
	if bag != nil && fs != nil {
		ctx := diag.FixBuildContext{FileSet: fs}
		for i := range bag.Items() {
			d := &bag.Items()[i]
			res := sarifResult{
				RuleID:  d.Code(),
				Level:   sarifLevel(d.Severity),
				Message: sarifMessage{Text: d.Message},
			}
			if idx, ok := ruleIndex[d.Rule]; ok {
				res.RuleID = d.Rule
				res.RuleIndex = &idx
			}
			if loc, ok := sarifLocate(fs, d.Primary); ok {
				res.Locations = []sarifLocation{loc}
			}
			for _, note := range d.Notes {
				if loc, ok := sarifLocate(fs, note.Span); ok {
					loc.Message = &sarifMessage{Text: note.Msg}
					res.Related = append(res.Related, loc)
				}
			}
			for _, f := range d.Fixes {
				resolved, err := f.Resolve(ctx)
				if err != nil || len(resolved.Edits) == 0 {
					continue
				}
				res.Fixes = append(res.Fixes, sarifFixOf(fs, resolved))
			}
			run.Results = append(run.Results, res)
		}
	}
	if meta.InvocationArgs != nil {
		run.Invocations = []sarifInvocation{{
			Arguments:           meta.InvocationArgs,
			ExecutionSuccessful: bag == nil || !bag.HasErrors(),
		}}
	}

	return SarifLog{Schema: sarifSchema, Version: sarifVersion, Runs: []sarifRun{run}}
}

func sarifLevel(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "note"
	}
}

func sarifURI(fs *source.FileSet, f *source.File) string {
	return filepath.ToSlash(f.DisplayPath(source.PathRelative, fs.BaseDir()))
}

func sarifRegionOf(fs *source.FileSet, span source.Span) sarifRegion {
	start, end := fs.Resolve(span)
	return sarifRegion{
		StartLine:   start.Line,
		StartColumn: start.Col,
		EndLine:     end.Line,
		EndColumn:   end.Col,
		ByteOffset:  span.Start,
		ByteLength:  span.Len(),
	}
}

func sarifLocate(fs *source.FileSet, span source.Span) (sarifLocation, bool) {
	f := fs.Get(span.File)
	if f == nil {
		return sarifLocation{}, false
	}
	return sarifLocation{Physical: sarifPhysicalLocation{
		Artifact: sarifArtifact{URI: sarifURI(fs, f)},
		Region:   sarifRegionOf(fs, span),
	}}, true
}

func sarifFixOf(fs *source.FileSet, f diag.Fix) sarifFix {
	byFile := make(map[source.FileID][]sarifReplacement)
	var order []source.FileID
	for _, e := range f.Edits {
		if _, seen := byFile[e.Span.File]; !seen {
			order = append(order, e.Span.File)
		}
		rep := sarifReplacement{Deleted: sarifRegionOf(fs, e.Span)}
		if e.NewText != "" {
			rep.Inserted = &sarifMessage{Text: e.NewText}
		}
		byFile[e.Span.File] = append(byFile[e.Span.File], rep)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	out := sarifFix{Description: sarifMessage{Text: f.Title}}
	for _, id := range order {
		file := fs.Get(id)
		if file == nil {
			continue
		}
		out.Changes = append(out.Changes, sarifArtifactChange{
			Artifact:     sarifArtifact{URI: sarifURI(fs, file)},
			Replacements: byFile[id],
		})
	}
	return out
}
