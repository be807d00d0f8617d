package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airtight/internal/diag"
	"airtight/internal/source"
)

func TestSarif(t *testing.T) {
	fs := source.NewFileSetWithBase("/work")
	fileID := fs.AddVirtual("/work/src/a.ts", []byte("import fs = require('fs');\n"))

	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.SevError, "import-style", "importEquals", source.Span{File: fileID, Start: 0, End: 26}, "Unexpected import-equals").
		WithNote(source.Span{File: fileID, Start: 20, End: 24}, "module").
		WithFix("rewrite", diag.TextEdit{Span: source.Span{File: fileID, Start: 0, End: 26}, NewText: "import fs from 'fs';"}))
	bag.Add(diag.New(diag.SevWarning, "", "missingTree", source.Span{File: fileID}, "no tree"))

	meta := SarifRunMeta{
		ToolName:       "airtight",
		ToolVersion:    "0.1.0",
		InvocationArgs: []string{"lint", "src"},
		Rules:          []SarifRule{{ID: "import-style", Description: "Enforce import style"}},
	}

	var buf bytes.Buffer
	require.NoError(t, Sarif(&buf, bag, fs, meta))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "2.1.0", doc["version"])

	log := BuildSarif(bag, fs, meta)
	require.Len(t, log.Runs, 1)
	run := log.Runs[0]
	assert.Equal(t, "airtight", run.Tool.Driver.Name)
	require.Len(t, run.Tool.Driver.Rules, 1)
	require.Len(t, run.Invocations, 1)
	assert.False(t, run.Invocations[0].ExecutionSuccessful)

	require.Len(t, run.Results, 2)
	first := run.Results[0]
	assert.Equal(t, "import-style", first.RuleID)
	require.NotNil(t, first.RuleIndex)
	assert.Equal(t, 0, *first.RuleIndex)
	assert.Equal(t, "error", first.Level)
	require.Len(t, first.Locations, 1)
	assert.Equal(t, "src/a.ts", first.Locations[0].Physical.Artifact.URI)
	assert.Equal(t, sarifRegion{StartLine: 1, StartColumn: 1, EndLine: 1, EndColumn: 27, ByteOffset: 0, ByteLength: 26}, first.Locations[0].Physical.Region)
	require.Len(t, first.Related, 1)
	assert.Equal(t, "module", first.Related[0].Message.Text)
	require.Len(t, first.Fixes, 1)
	require.Len(t, first.Fixes[0].Changes, 1)
	assert.Equal(t, "import fs from 'fs';", first.Fixes[0].Changes[0].Replacements[0].Inserted.Text)

	second := run.Results[1]
	assert.Equal(t, "missingTree", second.RuleID)
	assert.Nil(t, second.RuleIndex)
	assert.Equal(t, "warning", second.Level)
}
