package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelShouldEmit(t *testing.T) {
	assert.False(t, LevelOff.ShouldEmit(ScopeDriver))
	assert.True(t, LevelPhase.ShouldEmit(ScopeDriver))
	assert.False(t, LevelPhase.ShouldEmit(ScopeFile))
	assert.True(t, LevelFile.ShouldEmit(ScopeFile))
	assert.False(t, LevelFile.ShouldEmit(ScopeRule))
	assert.True(t, LevelDebug.ShouldEmit(ScopeNode))
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("FILE")
	require.NoError(t, err)
	assert.Equal(t, LevelFile, lvl)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}

func TestStreamSpans(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelFile, Mode: ModeStream, Format: FormatNDJSON, Output: &buf})
	require.NoError(t, err)

	ctx := WithTracer(context.Background(), tr)
	ctx, run := Start(ctx, ScopeDriver, "lint")
	_, file := Start(ctx, ScopeFile, "lint:a.ts")
	assert.Equal(t, run.ID(), ParentID(WithSpan(ctx, nil)))
	file.WithExtra("diagnostics", "2").End("")
	_, ruleSpan := Start(ctx, ScopeRule, "rule:param-types")
	ruleSpan.End("")
	run.End("done")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], `"name":"lint"`)
	assert.Contains(t, lines[1], `"scope":"file"`)
	assert.Contains(t, lines[2], `"extra":{"diagnostics":"2"}`)
	assert.Contains(t, lines[3], `"detail":"done"`)
}

func TestRingKeepsFileEventsAtErrorLevel(t *testing.T) {
	tr, err := New(Config{Level: LevelError, Mode: ModeRing, RingSize: 2})
	require.NoError(t, err)

	for _, name := range []string{"a.ts", "b.ts", "c.ts"} {
		Point(tr, ScopeFile, "lint:"+name, "", 0)
	}
	Point(tr, ScopeRule, "rule:x", "", 0)

	ring, ok := RingOf(tr)
	require.True(t, ok)
	events := ring.Snapshot()
	require.Len(t, events, 2)
	assert.Equal(t, "lint:b.ts", events[0].Name)
	assert.Equal(t, "lint:c.ts", events[1].Name)

	var buf bytes.Buffer
	require.NoError(t, ring.Dump(&buf, FormatText))
	assert.Contains(t, buf.String(), "• lint:c.ts")
}

func TestNopWhenOff(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	require.NoError(t, err)
	assert.Equal(t, Nop, tr)

	span := Begin(tr, ScopeDriver, "x", 0)
	assert.Zero(t, span.End(""))
	assert.Equal(t, Nop, FromContext(context.Background()))
}

func TestBothStreamsAndKeepsRing(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Mode: ModeBoth, Format: FormatText, Output: &buf, RingSize: 8})
	require.NoError(t, err)

	Point(tr, ScopeDriver, "discover", "3 files", 0)
	Point(tr, ScopeFile, "file:a.ts", "", 0)
	require.NoError(t, tr.Close())

	assert.Contains(t, buf.String(), "• discover (3 files)")
	assert.NotContains(t, buf.String(), "file:a.ts")

	ring, ok := RingOf(tr)
	require.True(t, ok)
	require.Len(t, ring.Snapshot(), 1)
	assert.Equal(t, KindPoint, ring.Snapshot()[0].Kind)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("Both")
	require.NoError(t, err)
	assert.Equal(t, ModeBoth, m)

	_, err = ParseMode("disk")
	assert.Error(t, err)
	assert.Equal(t, "unknown", Kind(9).String())
	assert.Equal(t, "rule", ScopeRule.String())
}
