package diag

import (
	"maps"

	"airtight/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is one reported violation. Rule is empty for diagnostics
// raised by the driver itself (bad configuration, unreadable tree).
type Diagnostic struct {
	Severity  Severity
	Rule      string
	MessageID string
	Message   string
	Data      map[string]string
	Primary   source.Span
	Notes     []Note
	Fixes     []*Fix
}

// Code returns the stable identifier shown next to the message:
// "<rule>/<messageId>", or just the message id for driver diagnostics.
func (d *Diagnostic) Code() string {
	if d.Rule == "" {
		return d.MessageID
	}
	if d.MessageID == "" {
		return d.Rule
	}
	return d.Rule + "/" + d.MessageID
}

func New(sev Severity, rule, messageID string, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity:  sev,
		Rule:      rule,
		MessageID: messageID,
		Primary:   primary,
		Message:   msg,
	}
}

func NewError(rule, messageID string, primary source.Span, msg string) Diagnostic {
	return New(SevError, rule, messageID, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

func (d Diagnostic) WithData(data map[string]string) Diagnostic {
	d.Data = maps.Clone(data)
	return d
}

func (d Diagnostic) WithFix(title string, edits ...TextEdit) Diagnostic {
	d.Fixes = append(d.Fixes, &Fix{
		Title:         title,
		Kind:          FixKindQuickFix,
		Applicability: FixApplicabilityAlwaysSafe,
		Edits:         edits,
	})
	return d
}

func (d Diagnostic) WithFixSuggestion(fix *Fix) Diagnostic {
	if fix != nil {
		d.Fixes = append(d.Fixes, fix)
	}
	return d
}
