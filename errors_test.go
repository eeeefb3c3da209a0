package schemaval_test

import (
	"strings"
	"testing"

	schemaval "github.com/schemaval/schemaval"
)

func TestIssues_ErrorSummaryTruncates(t *testing.T) {
	iss := schemaval.Issues{
		{Path: schemaval.Root().Field("a"), Code: schemaval.CodeTypeMismatch},
		{Path: schemaval.Root().Field("b"), Code: schemaval.CodeMissingField},
		{Path: schemaval.Root().Field("c"), Code: schemaval.CodeRangeViolation},
		{Path: schemaval.Root().Field("d"), Code: schemaval.CodeEnumMismatch},
	}
	s := iss.Error()
	if !strings.Contains(s, "type_mismatch at .a") {
		t.Fatalf("missing first issue in summary: %q", s)
	}
	if !strings.Contains(s, "(total 4)") {
		t.Fatalf("missing truncation marker: %q", s)
	}
	if strings.Contains(s, "enum_mismatch") {
		t.Fatalf("fourth issue should be truncated: %q", s)
	}
}

func TestIssues_EmptyError(t *testing.T) {
	if got := (schemaval.Issues{}).Error(); got != "" {
		t.Fatalf("expected empty summary, got %q", got)
	}
}

func TestAsIssues(t *testing.T) {
	var err error = schemaval.Issues{{Code: schemaval.CodeTypeMismatch}}
	iss, ok := schemaval.AsIssues(err)
	if !ok || len(iss) != 1 {
		t.Fatalf("expected extraction to succeed: %v %v", iss, ok)
	}
	if _, ok := schemaval.AsIssues(nil); ok {
		t.Fatalf("nil error must not extract")
	}
}
