package hoshi_test

import (
	"strings"
	"testing"

	"github.com/reoring/hoshi"
	"github.com/reoring/hoshi/i18n"
)

func TestIssues_ErrorSummary(t *testing.T) {
	iss := hoshi.Issues{
		{Path: "/a", Code: hoshi.CodeInvalidType},
		{Path: "/b", Code: hoshi.CodeParseError},
		{Path: "/c", Code: hoshi.CodeDuplicateKey},
		{Path: "/d", Code: hoshi.CodeTruncated},
	}
	s := iss.Error()
	if !strings.HasPrefix(s, "invalid_type at /a; parse_error at /b") || !strings.HasSuffix(s, "(total 4)") {
		t.Fatalf("unexpected summary: %s", s)
	}
	if hoshi.Issues(nil).Error() != "" {
		t.Fatalf("empty issues render empty")
	}
	if _, ok := hoshi.AsIssues(nil); ok {
		t.Fatalf("nil is not Issues")
	}
}

func TestIssues_LocalizedMessages(t *testing.T) {
	t.Cleanup(func() { i18n.SetLanguage("en") })

	s := hoshi.MustSchema[flags]()
	rec := s.FromJSONString(`{"count":[]}`)
	if len(rec.Issues) != 1 || rec.Issues[0].Message != "value cannot be coerced to the field type" {
		t.Fatalf("issues = %+v", rec.Issues)
	}

	i18n.SetLanguage("ja")
	rec = s.FromJSONString(`{"count":[]}`)
	if rec.Issues[0].Message != "フィールドの型に変換できません" {
		t.Fatalf("ja message = %q", rec.Issues[0].Message)
	}
}
