package i18n

import "testing"

func TestTranslator_DefaultAndLanguages(t *testing.T) {
	if msg := T("invalid_type", nil); msg == "invalid_type" || msg == "" {
		t.Fatalf("expected a human message, got %q", msg)
	}

	SetLanguage("zh")
	if msg := T("encode_failure", nil); msg != "序列化错误" {
		t.Fatalf("expected chinese message, got %q", msg)
	}

	SetLanguage("ja")
	if msg := T("invalid_type", nil); msg == "value cannot be coerced to the field type" {
		t.Fatalf("expected japanese message, got %q", msg)
	}

	SetLanguage("xx")
	if msg := T("parse_error", nil); msg != "document is not a valid JSON object" {
		t.Fatalf("unknown language should fall back to en, got %q", msg)
	}
}

func TestTranslator_KeyAndUnknownCode(t *testing.T) {
	SetLanguage("en")
	if msg := T("duplicate_key", map[string]string{"key": "id"}); msg != "duplicate key: id" {
		t.Fatalf("unexpected message %q", msg)
	}
	if msg := T("no_such_code", nil); msg != "no_such_code" {
		t.Fatalf("unknown code should echo, got %q", msg)
	}
}

type upper struct{}

func (upper) Message(code string, _ map[string]string) string { return "X:" + code }

func TestSetTranslator(t *testing.T) {
	SetTranslator(upper{})
	defer SetTranslator(nil)
	if msg := T("parse_error", nil); msg != "X:parse_error" {
		t.Fatalf("custom translator not used: %q", msg)
	}
}
