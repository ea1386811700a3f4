package hoshi_test

import (
	"strings"
	"testing"

	"github.com/reoring/hoshi"
)

func TestJSONDriverSwap(t *testing.T) {
	t.Cleanup(hoshi.UseDefaultJSONDriver)

	doc := `{"id":7,"price":12.5,"tags":["a",null],"meta":{"ok":true}}`
	if name := hoshi.CurrentJSONDriver().Name(); name != "go-json" {
		t.Fatalf("default driver = %s", name)
	}
	fast, err := hoshi.ParseString(doc)
	if err != nil {
		t.Fatalf("go-json: %v", err)
	}
	rejectNonStrict(t, "go-json")

	hoshi.UseStdlibJSONDriver()
	if name := hoshi.CurrentJSONDriver().Name(); name != "encoding/json" {
		t.Fatalf("stdlib driver = %s", name)
	}
	std, err := hoshi.ParseString(doc)
	if err != nil {
		t.Fatalf("encoding/json: %v", err)
	}
	if !fast.Equal(std) {
		t.Fatalf("drivers disagree: %s vs %s", fast, std)
	}
	rejectNonStrict(t, "encoding/json")

	hoshi.SetJSONDriver(nil)
	if name := hoshi.CurrentJSONDriver().Name(); name != "encoding/json" {
		t.Fatalf("nil driver must be ignored, got %s", name)
	}
}

func rejectNonStrict(t *testing.T, driver string) {
	t.Helper()
	for _, bad := range []string{`{"a":1,}`, `[1,2,]`, `[1 2]`, `{"a" 1}`, `{"a":01}`, "/* c */ {}"} {
		if _, err := hoshi.ParseString(bad); err == nil {
			t.Fatalf("%q: %s driver accepted invalid input", bad, driver)
		}
		if _, err := hoshi.ParseReader(strings.NewReader(bad)); err == nil {
			t.Fatalf("%q: %s driver accepted invalid reader input", bad, driver)
		}
	}
}

func TestParseReader_MaxBytes(t *testing.T) {
	v, err := hoshi.ParseReader(strings.NewReader(`{"a":[1,2,3]}`))
	if err != nil || v.Len() != 1 {
		t.Fatalf("ParseReader = %v, %v", v, err)
	}
	_, err = hoshi.ParseReader(strings.NewReader(`{"a":[1,2,3]}`), hoshi.ParseOpt{MaxBytes: 5})
	iss, ok := hoshi.AsIssues(err)
	if !ok || !iss.Has(hoshi.CodeTruncated) {
		t.Fatalf("expected truncated issue, got %v", err)
	}
}
