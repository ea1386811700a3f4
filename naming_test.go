package hoshi_test

import (
	"testing"

	"github.com/reoring/hoshi"
)

func TestSnakeCase(t *testing.T) {
	cases := map[string]string{
		"userID":      "user_id",
		"UserID":      "user_id",
		"URL":         "url",
		"HTTPServer":  "httpserver",
		"a1B2C":       "a1_b2_c",
		"customInt_b": "custom_int_b",
		"IntA":        "int_a",
		"name":        "name",
		"":            "",
		"Version2API": "version2_api",
		"aÉ":          "aé",
		"ÀbC":         "àb_c",
		"éA":          "éa",
	}
	for in, want := range cases {
		if got := hoshi.SnakeCase(in); got != want {
			t.Fatalf("SnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
