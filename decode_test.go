package hoshi_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/hoshi"
)

type flags struct {
	Flag  bool
	Count int
	Name  string
}

func decodeFlags(t *testing.T, doc string) hoshi.Decoded[flags] {
	t.Helper()
	v, err := hoshi.ParseString(doc)
	if err != nil {
		t.Fatalf("parse %s: %v", doc, err)
	}
	s := hoshi.MustSchema[flags]()
	return s.DecodeWithMeta(v, flags{Flag: true, Count: 9, Name: "x"})
}

func TestDecode_BoolLadder(t *testing.T) {
	cases := map[string]bool{
		`{"flag":true}`:  true,
		`{"flag":false}`: false,
		`{"flag":1}`:     true,
		`{"flag":0}`:     false,
		`{"flag":-3}`:    true,
		`{"flag":"no"}`:  true, // default kept
		`{"flag":0.0}`:   false,
		`{"flag":1.0}`:   true,
		`{"flag":0.5}`:   true, // default kept
	}
	for doc, want := range cases {
		if got := decodeFlags(t, doc).Value.Flag; got != want {
			t.Fatalf("%s: Flag = %v, want %v", doc, got, want)
		}
	}
	d := decodeFlags(t, `{"flag":"no"}`)
	if !d.Issues.Has(hoshi.CodeInvalidType) || d.Issues[0].Path != "/flag" {
		t.Fatalf("expected invalid_type at /flag, got %v", d.Issues)
	}
	if !d.Presence.Has("/flag", hoshi.PresenceSeen|hoshi.PresenceDefaultApplied) {
		t.Fatalf("presence = %v", d.Presence)
	}
	if d := decodeFlags(t, `{"flag":0.0}`); len(d.Issues) != 0 || !d.Presence.Has("/flag", hoshi.PresenceCoerced) {
		t.Fatalf("integral float should coerce to bool: %v %v", d.Issues, d.Presence)
	}
}

func TestDecode_IntLadder(t *testing.T) {
	cases := map[string]int{
		`{"count":42}`:        42,
		`{"count":"42"}`:      42,
		`{"count":"+7"}`:      7,
		`{"count":"-7"}`:      -7,
		`{"count":"abc"}`:     0,
		`{"count":" 1"}`:      0,
		`{"count":"1.5"}`:     0,
		`{"count":true}`:      1,
		`{"count":false}`:     0,
		`{"count":3.0}`:       3,
		`{"count":3.5}`:       9,
		`{"count":[1]}`:       9,
		`{"count":{}}`:        9,
		`{"count":null}`:      9,
		`{}`:                  9,
		`{"count":"9999999999999999999999"}`: 0,
	}
	for doc, want := range cases {
		d := decodeFlags(t, doc)
		if d.Value.Count != want {
			t.Fatalf("%s: Count = %d, want %d", doc, d.Value.Count, want)
		}
		if len(d.Issues) > 0 && doc != `{"count":3.5}` && doc != `{"count":[1]}` && doc != `{"count":{}}` {
			t.Fatalf("%s: unexpected issues %v", doc, d.Issues)
		}
	}
	if d := decodeFlags(t, `{"count":"abc"}`); !d.Presence.Has("/count", hoshi.PresenceCoerced) {
		t.Fatalf("string parse should mark coerced: %v", d.Presence)
	}
	if d := decodeFlags(t, `{"count":null}`); !d.Presence.Has("/count", hoshi.PresenceWasNull) {
		t.Fatalf("null should be recorded: %v", d.Presence)
	}
}

func TestDecode_StringLadder(t *testing.T) {
	cases := map[string]string{
		`{"name":"kyo"}`:  "kyo",
		`{"name":12}`:     "12",
		`{"name":-12}`:    "-12",
		`{"name":2.0}`:    "2",
		`{"name":2.5}`:    "x",
		`{"name":true}`:   "x",
		`{"name":["a"]}`:  "x",
		`{"name":""}`:     "",
		`{"other":"kyo"}`: "x",
	}
	for doc, want := range cases {
		if got := decodeFlags(t, doc).Value.Name; got != want {
			t.Fatalf("%s: Name = %q, want %q", doc, got, want)
		}
	}
}

func TestDecode_IntWidths(t *testing.T) {
	s := hoshi.MustSchema[order]()
	cases := []struct {
		doc   string
		id    uint16
		level int8
	}{
		{`{"id":65535,"level":-128}`, 65535, -128},
		{`{"id":65536,"level":128}`, 0, 0},
		{`{"id":-1,"level":"300"}`, 0, 0},
		{`{"id":"+12","level":"-5"}`, 12, -5},
		{`{"id":"-1","level":true}`, 0, 1},
	}
	for _, tc := range cases {
		rec := s.FromJSONString(tc.doc)
		if rec.Value.ID != tc.id || rec.Value.Level != tc.level {
			t.Fatalf("%s: got id=%d level=%d", tc.doc, rec.Value.ID, rec.Value.Level)
		}
	}
}

func TestDecode_FloatKind(t *testing.T) {
	s := hoshi.MustSchema[profile]()
	for doc, want := range map[string]float64{
		`{"score":2}`:     2,
		`{"score":2.25}`:  2.25,
		`{"score":"2.5"}`: 1.5,
		`{"score":true}`:  1.5,
	} {
		if got := s.FromJSONString(doc).Value.Score; got != want {
			t.Fatalf("%s: Score = %v, want %v", doc, got, want)
		}
	}
}

func TestDecode_DefaultsAndMissingKeys(t *testing.T) {
	s := hoshi.MustSchema[profile]()
	rec := s.FromJSONString(`{}`)
	if rec.Value.Nickname != "x" || rec.Value.Score != 1.5 || rec.Value.Age != nil {
		t.Fatalf("defaults not preserved: %+v", rec.Value)
	}
	if len(rec.Issues) != 0 {
		t.Fatalf("missing keys are not issues: %v", rec.Issues)
	}
	if !rec.Presence.Has("/nickname", hoshi.PresenceDefaultApplied) || rec.Presence.Has("/nickname", hoshi.PresenceSeen) {
		t.Fatalf("presence = %v", rec.Presence)
	}
	if _, ok := rec.Presence["/session"]; ok {
		t.Fatalf("nojson fields are not decoded")
	}
}

func TestDecode_WireKeys(t *testing.T) {
	s := hoshi.MustSchema[profile]()
	rec := s.FromJSONString(`{"user_id":"77","url":"https://example.com","legacy_name":"old","age":31,"session":"s","internal":"i"}`)
	v := rec.Value
	if v.UserID != 77 || v.Homepage != "https://example.com" || v.Legacy != "old" {
		t.Fatalf("wire keys not honoured: %+v", v)
	}
	if v.Age == nil || *v.Age != 31 {
		t.Fatalf("optional int = %v", v.Age)
	}
	if v.Session != "" || v.Internal != "" {
		t.Fatalf("nojson and - fields must not decode: %+v", v)
	}
}

func TestDecode_Nested(t *testing.T) {
	s := hoshi.MustSchema[order]()
	rec := s.FromJSONString(`{
		"address": {"zip": 100},
		"billing": {"city": "Osaka"},
		"items": [{"sku": "a"}, {"sku": "b", "qty": "3"}],
		"counts": {"x": 1, "y": 2},
		"extra": {"any": [1, "thing"]},
		"payload": [true, 1.5],
		"created": "2024-05-01T10:00:00Z",
		"fixed": [4, 5],
		"children": [{"id": 2}, null]
	}`)
	v := rec.Value
	if v.Address.City != "Tokyo" || v.Address.Zip != "100" {
		t.Fatalf("nested decode should start from the nested defaults: %+v", v.Address)
	}
	if v.Billing == nil || v.Billing.City != "Osaka" {
		t.Fatalf("optional nested = %+v", v.Billing)
	}
	wantItems := []lineItem{{SKU: "a", Qty: 1}, {SKU: "b", Qty: 3}}
	if diff := cmp.Diff(wantItems, v.Items); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]int{"x": 1, "y": 2}, v.Counts); diff != "" {
		t.Fatalf("counts mismatch (-want +got):\n%s", diff)
	}
	if v.Extra.String() != `{"any":[1,"thing"]}` {
		t.Fatalf("extra = %s", v.Extra)
	}
	if diff := cmp.Diff([]any{true, 1.5}, v.Payload); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
	if !v.Created.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("created = %v", v.Created)
	}
	if v.Fixed != [2]int{4, 5} {
		t.Fatalf("fixed = %v", v.Fixed)
	}
	if len(v.Children) != 2 || v.Children[0] == nil || v.Children[0].ID != 2 || v.Children[1] != nil {
		t.Fatalf("children = %+v", v.Children)
	}
	if len(rec.Issues) != 0 {
		t.Fatalf("unexpected issues: %v", rec.Issues)
	}
	if !rec.Presence.Has("/items/1/qty", hoshi.PresenceSeen|hoshi.PresenceCoerced) {
		t.Fatalf("nested presence missing: %v", rec.Presence.Paths())
	}
}

func TestDecode_StrictContainersKeepDefault(t *testing.T) {
	s := hoshi.MustSchema[order](hoshi.WithDefaults(func() order {
		return order{Counts: map[string]int{"keep": 1}, Items: []lineItem{{SKU: "d"}}, Fixed: [2]int{1, 1}}
	}))
	rec := s.FromJSONString(`{"counts":{"x":"1"},"items":{"sku":"a"},"fixed":[1,2,3],"address":"Tokyo"}`)
	v := rec.Value
	if v.Counts["keep"] != 1 || len(v.Counts) != 1 {
		t.Fatalf("counts should keep default: %v", v.Counts)
	}
	if len(v.Items) != 1 || v.Items[0].SKU != "d" {
		t.Fatalf("items should keep default: %v", v.Items)
	}
	if v.Fixed != [2]int{1, 1} {
		t.Fatalf("fixed should keep default: %v", v.Fixed)
	}
	var paths []string
	for _, is := range rec.Issues {
		if is.Code != hoshi.CodeInvalidType {
			t.Fatalf("unexpected issue %+v", is)
		}
		paths = append(paths, is.Path)
	}
	if diff := cmp.Diff([]string{"/address", "/items", "/counts", "/fixed"}, paths); diff != "" {
		t.Fatalf("issue paths mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_MalformedDocument(t *testing.T) {
	s := hoshi.MustSchema[profile]()
	for _, doc := range []string{`not json`, `[1,2]`, `"str"`, `{"a":`} {
		rec := s.FromJSONString(doc)
		if rec.Value.Nickname != "x" || rec.Value.Score != 1.5 {
			t.Fatalf("%s: expected defaults, got %+v", doc, rec.Value)
		}
		if !rec.Issues.Has(hoshi.CodeParseError) {
			t.Fatalf("%s: expected parse_error, got %v", doc, rec.Issues)
		}
		if rec.Retained() {
			t.Fatalf("%s: malformed input must not be retained", doc)
		}
	}
}

func TestDecode_BaseInitializer(t *testing.T) {
	s := hoshi.MustSchema[account]()
	v := s.DecodeValue(hoshi.MustValue(map[string]any{"id": 3, "name": "n"}))
	if v.ID != 3 || v.Name != "n" {
		t.Fatalf("decoded %+v", v)
	}
	// once for the default construction, once after decoding
	if got := accountInits(v); got != 2 {
		t.Fatalf("InitEntity ran %d times", got)
	}
	if got := accountInits(s.Decode(hoshi.String("nope"), account{})); got != 1 {
		t.Fatalf("defaults-only decode should still run InitEntity once, ran %d", got)
	}
}

func TestDecode_DoesNotTouchDefaults(t *testing.T) {
	s := hoshi.MustSchema[order]()
	defaults := order{Counts: map[string]int{"a": 1}}
	out := s.Decode(hoshi.MustValue(map[string]any{"counts": map[string]any{"b": 2}}), defaults)
	if len(defaults.Counts) != 1 || out.Counts["b"] != 2 || len(out.Counts) != 1 {
		t.Fatalf("defaults=%v out=%v", defaults.Counts, out.Counts)
	}
}
