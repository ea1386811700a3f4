package hoshi

import "github.com/tidwall/gjson"

// LookupBytes evaluates a gjson path (for example "user.tags.0" or
// "items.#.id") against a JSON document and converts the match into a Value.
// It reports false when nothing matches or the document is not valid JSON.
func LookupBytes(doc []byte, path string) (Value, bool) {
	if !gjson.ValidBytes(doc) {
		return Value{}, false
	}
	res := gjson.GetBytes(doc, path)
	if !res.Exists() {
		return Value{}, false
	}
	v, err := Parse([]byte(res.Raw))
	if err != nil {
		return Value{}, false
	}
	return v, true
}
