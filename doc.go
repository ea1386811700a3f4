// Package hoshi decodes JSON into typed Go records leniently, encodes them
// back and compares them structurally.
//
//   - A Schema is built once per struct type by reflection and shared by
//     every goroutine. Struct tags rename fields (hoshi:"name=...") and drop
//     them from equality (noequal) or from JSON (nojson).
//   - Decoding never fails. Missing keys and nulls keep defaults, and scalar
//     fields coerce between booleans, integers and strings where upstream
//     producers disagree. Anything else keeps the default and is reported
//     through Issues and PresenceMap.
//   - Records built from raw input retain it, so re-encoding reproduces the
//     input verbatim including keys the record type does not declare.
//   - Value is an immutable JSON tree used for documents and as an escape
//     hatch field type.
//
// Typical usage:
//
//	type User struct {
//		UserID int64
//		Name   string
//		Admin  bool
//		Notes  string `hoshi:"noequal"`
//	}
//
//	var users = hoshi.MustSchema[User]()
//
//	rec := users.FromJSONString(`{"user_id":"42","name":"kyo","admin":1}`)
//	fmt.Println(rec.Description()) // User(UserID: 42, Name: kyo, Admin: true, Notes: )
//	fmt.Println(rec.JSONString())  // the input, verbatim
//
// JSON input is tokenized by goccy/go-json by default; UseStdlibJSONDriver
// switches to encoding/json. Logging goes through a zap logger installed with
// SetLogger and is silent otherwise.
package hoshi
