package benchmarks_test

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	gojson "github.com/goccy/go-json"

	"github.com/reoring/hoshi"
)

type item struct {
	ID    int64    `json:"id"`
	Name  string   `json:"name"`
	Price float64  `json:"price"`
	Live  bool     `json:"live"`
	Tags  []string `json:"tags"`
}

type catalog struct {
	Owner string `json:"owner"`
	Items []item `json:"items"`
}

var catalogs = hoshi.MustSchema[catalog]()

// catalogJSON returns a document with n items. With mixed set, every third
// item carries its id as a string and its flag as 0/1.
func catalogJSON(n int, mixed bool) []byte {
	var b strings.Builder
	b.WriteString(`{"owner":"bench","items":[`)
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		id, live := strconv.Itoa(i), "true"
		if mixed && i%3 == 0 {
			id, live = strconv.Quote(id), "1"
		}
		fmt.Fprintf(&b, `{"id":%s,"name":"item-%d","price":%d.5,"live":%s,"tags":["a","b"]}`, id, i, i, live)
	}
	b.WriteString(`]}`)
	return []byte(b.String())
}

func BenchmarkDecode_Record(b *testing.B) {
	for _, n := range []int{1, 100, 1000} {
		doc := catalogJSON(n, false)
		b.Run(strconv.Itoa(n), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(doc)))
			for i := 0; i < b.N; i++ {
				rec := catalogs.FromBytes(doc)
				if len(rec.Value.Items) != n {
					b.Fatalf("decoded %d items", len(rec.Value.Items))
				}
			}
		})
	}
}

func BenchmarkDecode_GoJSON(b *testing.B) {
	for _, n := range []int{1, 100, 1000} {
		doc := catalogJSON(n, false)
		b.Run(strconv.Itoa(n), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(doc)))
			for i := 0; i < b.N; i++ {
				var c catalog
				if err := gojson.Unmarshal(doc, &c); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkEncode_Record(b *testing.B) {
	v := catalogs.FromBytes(catalogJSON(100, false)).Value
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := catalogs.Encode(v); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEncode_GoJSON(b *testing.B) {
	v := catalogs.FromBytes(catalogJSON(100, false)).Value
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := gojson.Marshal(v); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEqual(b *testing.B) {
	x := catalogs.FromBytes(catalogJSON(100, false)).Value
	y := catalogs.FromBytes(catalogJSON(100, false)).Value
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if !catalogs.Equal(x, y) {
			b.Fatal("records differ")
		}
	}
}

func TestMixedDocumentDecodes(t *testing.T) {
	rec := catalogs.FromBytes(catalogJSON(6, true))
	if len(rec.Value.Items) != 6 {
		t.Fatalf("decoded %d items", len(rec.Value.Items))
	}
	for i, it := range rec.Value.Items {
		if it.ID != int64(i) || !it.Live {
			t.Fatalf("item %d = %+v", i, it)
		}
	}
	var strict catalog
	if err := gojson.Unmarshal(catalogJSON(6, true), &strict); err == nil {
		t.Fatalf("go-json should reject string ids")
	}
}
