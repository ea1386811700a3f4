package hoshi

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Hash returns a structural 64-bit hash. Values that are Equal hash equal;
// object members are combined independently of key order.
func (v Value) Hash() uint64 {
	d := xxhash.New()
	v.hashInto(d)
	return d.Sum64()
}

func (v Value) hashInto(d *xxhash.Digest) {
	var scratch [9]byte
	scratch[0] = byte(v.typ)
	switch v.typ {
	case TypeNull:
		_, _ = d.Write(scratch[:1])
	case TypeBool:
		if v.b {
			scratch[1] = 1
		}
		_, _ = d.Write(scratch[:2])
	case TypeInt:
		binary.LittleEndian.PutUint64(scratch[1:], uint64(v.i))
		_, _ = d.Write(scratch[:])
	case TypeFloat:
		binary.LittleEndian.PutUint64(scratch[1:], floatBits(v.f))
		_, _ = d.Write(scratch[:])
	case TypeString:
		_, _ = d.Write(scratch[:1])
		_, _ = d.WriteString(v.s)
	case TypeArray:
		binary.LittleEndian.PutUint64(scratch[1:], uint64(len(v.arr)))
		_, _ = d.Write(scratch[:])
		for _, e := range v.arr {
			writeUint64(d, e.Hash())
		}
	case TypeObject:
		binary.LittleEndian.PutUint64(scratch[1:], uint64(len(v.obj)))
		_, _ = d.Write(scratch[:])
		var sum uint64
		for k, e := range v.obj {
			sum += xxhash.Sum64String(k) ^ (e.Hash() * 0x9e3779b97f4a7c15)
		}
		writeUint64(d, sum)
	}
}

// floatBits folds -0 onto +0 so that equal floats share bits.
func floatBits(f float64) uint64 {
	if f == 0 {
		return 0
	}
	return math.Float64bits(f)
}

func writeUint64(d *xxhash.Digest, u uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], u)
	_, _ = d.Write(b[:])
}
