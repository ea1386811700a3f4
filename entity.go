package hoshi

import "reflect"

// Entity is the single base a record may embed. Embedding it gives the record
// an initializer hook that runs after every decode and default construction,
// and routes Schema.Equal through the one-sided IsEqual.
//
//	type Account struct {
//		hoshi.Entity
//		ID   int64
//		Name string
//	}
//
// A record overrides the hook by declaring its own InitEntity on the pointer
// receiver.
type Entity struct{}

// InitEntity is the zero-argument base initializer. The default does nothing.
func (*Entity) InitEntity() {}

// Initializer is implemented by records that embed Entity.
type Initializer interface {
	InitEntity()
}

// Defaulter lets a record type fill in its default field values. It is
// called on a fresh zero value before decoding and default construction.
type Defaulter interface {
	SetDefaults()
}

var (
	entityType = reflect.TypeOf(Entity{})
	valueType  = reflect.TypeOf(Value{})
)
