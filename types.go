package hoshi

// Severity expresses the severity level for issues.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// Strictness configures enforcement for duplicate keys.
type Strictness struct {
	// OnDuplicateKey: Ignore keeps the last occurrence silently, Warn keeps
	// the last occurrence and logs, Error rejects the document.
	OnDuplicateKey Severity
}

// ParseOpt bundles parsing options. The zero value parses any valid JSON
// document with no depth or size limit.
type ParseOpt struct {
	Strictness Strictness
	MaxDepth   int
	MaxBytes   int64
}

// Kind is the declared semantic type of a record field.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindFloat
	KindString
	KindNested
	KindList
	KindMap
	KindDynamic
)

var kindNames = [...]string{"Bool", "Int", "Float", "String", "Nested", "List", "Map", "Dynamic"}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// ValueType enumerates the variants of Value.
type ValueType int

const (
	TypeNull ValueType = iota
	TypeBool
	TypeInt
	TypeFloat
	TypeString
	TypeArray
	TypeObject
)

var valueTypeNames = [...]string{"null", "bool", "int", "float", "string", "array", "object"}

func (t ValueType) String() string {
	if t >= 0 && int(t) < len(valueTypeNames) {
		return valueTypeNames[t]
	}
	return "invalid"
}
