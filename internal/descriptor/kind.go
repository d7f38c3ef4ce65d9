package descriptor

import "fmt"

// Kind classifies a field's value type. This is the full set of kinds the
// layout planner knows how to size; the loader rejects anything else.
type Kind uint8

const (
	KindBool Kind = iota + 1
	KindInt32
	KindUInt32
	KindFloat
	KindEnum
	KindInt64
	KindUInt64
	KindDouble
	KindString
	KindBytes
	KindMessage
)

var kindNames = map[Kind]string{
	KindBool:    "bool",
	KindInt32:   "int32",
	KindUInt32:  "uint32",
	KindFloat:   "float",
	KindEnum:    "enum",
	KindInt64:   "int64",
	KindUInt64:  "uint64",
	KindDouble:  "double",
	KindString:  "string",
	KindBytes:   "bytes",
	KindMessage: "message",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind#%d", uint8(k))
}

// KindFromString resolves a schema-file kind name.
func KindFromString(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// Label is the declared cardinality of a field.
type Label uint8

const (
	LabelOptional Label = iota + 1
	LabelRequired
	LabelRepeated
)

func (l Label) String() string {
	switch l {
	case LabelOptional:
		return "optional"
	case LabelRequired:
		return "required"
	case LabelRepeated:
		return "repeated"
	default:
		return fmt.Sprintf("label#%d", uint8(l))
	}
}

// LabelFromString resolves a schema-file label name. The empty string
// defaults to optional.
func LabelFromString(name string) (Label, bool) {
	switch name {
	case "", "optional":
		return LabelOptional, true
	case "required":
		return LabelRequired, true
	case "repeated":
		return LabelRepeated, true
	default:
		return 0, false
	}
}
