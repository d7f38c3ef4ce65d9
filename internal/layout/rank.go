package layout

import (
	"fmt"
	"sort"

	"msgc/internal/descriptor"
)

// FieldLayoutRank assigns a sortable placement rank to a non-oneof field.
// Lowest rank is placed first:
//
//	1. 8-byte primitives (and anything not classified below)
//	2. 4-byte primitives (float, int32, uint32)
//	3. bool
//	4. string-like
//	5. singular submessage
//	6. repeated fields of any kind
//
// Descending size order keeps padding near minimal, and fields that can
// carry explicit defaults (1-4) stay segregated from fields that are always
// zero-initialized (5-6). Ties break by declaration number.
//
// Oneof members are placed in a separate pass and must never be ranked.
func FieldLayoutRank(f *descriptor.Field) int64 {
	if f.RealOneof() != nil {
		panic(fmt.Sprintf("layout: rank requested for oneof member %s", f.FullName()))
	}
	var rank int64
	if f.IsRepeated() {
		rank = 6
	} else {
		switch f.Kind() {
		case descriptor.KindMessage:
			rank = 5
		case descriptor.KindString, descriptor.KindBytes:
			rank = 4
		case descriptor.KindBool:
			rank = 3
		case descriptor.KindFloat, descriptor.KindInt32, descriptor.KindUInt32:
			rank = 2
		default:
			rank = 1
		}
	}
	return rank<<29 | int64(f.Number())
}

// HotnessOrder returns a message's fields ordered by assumed serialization
// frequency: required fields first, then ascending declaration number.
// The hasbit allocator walks this order so required fields get the lowest
// bit indices; callers may also use it as a default emission order.
func HotnessOrder(msg *descriptor.Message) []*descriptor.Field {
	fields := append([]*descriptor.Field(nil), msg.Fields()...)
	sort.Slice(fields, func(i, j int) bool {
		a, b := fields[i], fields[j]
		if a.IsRequired() != b.IsRequired() {
			return a.IsRequired()
		}
		return a.Number() < b.Number()
	})
	return fields
}
