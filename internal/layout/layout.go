// Package layout computes the in-memory layout of a message type: byte
// offsets for every field, a packed presence bitset, and overlay slots for
// oneof groups, for 32-bit and 64-bit address widths simultaneously.
package layout

import (
	"fmt"
	"sort"

	"msgc/internal/descriptor"
)

// requiredHasbitLimit is the highest hasbit index a required field may
// occupy: the decoder keeps required-field presence in one 64-bit word and
// index 0 is reserved.
const requiredHasbitLimit = 63

// strView is the fixed slot used for both halves of a map entry. Map entries
// are never materialized, only walked during parsing, so giving every map
// entry type the same two-slot layout keeps the decoder uniform.
var strView = SizeAndAlign{Size: MakeSize(8, 16), Align: MakeSize(4, 8)}

// MessageLayout is the computed layout of one message type. It is built
// entirely inside New and read-only afterwards.
type MessageLayout struct {
	msg *descriptor.Message

	fieldOffsets     map[*descriptor.Field]Size
	oneofCaseOffsets map[*descriptor.Oneof]Size
	hasbitIndexes    map[*descriptor.Field]int

	size     Size
	maxAlign Size

	hasbitCount   int
	hasbitBytes   int64
	requiredCount int
}

// New plans the layout of msg. The only reported failure is exceeding the
// required-hasbit limit; everything else the planner trusts or treats as a
// programmer error.
func New(msg *descriptor.Message) (*MessageLayout, error) {
	l := &MessageLayout{
		msg:              msg,
		fieldOffsets:     make(map[*descriptor.Field]Size, len(msg.Fields())),
		oneofCaseOffsets: make(map[*descriptor.Oneof]Size, len(msg.Oneofs())),
		hasbitIndexes:    make(map[*descriptor.Field]int),
		size:             MakeSize(0, 0),
		maxAlign:         MakeSize(8, 8),
	}
	if err := l.compute(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *MessageLayout) compute() error {
	msg := l.msg
	if msg.IsMapEntry() {
		l.fieldOffsets[msg.FieldByNumber(1)] = l.place(strView)
		l.fieldOffsets[msg.FieldByNumber(2)] = l.place(strView)
	} else {
		if err := l.placeNonOneofFields(msg); err != nil {
			return err
		}
		l.placeOneofFields(msg)
	}

	// Align the overall size up to the largest placed element. Note this
	// tracks element sizes, not alignments; generated struct sizes depend
	// on the resulting values, so it stays that way.
	l.size = l.size.AlignUp(l.maxAlign)
	return nil
}

// place is the single placement primitive: round the cursor up to the
// element's alignment, record the offset, advance past the element.
func (l *MessageLayout) place(sa SizeAndAlign) Size {
	offset := l.size.AlignUp(sa.Align)
	l.size = offset.Add(sa.Size)
	l.maxAlign = l.maxAlign.Max(sa.Size)
	return offset
}

func (l *MessageLayout) placeNonOneofFields(msg *descriptor.Message) error {
	var order []*descriptor.Field
	for _, f := range msg.Fields() {
		if f.RealOneof() == nil {
			order = append(order, f)
		}
	}
	sort.Slice(order, func(i, j int) bool {
		return FieldLayoutRank(order[i]) < FieldLayoutRank(order[j])
	})

	for _, f := range HotnessOrder(msg) {
		if !HasHasbit(f) {
			continue
		}
		// Hasbit 0 is never assigned so that 0 can mean "no presence"
		// in lookup tables. This wastes one bit.
		index := l.hasbitCount + 1
		if f.IsRequired() {
			if index > requiredHasbitLimit {
				return &Error{
					Kind:    ErrRequiredHasbitLimit,
					Message: msg.Name(),
					Field:   f.Name(),
					Limit:   requiredHasbitLimit,
				}
			}
			l.requiredCount++
		}
		l.hasbitCount = index
		l.hasbitIndexes[f] = index
	}

	// The bitset goes first in the struct, byte-aligned.
	l.hasbitBytes = divRoundUp(int64(l.hasbitCount), 8)
	l.place(SizeAndAlign{
		Size:  MakeSize(l.hasbitBytes, l.hasbitBytes),
		Align: MakeSize(1, 1),
	})

	for _, f := range order {
		l.fieldOffsets[f] = l.place(SizeOf(f))
	}
	return nil
}

func (l *MessageLayout) placeOneofFields(msg *descriptor.Message) {
	oneofs := append([]*descriptor.Oneof(nil), msg.Oneofs()...)
	sort.Slice(oneofs, func(i, j int) bool {
		return oneofs[i].FullName() < oneofs[j].FullName()
	})

	for _, oneof := range oneofs {
		// All members overlay one slot sized to the largest member.
		// Members are always singular, so the unwrapped size applies.
		var maxSize SizeAndAlign
		for _, f := range oneof.Fields() {
			maxSize = maxSize.Max(SizeOfUnwrapped(f))
		}

		data := l.place(maxSize)
		discriminator := l.place(SizeAndAlign{Size: MakeSize(4, 4), Align: MakeSize(4, 4)})

		l.oneofCaseOffsets[oneof] = discriminator
		for _, f := range oneof.Fields() {
			l.fieldOffsets[f] = data
		}
	}
}

// FieldOffset returns the placed offset of a field of the planned message.
// Asking for a field with no recorded placement is a programmer error.
func (l *MessageLayout) FieldOffset(f *descriptor.Field) Size {
	offset, ok := l.fieldOffsets[f]
	if !ok {
		panic(fmt.Sprintf("layout: no offset recorded for field %s", f.FullName()))
	}
	return offset
}

// OneofCaseOffset returns the discriminator offset of a oneof group.
func (l *MessageLayout) OneofCaseOffset(oneof *descriptor.Oneof) Size {
	offset, ok := l.oneofCaseOffsets[oneof]
	if !ok {
		panic(fmt.Sprintf("layout: no case offset recorded for oneof %s", oneof.FullName()))
	}
	return offset
}

// HasbitIndex returns the 1-based hasbit index of a presence-tracked field.
func (l *MessageLayout) HasbitIndex(f *descriptor.Field) int {
	index, ok := l.hasbitIndexes[f]
	if !ok {
		panic(fmt.Sprintf("layout: no hasbit recorded for field %s", f.FullName()))
	}
	return index
}

// Message returns the planned message.
func (l *MessageLayout) Message() *descriptor.Message { return l.msg }

// MessageSize returns the overall struct size for both widths.
func (l *MessageLayout) MessageSize() Size { return l.size }

// HasbitCount returns the number of allocated hasbits.
func (l *MessageLayout) HasbitCount() int { return l.hasbitCount }

// HasbitBytes returns the byte size of the presence bitset.
func (l *MessageLayout) HasbitBytes() int64 { return l.hasbitBytes }

// RequiredCount returns how many hasbits belong to required fields.
// Required fields always hold the lowest hasbit indices.
func (l *MessageLayout) RequiredCount() int { return l.requiredCount }

// HasHasbit reports whether a field gets a presence bit: it must track
// explicit presence, sit outside any oneof, and not belong to a map entry.
func HasHasbit(f *descriptor.Field) bool {
	return f.HasPresence() && f.RealOneof() == nil && !f.Parent().IsMapEntry()
}

// SizeOf returns the occupied size and alignment of a field as stored in the
// message struct. Repeated fields of any kind are a reference to an
// out-of-line array.
func SizeOf(f *descriptor.Field) SizeAndAlign {
	if f.IsRepeated() {
		return SizeAndAlign{Size: MakeSize(4, 8), Align: MakeSize(4, 8)}
	}
	return SizeOfUnwrapped(f)
}

// SizeOfUnwrapped returns the size and alignment of a field's bare value,
// ignoring the repeated wrapping.
func SizeOfUnwrapped(f *descriptor.Field) SizeAndAlign {
	switch f.Kind() {
	case descriptor.KindMessage:
		// Pointer to message.
		return SizeAndAlign{Size: MakeSize(4, 8), Align: MakeSize(4, 8)}
	case descriptor.KindString, descriptor.KindBytes:
		// Two-word view: pointer plus length.
		return SizeAndAlign{Size: MakeSize(8, 16), Align: MakeSize(4, 8)}
	case descriptor.KindBool:
		return SizeAndAlign{Size: MakeSize(1, 1), Align: MakeSize(1, 1)}
	case descriptor.KindFloat, descriptor.KindInt32, descriptor.KindUInt32, descriptor.KindEnum:
		return SizeAndAlign{Size: MakeSize(4, 4), Align: MakeSize(4, 4)}
	case descriptor.KindInt64, descriptor.KindUInt64, descriptor.KindDouble:
		return SizeAndAlign{Size: MakeSize(8, 8), Align: MakeSize(8, 8)}
	}
	panic(fmt.Sprintf("layout: unknown kind %v for field %s", f.Kind(), f.FullName()))
}
