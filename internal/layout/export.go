package layout

import (
	"sort"

	"msgc/internal/descriptor"
)

// MessageExport is a self-contained, serializable snapshot of a computed
// layout: the full output contract (offsets, hasbits, oneof cases, sizes)
// keyed by name instead of descriptor identity. Formatters and the disk
// cache work on exports; codegen callers use MessageLayout directly.
type MessageExport struct {
	Name          string
	Size          Size
	HasbitCount   int
	HasbitBytes   int64
	RequiredCount int
	Fields        []FieldExport
	Oneofs        []OneofExport
}

// FieldExport is one field's slice of the output contract. Hasbit 0 means
// the field has no presence bit.
type FieldExport struct {
	Name   string
	Number int32
	Kind   string
	Label  string
	Offset Size
	Hasbit int
	Oneof  string
}

// OneofExport records a oneof group's discriminator placement.
type OneofExport struct {
	Name       string
	CaseOffset Size
}

// Export snapshots the layout. Fields come out in declaration-number order,
// oneofs sorted by name, so exports of identical descriptions compare equal.
func (l *MessageLayout) Export() *MessageExport {
	msg := l.msg
	out := &MessageExport{
		Name:          msg.Name(),
		Size:          l.size,
		HasbitCount:   l.hasbitCount,
		HasbitBytes:   l.hasbitBytes,
		RequiredCount: l.requiredCount,
	}

	fields := append([]*descriptor.Field(nil), msg.Fields()...)
	sort.Slice(fields, func(i, j int) bool { return fields[i].Number() < fields[j].Number() })
	for _, f := range fields {
		fe := FieldExport{
			Name:   f.Name(),
			Number: f.Number(),
			Kind:   f.Kind().String(),
			Label:  f.Label().String(),
			Offset: l.FieldOffset(f),
			Hasbit: l.hasbitIndexes[f],
		}
		if oneof := f.RealOneof(); oneof != nil {
			fe.Oneof = oneof.Name()
		}
		out.Fields = append(out.Fields, fe)
	}

	oneofs := append([]*descriptor.Oneof(nil), msg.Oneofs()...)
	sort.Slice(oneofs, func(i, j int) bool { return oneofs[i].Name() < oneofs[j].Name() })
	for _, oneof := range oneofs {
		out.Oneofs = append(out.Oneofs, OneofExport{
			Name:       oneof.Name(),
			CaseOffset: l.OneofCaseOffset(oneof),
		})
	}
	return out
}
