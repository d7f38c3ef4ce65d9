// Package descriptor holds the read-only message/field/oneof model consumed
// by the layout planner. Descriptors are constructed once (by the TOML loader
// or by NewMessage directly) and never mutated afterwards, so they are safe
// to share across concurrent planner instances.
package descriptor

import "fmt"

// Field describes one declared field of a message.
type Field struct {
	name     string
	number   int32
	kind     Kind
	label    Label
	implicit bool
	oneof    *Oneof
	parent   *Message
}

func (f *Field) Name() string { return f.name }

func (f *Field) Number() int32 { return f.number }

func (f *Field) Kind() Kind { return f.kind }

func (f *Field) Label() Label { return f.label }

func (f *Field) IsRequired() bool { return f.label == LabelRequired }

func (f *Field) IsRepeated() bool { return f.label == LabelRepeated }

// HasPresence reports whether the field tracks explicit presence.
// Repeated fields never do; singular fields do unless declared with
// implicit (proto3-scalar style) presence. Oneof members always do.
func (f *Field) HasPresence() bool {
	if f.oneof != nil {
		return true
	}
	return f.label != LabelRepeated && !f.implicit
}

// RealOneof returns the oneof group the field belongs to, or nil.
func (f *Field) RealOneof() *Oneof { return f.oneof }

// Parent returns the enclosing message.
func (f *Field) Parent() *Message { return f.parent }

// FullName is "Message.field", used in error and panic messages.
func (f *Field) FullName() string {
	if f.parent == nil {
		return f.name
	}
	return f.parent.name + "." + f.name
}

// Oneof describes a group of fields sharing one storage slot.
type Oneof struct {
	name   string
	parent *Message
	fields []*Field
}

func (o *Oneof) Name() string { return o.name }

// Fields returns the group members in declaration order. The returned slice
// must not be modified.
func (o *Oneof) Fields() []*Field { return o.fields }

func (o *Oneof) FullName() string {
	if o.parent == nil {
		return o.name
	}
	return o.parent.name + "." + o.name
}

// Message describes one record type.
type Message struct {
	name     string
	mapEntry bool
	fields   []*Field
	oneofs   []*Oneof
	byNumber map[int32]*Field
}

func (m *Message) Name() string { return m.name }

// IsMapEntry reports whether this is a synthetic key/value pair type.
func (m *Message) IsMapEntry() bool { return m.mapEntry }

// Fields returns all fields in declaration order, including oneof members.
// The returned slice must not be modified.
func (m *Message) Fields() []*Field { return m.fields }

// Oneofs returns the oneof groups in declaration order.
func (m *Message) Oneofs() []*Oneof { return m.oneofs }

// FieldByNumber returns the field with the given declaration number, or nil.
func (m *Message) FieldByNumber(n int32) *Field { return m.byNumber[n] }

// FieldConfig is the loader-facing description of one field.
type FieldConfig struct {
	Name     string
	Number   int32
	Kind     Kind
	Label    Label
	Implicit bool
	Oneof    string // group name, empty for none
}

// MessageConfig is the loader-facing description of one message.
type MessageConfig struct {
	Name     string
	MapEntry bool
	Oneofs   []string
	Fields   []FieldConfig
}

// NewMessage validates a message description and freezes it into a Message.
// Structural validity (names, numbers, oneof references, map-entry shape) is
// checked here; scale limits are the planner's concern.
func NewMessage(cfg MessageConfig) (*Message, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("message with no name")
	}
	m := &Message{
		name:     cfg.Name,
		mapEntry: cfg.MapEntry,
		byNumber: make(map[int32]*Field, len(cfg.Fields)),
	}

	oneofByName := make(map[string]*Oneof, len(cfg.Oneofs))
	for _, name := range cfg.Oneofs {
		if name == "" {
			return nil, fmt.Errorf("%s: oneof with no name", cfg.Name)
		}
		if _, dup := oneofByName[name]; dup {
			return nil, fmt.Errorf("%s: duplicate oneof %q", cfg.Name, name)
		}
		o := &Oneof{name: name, parent: m}
		oneofByName[name] = o
		m.oneofs = append(m.oneofs, o)
	}

	seenNames := make(map[string]struct{}, len(cfg.Fields))
	for _, fc := range cfg.Fields {
		if fc.Name == "" {
			return nil, fmt.Errorf("%s: field with no name", cfg.Name)
		}
		if _, dup := seenNames[fc.Name]; dup {
			return nil, fmt.Errorf("%s: duplicate field %q", cfg.Name, fc.Name)
		}
		seenNames[fc.Name] = struct{}{}
		if fc.Number <= 0 {
			return nil, fmt.Errorf("%s.%s: field number must be positive, got %d", cfg.Name, fc.Name, fc.Number)
		}
		if _, dup := m.byNumber[fc.Number]; dup {
			return nil, fmt.Errorf("%s.%s: duplicate field number %d", cfg.Name, fc.Name, fc.Number)
		}
		if _, ok := kindNames[fc.Kind]; !ok {
			return nil, fmt.Errorf("%s.%s: unknown kind", cfg.Name, fc.Name)
		}
		label := fc.Label
		if label == 0 {
			label = LabelOptional
		}
		if fc.Implicit && label != LabelOptional {
			return nil, fmt.Errorf("%s.%s: implicit presence requires an optional field", cfg.Name, fc.Name)
		}

		f := &Field{
			name:     fc.Name,
			number:   fc.Number,
			kind:     fc.Kind,
			label:    label,
			implicit: fc.Implicit,
			parent:   m,
		}
		if fc.Oneof != "" {
			o, ok := oneofByName[fc.Oneof]
			if !ok {
				return nil, fmt.Errorf("%s.%s: unknown oneof %q", cfg.Name, fc.Name, fc.Oneof)
			}
			if label != LabelOptional {
				return nil, fmt.Errorf("%s.%s: oneof members must be singular optional fields", cfg.Name, fc.Name)
			}
			f.oneof = o
			o.fields = append(o.fields, f)
		}
		m.fields = append(m.fields, f)
		m.byNumber[fc.Number] = f
	}

	for _, o := range m.oneofs {
		if len(o.fields) == 0 {
			return nil, fmt.Errorf("%s: oneof %q has no members", cfg.Name, o.name)
		}
	}

	if cfg.MapEntry {
		if len(m.fields) != 2 || m.byNumber[1] == nil || m.byNumber[2] == nil {
			return nil, fmt.Errorf("%s: map entry must have exactly fields 1 (key) and 2 (value)", cfg.Name)
		}
		if len(m.oneofs) != 0 {
			return nil, fmt.Errorf("%s: map entry cannot declare oneofs", cfg.Name)
		}
	}

	return m, nil
}

// Schema is an ordered, name-indexed collection of messages from one source.
type Schema struct {
	messages []*Message
	byName   map[string]*Message
}

// NewSchema freezes a set of messages into a Schema.
func NewSchema(messages []*Message) (*Schema, error) {
	s := &Schema{
		messages: messages,
		byName:   make(map[string]*Message, len(messages)),
	}
	for _, m := range messages {
		if _, dup := s.byName[m.name]; dup {
			return nil, fmt.Errorf("duplicate message %q", m.name)
		}
		s.byName[m.name] = m
	}
	return s, nil
}

// Messages returns all messages in declaration order.
func (s *Schema) Messages() []*Message { return s.messages }

// Message returns the message with the given name, or nil.
func (s *Schema) Message(name string) *Message { return s.byName[name] }
