package descriptor

import (
	"fmt"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"
)

// Schema files are TOML documents:
//
//	[[message]]
//	name = "Person"
//
//	[[message.oneof]]
//	name = "contact"
//
//	[[message.field]]
//	name = "id"
//	number = 1
//	kind = "int32"
//	label = "required"
//
// Field tables accept kind (required), number (required), label
// (optional|required|repeated, default optional), implicit (bool) and
// oneof (group name). Messages accept map_entry (bool).

type schemaDoc struct {
	Message []messageDoc `toml:"message"`
}

type messageDoc struct {
	Name     string     `toml:"name"`
	MapEntry bool       `toml:"map_entry"`
	Oneof    []oneofDoc `toml:"oneof"`
	Field    []fieldDoc `toml:"field"`
}

type oneofDoc struct {
	Name string `toml:"name"`
}

type fieldDoc struct {
	Name     string `toml:"name"`
	Number   int64  `toml:"number"`
	Kind     string `toml:"kind"`
	Label    string `toml:"label"`
	Implicit bool   `toml:"implicit"`
	Oneof    string `toml:"oneof"`
}

// LoadFile reads and validates a schema file.
func LoadFile(path string) (*Schema, error) {
	var doc schemaDoc
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	s, err := fromDoc(&doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse validates a schema from TOML source text.
func Parse(data string) (*Schema, error) {
	var doc schemaDoc
	if _, err := toml.Decode(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	return fromDoc(&doc)
}

func fromDoc(doc *schemaDoc) (*Schema, error) {
	messages := make([]*Message, 0, len(doc.Message))
	for _, md := range doc.Message {
		cfg := MessageConfig{
			Name:     md.Name,
			MapEntry: md.MapEntry,
		}
		for _, od := range md.Oneof {
			cfg.Oneofs = append(cfg.Oneofs, od.Name)
		}
		for _, fd := range md.Field {
			kind, ok := KindFromString(fd.Kind)
			if !ok {
				return nil, fmt.Errorf("%s.%s: unknown kind %q", md.Name, fd.Name, fd.Kind)
			}
			label, ok := LabelFromString(fd.Label)
			if !ok {
				return nil, fmt.Errorf("%s.%s: unknown label %q", md.Name, fd.Name, fd.Label)
			}
			number, err := safecast.Conv[int32](fd.Number)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: field number %d out of range", md.Name, fd.Name, fd.Number)
			}
			cfg.Fields = append(cfg.Fields, FieldConfig{
				Name:     fd.Name,
				Number:   number,
				Kind:     kind,
				Label:    label,
				Implicit: fd.Implicit,
				Oneof:    fd.Oneof,
			})
		}
		m, err := NewMessage(cfg)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return NewSchema(messages)
}
