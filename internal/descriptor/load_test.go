package descriptor

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleSchema = `
[[message]]
name = "Person"

[[message.oneof]]
name = "contact"

[[message.field]]
name = "id"
number = 1
kind = "int32"
label = "required"

[[message.field]]
name = "email"
number = 2
kind = "string"
oneof = "contact"

[[message.field]]
name = "phone"
number = 3
kind = "string"
oneof = "contact"

[[message]]
name = "Person.AttrsEntry"
map_entry = true

[[message.field]]
name = "key"
number = 1
kind = "string"

[[message.field]]
name = "value"
number = 2
kind = "string"
`

func TestParse(t *testing.T) {
	s, err := Parse(sampleSchema)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := len(s.Messages()); got != 2 {
		t.Fatalf("got %d messages, want 2", got)
	}

	person := s.Message("Person")
	if person == nil {
		t.Fatal("Person not found")
	}
	if got := len(person.Fields()); got != 3 {
		t.Fatalf("Person has %d fields, want 3", got)
	}
	if !person.FieldByNumber(1).IsRequired() {
		t.Fatal("Person.id should be required")
	}
	email := person.FieldByNumber(2)
	if email.Kind() != KindString || email.RealOneof() == nil {
		t.Fatalf("unexpected email field: kind=%v oneof=%v", email.Kind(), email.RealOneof())
	}

	entry := s.Message("Person.AttrsEntry")
	if entry == nil || !entry.IsMapEntry() {
		t.Fatal("map entry message not loaded")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"bad toml", `[[message]`},
		{"unknown kind", `
[[message]]
name = "M"
[[message.field]]
name = "a"
number = 1
kind = "quaternion"
`},
		{"unknown label", `
[[message]]
name = "M"
[[message.field]]
name = "a"
number = 1
kind = "int32"
label = "sometimes"
`},
		{"number out of range", `
[[message]]
name = "M"
[[message.field]]
name = "a"
number = 3000000000
kind = "int32"
`},
		{"duplicate message", `
[[message]]
name = "M"
[[message.field]]
name = "a"
number = 1
kind = "int32"
[[message]]
name = "M"
[[message.field]]
name = "a"
number = 1
kind = "int32"
`},
	}
	for _, tt := range tests {
		if _, err := Parse(tt.src); err == nil {
			t.Errorf("%s: expected error, got nil", tt.name)
		}
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.toml")
	if err := os.WriteFile(path, []byte(sampleSchema), 0o644); err != nil {
		t.Fatalf("write schema: %v", err)
	}
	s, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if s.Message("Person") == nil {
		t.Fatal("Person not found")
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
