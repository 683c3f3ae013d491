package domain

import (
	"testing"
)

func validNotetype() *Notetype {
	return &Notetype{
		ID:   1,
		Name: "Basic",
		Fields: []Field{
			{Ord: 0, Name: "Front"},
			{Ord: 1, Name: "Back"},
		},
		Templates: []Template{{Ord: 0, Name: "Card 1"}},
	}
}

func TestValidateNotetype(t *testing.T) {
	if err := ValidateNotetype(validNotetype()); err != nil {
		t.Fatalf("expected valid notetype, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(nt *Notetype)
	}{
		{"empty name", func(nt *Notetype) { nt.Name = "" }},
		{"no fields", func(nt *Notetype) { nt.Fields = nil }},
		{"no templates", func(nt *Notetype) { nt.Templates = nil }},
		{"empty field name", func(nt *Notetype) { nt.Fields[0].Name = "" }},
		{"duplicate field name", func(nt *Notetype) { nt.Fields[1].Name = "Front" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nt := validNotetype()
			tt.mutate(nt)
			if err := ValidateNotetype(nt); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateNote(t *testing.T) {
	valid := &Note{ID: 1, GUID: "g", NotetypeID: 1, Fields: []string{"a"}}
	if err := ValidateNote(valid); err != nil {
		t.Fatalf("expected valid note, got %v", err)
	}

	tests := []struct {
		name string
		note Note
	}{
		{"empty guid", Note{ID: 1, NotetypeID: 1, Fields: []string{"a"}}},
		{"zero notetype", Note{ID: 1, GUID: "g", Fields: []string{"a"}}},
		{"no fields", Note{ID: 1, GUID: "g", NotetypeID: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			note := tt.note
			if err := ValidateNote(&note); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestNotFoundError(t *testing.T) {
	err := &NotFoundError{Resource: "notetype", ID: 42}
	if err.Error() != "notetype not found: 42" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestNewGUID(t *testing.T) {
	a := NewGUID()
	b := NewGUID()
	if a == "" || a == b {
		t.Errorf("expected distinct non-empty guids, got %q and %q", a, b)
	}
}

func TestNotetypeNameHelpers(t *testing.T) {
	nt := validNotetype()
	fields := nt.FieldNames()
	if len(fields) != 2 || fields[0] != "Front" || fields[1] != "Back" {
		t.Errorf("unexpected field names: %v", fields)
	}
	templates := nt.TemplateNames()
	if len(templates) != 1 || templates[0] != "Card 1" {
		t.Errorf("unexpected template names: %v", templates)
	}
}
