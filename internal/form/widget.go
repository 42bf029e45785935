package form

import (
	"fmt"
	"strconv"
)

// FieldKind identifies the logical type of a form field, derived from the
// field dictionary's FT entry and Ff flags bitfield.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindCheckBox FieldKind = "checkbox"
	KindRadio    FieldKind = "radio"
	KindList     FieldKind = "list"
	KindCombo    FieldKind = "combo"
	KindUnknown  FieldKind = ""
)

// Widget is one logical form field, independent of how many page annotations
// implement it. A radio group with three kid annotations is a single Widget.
type Widget struct {
	Kind FieldKind

	// Name is the fully qualified dotted field identifier; unique per document.
	Name string

	// PageNumber is the zero-based index of the page carrying the first
	// annotation found for this field.
	PageNumber int

	// Value holds the current or staged value. Strings for text fields,
	// an exported choice name or bool for checkboxes and radio groups.
	Value any

	// Description is an optional human label. Discovery never populates it.
	Description string

	// MaxLength is the text field's length constraint, 0 when unconstrained.
	// Text fields only.
	MaxLength int

	// Choices is the ordered set of exported value names. Checkbox and radio
	// fields only.
	Choices []string
}

// SchemaRecord is the external representation of a widget, one entry of the
// form's schema.
type SchemaRecord struct {
	FieldName    string    `json:"FieldName"`
	FieldType    FieldKind `json:"FieldType"`
	FieldValue   any       `json:"FieldValue,omitempty"`
	FieldOptions []string  `json:"FieldOptions,omitempty"`
	MaxLength    int       `json:"MaxLength,omitempty"`
	Description  string    `json:"Description,omitempty"`
}

// schemaRecord renders the widget as a schema entry. Empty values (nil, "",
// false, 0) are omitted from the record.
func (w *Widget) schemaRecord() SchemaRecord {
	rec := SchemaRecord{
		FieldName:   w.Name,
		FieldType:   w.Kind,
		FieldValue:  schemaValue(w.Value),
		Description: w.Description,
	}
	switch w.Kind {
	case KindText:
		rec.MaxLength = w.MaxLength
	case KindCheckBox, KindRadio:
		rec.FieldOptions = w.Choices
	}
	return rec
}

// mergeChoices unions newly found choices into the widget without duplicates,
// preserving first-seen order. Only checkbox and radio widgets carry choices.
func (w *Widget) mergeChoices(choices []string) {
	if w.Kind != KindCheckBox && w.Kind != KindRadio {
		return
	}
	for _, c := range choices {
		if !containsString(w.Choices, c) {
			w.Choices = append(w.Choices, c)
		}
	}
}

// valueString renders the widget value for a text fill. Numeric values coerce
// to their string form, nil renders as the empty string.
func (w *Widget) valueString() string {
	switch v := w.Value.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// schemaValue drops values a schema record should not carry: nil, empty
// strings, false booleans and zero numbers.
func schemaValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		if val == "" {
			return nil
		}
	case bool:
		if !val {
			return nil
		}
	case int:
		if val == 0 {
			return nil
		}
	case float64:
		if val == 0 {
			return nil
		}
	}
	return v
}

func containsString(s []string, v string) bool {
	for _, e := range s {
		if e == v {
			return true
		}
	}
	return false
}

// widgetMap is the ordered name→Widget index built by discovery. Iteration
// order is first-discovered order.
type widgetMap struct {
	order   []string
	widgets map[string]*Widget
}

func newWidgetMap() *widgetMap {
	return &widgetMap{widgets: make(map[string]*Widget)}
}

func (m *widgetMap) get(name string) (*Widget, bool) {
	w, ok := m.widgets[name]
	return w, ok
}

func (m *widgetMap) put(w *Widget) {
	if _, ok := m.widgets[w.Name]; !ok {
		m.order = append(m.order, w.Name)
	}
	m.widgets[w.Name] = w
}

func (m *widgetMap) len() int {
	return len(m.order)
}

func (m *widgetMap) all() []*Widget {
	ws := make([]*Widget, 0, len(m.order))
	for _, name := range m.order {
		ws = append(ws, m.widgets[name])
	}
	return ws
}
