package form

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaRecordOmitsEmptyValues(t *testing.T) {
	tests := []struct {
		name   string
		widget Widget
		want   any
	}{
		{"nil", Widget{Kind: KindText, Name: "a"}, nil},
		{"empty_string", Widget{Kind: KindText, Name: "a", Value: ""}, nil},
		{"false", Widget{Kind: KindCheckBox, Name: "a", Value: false}, nil},
		{"zero", Widget{Kind: KindText, Name: "a", Value: 0}, nil},
		{"string", Widget{Kind: KindText, Name: "a", Value: "x"}, "x"},
		{"true", Widget{Kind: KindCheckBox, Name: "a", Value: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.widget.schemaRecord().FieldValue)
		})
	}
}

func TestSchemaRecordPerKindFields(t *testing.T) {
	text := Widget{Kind: KindText, Name: "t", MaxLength: 10, Choices: []string{"never"}}
	rec := text.schemaRecord()
	assert.Equal(t, 10, rec.MaxLength)
	assert.Nil(t, rec.FieldOptions)

	box := Widget{Kind: KindCheckBox, Name: "c", MaxLength: 10, Choices: []string{"Off", "Yes"}}
	rec = box.schemaRecord()
	assert.Zero(t, rec.MaxLength)
	assert.Equal(t, []string{"Off", "Yes"}, rec.FieldOptions)
}

func TestSchemaRecordJSONShape(t *testing.T) {
	w := Widget{Kind: KindRadio, Name: "MaritalStatus", Value: "Married",
		Choices: []string{"Divorced", "Married"}}
	b, err := json.Marshal(w.schemaRecord())
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "MaritalStatus", m["FieldName"])
	assert.Equal(t, "radio", m["FieldType"])
	assert.Equal(t, "Married", m["FieldValue"])
	assert.NotContains(t, m, "MaxLength")
	assert.NotContains(t, m, "Description")
}

func TestValueString(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{nil, ""},
		{"Jane", "Jane"},
		{42, "42"},
		{int64(7), "7"},
		{3.5, "3.5"},
		{float64(12), "12"},
		{true, "true"},
	}
	for _, tt := range tests {
		w := Widget{Kind: KindText, Value: tt.value}
		assert.Equal(t, tt.want, w.valueString())
	}
}

func TestMergeChoices(t *testing.T) {
	w := Widget{Kind: KindRadio, Choices: []string{"Divorced", "Off"}}
	w.mergeChoices([]string{"Married", "Off", "Single"})
	assert.Equal(t, []string{"Divorced", "Off", "Married", "Single"}, w.Choices)

	// Text widgets never carry choices.
	text := Widget{Kind: KindText}
	text.mergeChoices([]string{"Yes"})
	assert.Nil(t, text.Choices)
}

func TestWidgetMapOrder(t *testing.T) {
	m := newWidgetMap()
	m.put(&Widget{Kind: KindText, Name: "b"})
	m.put(&Widget{Kind: KindText, Name: "a"})
	m.put(&Widget{Kind: KindText, Name: "c"})

	var names []string
	for _, w := range m.all() {
		names = append(names, w.Name)
	}
	assert.Equal(t, []string{"b", "a", "c"}, names)
	assert.Equal(t, 3, m.len())
}
