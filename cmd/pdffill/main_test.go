package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdffill/pdffill/internal/form"
)

func TestPrintVersion(t *testing.T) {
	oldVersion, oldBuildTime, oldGitCommit := version, buildTime, gitCommit
	version, buildTime, gitCommit = "1.2.3", "2023-12-01_10:30:00", "abc123"
	t.Cleanup(func() {
		version, buildTime, gitCommit = oldVersion, oldBuildTime, oldGitCommit
	})

	var buf bytes.Buffer
	printVersion(&buf)

	out := buf.String()
	assert.Contains(t, out, "pdffill")
	assert.Contains(t, out, "Version: 1.2.3")
	assert.Contains(t, out, "Build Time: 2023-12-01_10:30:00")
	assert.Contains(t, out, "Git Commit: abc123")
	assert.Contains(t, out, "Built with:")
}

func TestFormatSchemaText(t *testing.T) {
	schema := []form.SchemaRecord{
		{FieldName: "Lastname", FieldType: form.KindText, FieldValue: "Presley"},
		{FieldName: "Firstname", FieldType: form.KindText, MaxLength: 20},
		{
			FieldName:    "MaritalStatus",
			FieldType:    form.KindRadio,
			FieldValue:   "Married",
			FieldOptions: []string{"Divorced", "Off", "Married", "Single"},
		},
	}

	out := formatSchemaText(schema)

	expected := "----------\n" +
		"FieldName: Lastname\n" +
		"FieldType: text\n" +
		"FieldValue: Presley\n" +
		"----------\n" +
		"FieldName: Firstname\n" +
		"FieldType: text\n" +
		"MaxLength: 20\n" +
		"----------\n" +
		"FieldName: MaritalStatus\n" +
		"FieldType: radio\n" +
		"FieldValue: Married\n" +
		"FieldOption: Divorced\n" +
		"FieldOption: Off\n" +
		"FieldOption: Married\n" +
		"FieldOption: Single\n"
	assert.Equal(t, expected, out)
}

func TestFormatSchemaTextEmpty(t *testing.T) {
	assert.Empty(t, formatSchemaText(nil))
}

func TestLoadFillData(t *testing.T) {
	t.Run("inline", func(t *testing.T) {
		data, err := loadFillData("", `{"Firstname":"Jane"}`)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"Firstname": "Jane"}, data)
	})

	t.Run("mutually_exclusive", func(t *testing.T) {
		_, err := loadFillData("data.json", `{"a":1}`)
		assert.Error(t, err)
	})

	t.Run("neither", func(t *testing.T) {
		_, err := loadFillData("", "")
		assert.Error(t, err)
	})
}
