package validate

import (
	"errors"
	"testing"

	"github.com/fisker/crm-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsIdentifier(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"region", true},
		{"annual_Revenue2", true},
		{"x", true},
		{"2fast", false},
		{"_private", false},
		{"with space", false},
		{"dash-name", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, IsIdentifier(tt.input))
		})
	}
}

func TestStructTranslatesToFieldErrors(t *testing.T) {
	req := model.CreateFieldDefinitionRequest{
		ObjectType: "lead",
		FieldName:  "9lives",
		FieldType:  "text",
	}

	err := Struct(req)
	require.Error(t, err)

	var verr *model.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.FieldErrors, "objectType")
	assert.Contains(t, verr.FieldErrors, "fieldName")
	assert.Equal(t, []string{"Required"}, verr.FieldErrors["label"])
	assert.NotContains(t, verr.FieldErrors, "fieldType")
}

func TestStructNestedSections(t *testing.T) {
	cols := 4
	req := model.UpsertPageLayoutRequest{Sections: []model.SectionInput{{Title: "", Columns: &cols}}}

	var verr *model.ValidationError
	require.True(t, errors.As(Struct(req), &verr))
	assert.Contains(t, verr.FieldErrors, "sections[0].title")
	assert.Contains(t, verr.FieldErrors, "sections[0].columns")
}

func TestEmailAndUUID(t *testing.T) {
	assert.True(t, Email("jane.doe@example.com"))
	assert.False(t, Email("not-an-email"))
	assert.True(t, UUID("3f1c6a9e-8c2b-4d7e-9b1a-2e4f6a8c0d12"))
	assert.False(t, UUID("123"))
}
