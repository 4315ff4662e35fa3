package validate

import (
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatasetKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"numeric ballot id", "1042", false},
		{"all", "all", false},
		{"with hyphen", "lb-250", false},
		{"empty string", "", true},
		{"only spaces", "   ", true},
		{"with slash", "a/b", true},
		{"with space", "lb 250", true},
		{"with tab", "lb\t250", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := DatasetKey(tt.input)
			assert.Equal(t, tt.wantErr, err != nil, "DatasetKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		})
	}
}

func TestDatasetKeyField(t *testing.T) {
	err := DatasetKeyField("key", "a/b")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, "key", fieldErrs[0].Field)

	assert.NoError(t, DatasetKeyField("key", "b1"))
}

func TestFieldName(t *testing.T) {
	assert.NoError(t, FieldName("Resolution"))
	assert.Error(t, FieldName(""))
	assert.Error(t, FieldName(" Type"))
}
