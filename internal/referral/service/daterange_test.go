package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "helptoheat/pkg/domain-errors"
)

func TestParseDateRange(t *testing.T) {
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

	t.Run("valid range is inclusive London dates", func(t *testing.T) {
		from, to, err := ParseDateRange(RangeInput{"2024", "1", "31", "2024", "03", "20"}, now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, London), from)
		assert.Equal(t, time.Date(2024, 3, 20, 0, 0, 0, 0, London), to)
	})

	tests := []struct {
		name   string
		input  RangeInput
		fields map[string]string
	}{
		{
			name:  "missing parts",
			input: RangeInput{"", "x", "1", "2024", "1", "32"},
			fields: map[string]string{
				"from-year":  "From must include a valid year",
				"from-month": "From must include a valid month",
				"to-day":     "To must include a valid day",
			},
		},
		{
			name:   "not a real date",
			input:  RangeInput{"2023", "2", "29", "2024", "1", "1"},
			fields: map[string]string{"from": "From must be a real date"},
		},
		{
			name:   "future date",
			input:  RangeInput{"2024", "1", "1", "2024", "3", "21"},
			fields: map[string]string{"to": "To must be today or in the past"},
		},
		{
			name:   "to before from",
			input:  RangeInput{"2024", "2", "10", "2024", "2", "9"},
			fields: map[string]string{"to": "To must be the same as or after From"},
		},
		{
			name:   "signs are not digits",
			input:  RangeInput{"+2024", "1", "1", "2024", "1", "1"},
			fields: map[string]string{"from-year": "From must include a valid year"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseDateRange(tt.input, now)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
			assert.Equal(t, tt.fields, dErrors.FieldErrors(err))
		})
	}

	t.Run("leap day is real", func(t *testing.T) {
		_, _, err := ParseDateRange(RangeInput{"2024", "2", "29", "2024", "2", "29"}, now)
		assert.NoError(t, err)
	})
}
