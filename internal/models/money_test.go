package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCents(t *testing.T) {
	tests := []struct {
		in      string
		want    Cents
		wantErr bool
	}{
		{"400", 40000, false},
		{"400.00", 40000, false},
		{"400.5", 40050, false},
		{"0.05", 5, false},
		{"-12.34", -1234, false},
		{" 7.10 ", 710, false},
		{"400.505", 0, true},
		{"", 0, true},
		{"abc", 0, true},
		{"4,000", 0, true},
		{".", 0, true},
		// The largest representable amount parses; anything past it is
		// rejected rather than wrapped.
		{"92233720368547758.07", math.MaxInt64, false},
		{"92233720368547758.08", 0, true},
		{"184467440737095516.16", 0, true},
		{"99999999999999999999", 0, true},
		{"-184467440737095516.16", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCents(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBadAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCentsString(t *testing.T) {
	assert.Equal(t, "400.00", Cents(40000).String())
	assert.Equal(t, "0.05", Cents(5).String())
	assert.Equal(t, "-12.34", Cents(-1234).String())
	assert.Equal(t, "0.00", Cents(0).String())
}

func TestCentsJSONRoundTrip(t *testing.T) {
	out, err := json.Marshal(Cents(70000))
	require.NoError(t, err)
	assert.Equal(t, `"700.00"`, string(out))

	var c Cents
	require.NoError(t, json.Unmarshal([]byte(`"400.50"`), &c))
	assert.Equal(t, Cents(40050), c)

	assert.Error(t, json.Unmarshal([]byte(`"4.005"`), &c))
}
