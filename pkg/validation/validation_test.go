package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trims whitespace", input: "  tower-a  ", want: "tower-a"},
		{name: "strips null bytes", input: "tower\x00-a", want: "tower-a"},
		{name: "strips control characters", input: "tower\x1b[31m-a", want: "tower[31m-a"},
		{name: "keeps newline and tab", input: "line1\n\tline2", want: "line1\n\tline2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeString(tt.input))
		})
	}
}

func TestValidateBuildingName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid", input: "hq-tower-1"},
		{name: "valid with underscore", input: "campus_block_b"},
		{name: "empty", input: "", wantErr: true},
		{name: "too short", input: "ab", wantErr: true},
		{name: "leading hyphen", input: "-tower", wantErr: true},
		{name: "reserved", input: "admin", wantErr: true},
		{name: "spaces", input: "hq tower", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBuildingName(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateRegion(t *testing.T) {
	assert.NoError(t, ValidateRegion("NSW1"))
	assert.NoError(t, ValidateRegion("QLD1"))
	assert.NoError(t, ValidateRegion("DE"))
	assert.Error(t, ValidateRegion(""))
	assert.Error(t, ValidateRegion("nsw1"))
	assert.Error(t, ValidateRegion("region-1"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("Str0ngEnough"))
	assert.Error(t, ValidatePassword("short1A"))
	assert.Error(t, ValidatePassword("alllowercase1"))
	assert.Error(t, ValidatePassword("ALLUPPERCASE1"))
	assert.Error(t, ValidatePassword("NoDigitsHere"))
}
