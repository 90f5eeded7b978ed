package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/empire-sales/leadgen-cli/internal/model"
)

func TestPhone(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"ten digits", "2395550101", "+12395550101", true},
		{"dashes", "239-555-0101", "+12395550101", true},
		{"parens and spaces", "(239) 555 0101", "+12395550101", true},
		{"dots", "239.555.0101", "+12395550101", true},
		{"eleven with country code", "12395550101", "+12395550101", true},
		{"plus one prefix", "+1 239-555-0101", "+12395550101", true},
		{"seven digit local", "555-0101", "", false},
		{"eleven not starting with one", "22395550101", "", false},
		{"too long", "123955501012", "", false},
		{"empty", "", "", false},
		{"letters only", "call me", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Phone(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPhoneDisplay(t *testing.T) {
	assert.Equal(t, "(239) 555-0101", PhoneDisplay("+12395550101"))
	assert.Equal(t, "", PhoneDisplay(""))
	assert.Equal(t, "not-a-phone", PhoneDisplay("not-a-phone"))
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "John Smith", TitleCase("  JOHN SMITH "))
	assert.Equal(t, "Cape Coral", TitleCase("cape coral"))
	assert.Equal(t, "", TitleCase("   "))
}

func TestCollapseSpace(t *testing.T) {
	assert.Equal(t, "a b c", CollapseSpace("  a \t b \n c "))
}

func TestCounty(t *testing.T) {
	tests := []struct {
		city string
		want model.County
	}{
		{"Naples", model.CountyCollier},
		{"marco island", model.CountyCollier},
		{"Fort Myers", model.CountyLee},
		{"CAPE CORAL", model.CountyLee},
		{"Orlando", model.CountyUnknown},
		{"", model.CountyUnknown},
		{"  ", model.CountyUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, County(tt.city), "city %q", tt.city)
	}
}
