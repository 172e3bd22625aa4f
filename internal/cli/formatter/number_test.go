package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0,00", FormatNumber(0, 2))
	assert.Equal(t, "1.234,50", FormatNumber(1234.5, 2))
	assert.Equal(t, "12,35", FormatNumber(12.345, 2))
	assert.Equal(t, "1.234.567,89", FormatNumber(1234567.89, 2))
	assert.Equal(t, "-9.876,54", FormatNumber(-9876.54, 2))
	assert.Equal(t, "3,142", FormatNumber(3.14159, 3))
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "1.234,56 €", FormatMoney(1234.56))
	assert.Equal(t, "0,00 €", FormatMoney(0))
}

func TestNumberToTextCatalan(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "ZERO EUROS"},
		{1, "UN EURO"},
		{21, "VINT-I-UN EUROS"},
		{35, "TRENTA-CINC EUROS"},
		{100, "CENT EUROS"},
		{215, "DOS-CENTS QUINZE EUROS"},
		{1000, "MIL EUROS"},
		{1234.56, "MIL DOS-CENTS TRENTA-QUATRE EUROS AMB CINQUANTA-SIS CÈNTIMS"},
		{2000000, "DOS MILIONS EUROS"},
		{1000001.01, "UN MILIÓ UN EUROS AMB UN CÈNTIM"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NumberToTextCatalan(tc.in), "input %v", tc.in)
	}
}
