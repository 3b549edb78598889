package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatorKeepsFirstErrorPerField(t *testing.T) {
	v := New()
	assert.True(t, v.Valid())

	v.Check(false, "name", "must be provided")
	v.Check(false, "name", "must not be more than 100 characters long")
	v.Check(true, "specialization", "never recorded")

	assert.False(t, v.Valid())
	assert.Equal(t, map[string]string{"name": "must be provided"}, v.Errors)
}

func TestNotBlank(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want bool
	}{
		{"", false},
		{"   ", false},
		{"\t\n", false},
		{"Alice", true},
		{"  Bob  ", true},
	} {
		assert.Equal(t, tc.want, NotBlank(tc.in), "NotBlank(%q)", tc.in)
	}
}

func TestMaxCharsCountsRunes(t *testing.T) {
	assert.True(t, MaxChars(strings.Repeat("é", 100), 100))
	assert.False(t, MaxChars(strings.Repeat("a", 101), 100))
	assert.True(t, MaxChars("", 0))
}
