package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("Boas-vindas", "{saudacao}, {nome}!"))
	assert.ErrorIs(t, Validate("", "content"), ErrMissingFields)
	assert.ErrorIs(t, Validate("name", ""), ErrMissingFields)
	assert.NoError(t, Validate("  ", "\n"))
}
