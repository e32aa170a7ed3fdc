package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormSizes(t *testing.T) {
	assert.Equal(t, []string{"7", "8", "9"}, formSizes("7,8,9"))
	assert.Equal(t, []string{"7", "8"}, formSizes(` ["7","8"] `))
	assert.Equal(t, []string{"7", "8"}, formSizes("7, 8, 7"), "duplicates dropped")
	assert.Nil(t, formSizes(""))
	assert.Nil(t, formSizes("[broken json"))
	assert.Empty(t, formSizes(",,,"))
}

func TestFormBool(t *testing.T) {
	assert.True(t, formBool("true"))
	assert.True(t, formBool("1"))
	assert.False(t, formBool("no"))
	assert.False(t, formBool(""))
}

func TestFormIntPtr(t *testing.T) {
	if got := formIntPtr("25"); assert.NotNil(t, got) {
		assert.Equal(t, 25, *got)
	}
	if got := formIntPtr("0"); assert.NotNil(t, got) {
		assert.Equal(t, 0, *got)
	}
	assert.Nil(t, formIntPtr(""), "absent stock means untracked")
	assert.Nil(t, formIntPtr("-3"))
	assert.Nil(t, formIntPtr("many"))
}
