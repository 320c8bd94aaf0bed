package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringOrReturnsSetValue(t *testing.T) {
	t.Setenv("MTS_TEST_VALUE", "console")
	assert.Equal(t, "console", StringOr("MTS_TEST_VALUE", "json"))
}

func TestStringOrFallsBackWhenUnset(t *testing.T) {
	assert.Equal(t, "json", StringOr("MTS_TEST_MISSING", "json"))
}

func TestStringOrFallsBackWhenEmpty(t *testing.T) {
	t.Setenv("MTS_TEST_EMPTY", "")
	assert.Equal(t, "json", StringOr("MTS_TEST_EMPTY", "json"))
}
