package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGlobalCache(t *testing.T) {
	c := GetCache()
	assert.Same(t, c, GetCache())

	c.Set("k", "v", time.Minute)
	assert.Equal(t, "v", c.Get("k"))

	c.Set("expired", "v", -time.Second)
	assert.Nil(t, c.Get("expired"))

	c.Delete("k")
	assert.Nil(t, c.Get("k"))
}

func TestParseID(t *testing.T) {
	id, ok := ParseID("42")
	assert.True(t, ok)
	assert.EqualValues(t, 42, id)

	for _, bad := range []string{"", "0", "-1", "abc", "1.5"} {
		_, ok := ParseID(bad)
		assert.False(t, ok, bad)
	}
	assert.Equal(t, 0, StringToInt("x"))
	assert.Equal(t, 3, StringToInt(" 3 "))
}
