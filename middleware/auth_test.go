package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAuthToken(t *testing.T) {
	key, err := ParseAuthToken("TOKEN key-abc123")
	assert.NoError(t, err)
	assert.Equal(t, "key-abc123", key)

	// 大小写不敏感
	key, err = ParseAuthToken("token key-abc123")
	assert.NoError(t, err)
	assert.Equal(t, "key-abc123", key)
}

func TestParseAuthTokenRejects(t *testing.T) {
	cases := []string{
		"",
		"TOKEN",
		"key-abc123",
		"Bearer key-abc123",
		"TOKEN a b",
	}
	for _, h := range cases {
		_, err := ParseAuthToken(h)
		assert.Error(t, err, h)
	}
}
