package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidTicker(t *testing.T) {
	valid := []string{"BTC", "ETH", "RUB", "AB", "ABCDEFGHIJ"}
	for _, tk := range valid {
		assert.True(t, ValidTicker(tk), tk)
	}

	invalid := []string{"", "A", "btc", "BTC1", "ABCDEFGHIJK", "BT-C", " BTC", "BTC "}
	for _, tk := range invalid {
		assert.False(t, ValidTicker(tk), tk)
	}
}
