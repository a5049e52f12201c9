package internal

import (
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConcat2(t *testing.T) {
	assert := assert.New(t)

	a := maps.All(map[string]string{"SP_INIT": "0xf4"})
	b := maps.All(map[string]string{"TICK_LIMIT": "0"})

	var keys []string
	for key := range Concat2(a, b) {
		keys = append(keys, key)
	}
	assert.Equal([]string{"SP_INIT", "TICK_LIMIT"}, keys)

	// Early exit stops the chain.
	keys = keys[:0]
	for key := range Concat2(a, b) {
		keys = append(keys, key)
		break
	}
	assert.Equal(1, len(keys))
	assert.True(slices.Contains(keys, "SP_INIT"))
}
