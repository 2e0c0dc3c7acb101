package mem_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mmbench/util/linux/mem"
)

func TestAvailableMem(t *testing.T) {
	avail, err := mem.GetAvailableMem()
	require.Nil(t, err)
	assert.True(t, avail > 0, "avail %v", avail)
}

func TestCheckAlloc(t *testing.T) {
	assert.Nil(t, mem.CheckAlloc(1<<20))
	assert.NotNil(t, mem.CheckAlloc(mem.Tmem(math.MaxUint64)))
}
