package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVddPercent(t *testing.T) {
	assert.Equal(t, 0, VddPercent(0))
	assert.Equal(t, 0, VddPercent(2900))
	assert.Equal(t, 50, VddPercent(3550))
	assert.Equal(t, 100, VddPercent(4200))
	assert.Equal(t, 100, VddPercent(5000))
	assert.Equal(t, 1, VddPercent(2913))
}
