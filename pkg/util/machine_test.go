package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetDeviceID(t *testing.T) {
	id := GetDeviceID("recall-test")
	assert.NotEmpty(t, id)

	// 不同应用标识得到不同的设备指纹
	other := GetDeviceID("recall-test-other")
	assert.NotEmpty(t, other)
	assert.NotEqual(t, id, other)
}
