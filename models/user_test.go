package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidPhone(t *testing.T) {
	assert.True(t, ValidPhone("9876543210"))
	assert.False(t, ValidPhone("987654321"))
	assert.False(t, ValidPhone("98765432100"))
	assert.False(t, ValidPhone("98765abc10"))
	assert.False(t, ValidPhone("+919876543210"))
	assert.False(t, ValidPhone(""))
}
