package api

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

func TestPhoneTaken(t *testing.T) {
	taken, err := phoneTaken(nil)
	assert.NoError(t, err)
	assert.True(t, taken)

	taken, err = phoneTaken(mongo.ErrNoDocuments)
	assert.NoError(t, err)
	assert.False(t, taken)

	// A real lookup failure must not read as "phone available"
	lookupErr := errors.New("connection reset")
	taken, err = phoneTaken(lookupErr)
	assert.ErrorIs(t, err, lookupErr)
	assert.False(t, taken)
}

func TestBootstrapAdmin(t *testing.T) {
	admin, err := bootstrapAdmin()
	require.NoError(t, err)

	assert.True(t, admin.IsAdmin)
	assert.Equal(t, bootstrapAdminPhone, admin.Phone)
	assert.Equal(t, "Admin User", admin.Name)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("admin123")))
}
