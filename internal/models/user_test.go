package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetPasswordAndCheck(t *testing.T) {
	user := &User{}
	err := user.SetPassword("Admin@123")
	assert.NoError(t, err)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "Admin@123", user.PasswordHash)

	assert.True(t, user.CheckPassword("Admin@123"))
	assert.False(t, user.CheckPassword("wrong-password"))
}

func TestCheckPasswordEmptyHash(t *testing.T) {
	user := &User{}
	assert.False(t, user.CheckPassword("anything"))
}
