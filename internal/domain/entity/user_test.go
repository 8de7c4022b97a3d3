package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUser_BeforeSave(t *testing.T) {
	preHashed, err := bcrypt.GenerateFromPassword([]byte("alreadyHashed"), bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name       string
		password   string
		wantHashed bool
		wantSame   bool
	}{
		{name: "открытый пароль хешируется", password: "mySecretPassword123", wantHashed: true},
		{name: "готовый хеш не меняется", password: string(preHashed), wantSame: true},
		{name: "пустой пароль остаётся пустым", password: "", wantSame: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			user := &User{Username: "student", Email: "student@example.com", Password: tt.password}

			// Act
			err := user.BeforeSave(nil)

			// Assert
			require.NoError(t, err, "BeforeSave не должен возвращать ошибку")
			if tt.wantSame {
				assert.Equal(t, tt.password, user.Password, "Пароль не должен изменяться")
			}
			if tt.wantHashed {
				assert.NotEqual(t, tt.password, user.Password, "Пароль должен быть хеширован")
				assert.True(t, user.CheckPassword(tt.password), "Хеш должен соответствовать исходному паролю")
			}
		})
	}
}

func TestUser_CheckPassword(t *testing.T) {
	// Arrange
	hashed, err := bcrypt.GenerateFromPassword([]byte("correctPassword123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &User{Password: string(hashed)}

	// Act & Assert
	assert.True(t, user.CheckPassword("correctPassword123"), "Правильный пароль должен подходить")
	assert.False(t, user.CheckPassword("wrongPassword456"), "Неправильный пароль не должен подходить")
	assert.False(t, user.CheckPassword(""), "Пустой пароль не должен подходить")
}

func TestUser_FullName(t *testing.T) {
	user := &User{FirstName: "Ada", LastName: "Lovelace"}
	assert.Equal(t, "Ada Lovelace", user.FullName())
}
