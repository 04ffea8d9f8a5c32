package auth

import (
	"testing"
	"time"

	"github.com/mj9457/GECCI-DriveNote-sub000/internal/models"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func allowedUser() *models.User {
	return &models.User{
		ID:       primitive.NewObjectID(),
		Username: "testuser",
		Role:     models.RoleAdmin,
		Allowed:  true,
	}
}

func TestNewService(t *testing.T) {
	service, err := NewService()
	assert.NoError(t, err)
	assert.NotNil(t, service)
	assert.NotEmpty(t, service.jwtSecret)
	assert.Equal(t, 24*time.Hour, service.tokenExp)
}

func TestService_HashPassword(t *testing.T) {
	service, _ := NewService()

	password := "testpassword123"
	hash, err := service.HashPassword(password)

	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)
}

func TestService_CheckPassword(t *testing.T) {
	service, _ := NewService()

	password := "testpassword123"
	hash, _ := service.HashPassword(password)

	assert.True(t, service.CheckPassword(password, hash))
	assert.False(t, service.CheckPassword("wrongpassword", hash))
}

func TestService_GenerateToken(t *testing.T) {
	service, _ := NewService()

	token, err := service.GenerateToken(allowedUser())
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestService_GenerateToken_NotAllowed(t *testing.T) {
	service, _ := NewService()

	user := allowedUser()
	user.Allowed = false

	token, err := service.GenerateToken(user)
	assert.ErrorIs(t, err, ErrNotAllowed)
	assert.Empty(t, token)
}

func TestService_ValidateToken(t *testing.T) {
	service, _ := NewService()

	user := allowedUser()
	token, _ := service.GenerateToken(user)

	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, user.Username, claims.Username)
	assert.Equal(t, user.Role, claims.Role)

	_, err = service.ValidateToken("invalid-token")
	assert.Error(t, err)
	assert.Equal(t, ErrInvalidToken, err)
}

func TestService_ValidateToken_BearerPrefix(t *testing.T) {
	service, _ := NewService()

	token, _ := service.GenerateToken(allowedUser())

	claims, err := service.ValidateToken("Bearer " + token)
	assert.NoError(t, err)
	assert.NotNil(t, claims)
}

func TestService_GenerateRefreshToken(t *testing.T) {
	service, _ := NewService()

	first, err := service.GenerateRefreshToken()
	assert.NoError(t, err)
	assert.NotEmpty(t, first)

	second, err := service.GenerateRefreshToken()
	assert.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestService_ExtractTokenFromHeader(t *testing.T) {
	service, _ := NewService()

	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid bearer", "Bearer abc123", "abc123", false},
		{"empty header", "", "", true},
		{"missing scheme", "abc123", "", true},
		{"wrong scheme", "Basic abc123", "", true},
		{"empty token", "Bearer ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := service.ExtractTokenFromHeader(tt.header)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_ValidatePassword(t *testing.T) {
	service, _ := NewService()

	assert.Error(t, service.ValidatePassword("short"))
	assert.NoError(t, service.ValidatePassword("longenough"))
}

func TestService_ValidateUsername(t *testing.T) {
	service, _ := NewService()

	assert.Error(t, service.ValidateUsername("ab"))
	assert.NoError(t, service.ValidateUsername("driver1"))
}

func TestService_ValidateEmail(t *testing.T) {
	service, _ := NewService()

	assert.Error(t, service.ValidateEmail("not-an-email"))
	assert.NoError(t, service.ValidateEmail("user@example.com"))
}
