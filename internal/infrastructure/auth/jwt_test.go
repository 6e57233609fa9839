package auth

import (
	"testing"
	"time"

	"github.com/St1cky1/taskboard/internal/entity"
)

func TestGenerateAndValidateToken(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	user := &entity.User{ID: "u-1", Email: "ann@example.com", Role: entity.RoleAdmin}

	token, err := m.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email || claims.Role != user.Role {
		t.Errorf("claims = %+v, want user %+v", claims, user)
	}
}

func TestValidateTokenRejects(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	user := &entity.User{ID: "u-1", Role: entity.RoleUser}
	good, err := m.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	otherKey, _ := NewJWTManager("other", time.Hour).GenerateToken(user)

	expiring := NewJWTManager("secret", time.Minute)
	expiring.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _ := expiring.GenerateToken(user)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"garbage", "not-a-token", ErrInvalidToken},
		{"empty", "", ErrInvalidToken},
		{"wrong key", otherKey, ErrInvalidToken},
		{"tampered", good + "x", ErrInvalidToken},
		{"expired", expired, ErrExpiredToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.ValidateToken(tt.token)
			if err != tt.want {
				t.Errorf("ValidateToken() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDefaultTTL(t *testing.T) {
	m := NewJWTManager("secret", 0)
	if m.ttl != DefaultTokenTTL {
		t.Errorf("ttl = %v, want %v", m.ttl, DefaultTokenTTL)
	}
}
