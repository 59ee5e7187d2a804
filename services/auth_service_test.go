package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Dosada05/bracket-engine/models"
)

func TestAuthService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	svc := NewAuthService("organiser", string(hash))
	ctx := context.Background()

	p, err := svc.Login(ctx, LoginInput{Name: "organiser", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleOrganiser, p.Role)
	assert.True(t, p.IsOrganiser())

	_, err = svc.Login(ctx, LoginInput{Name: "organiser", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginInput{Name: "someone", Password: "s3cret"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginInput{Name: "organiser"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_LoginDisabledWithoutHash(t *testing.T) {
	_, err := NewAuthService("organiser", "").Login(context.Background(), LoginInput{Name: "organiser", Password: "x"})
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}
