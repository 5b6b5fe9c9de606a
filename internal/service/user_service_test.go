package service

import (
	"context"
	"testing"
	"time"

	"procurement/internal/model"
	"procurement/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createUserRequest() CreateUserRequest {
	return CreateUserRequest{
		Username:    "rrequester",
		Email:       "rita@example.com",
		Password:    "s3cret-pass",
		Role:        model.RoleRequester,
		FullName:    "Rita Requester",
		Title:       "Staff",
		Designation: "Engineering Staff",
		Department:  "Engineering",
	}
}

func TestCreateUserAndLogin(t *testing.T) {
	users := newFakeUserRepo()
	tokens := newFakeTokenRepo()
	svc := NewUserService(users, tokens)

	created, err := svc.CreateUser(context.Background(), createUserRequest())
	require.NoError(t, err)
	assert.Equal(t, "rrequester", created.Username)
	assert.Equal(t, model.RoleRequester, created.Role)

	// the stored password is hashed, never the plaintext
	stored, err := users.GetByUsername(context.Background(), "rrequester")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", stored.Password)

	resp, err := svc.Login(context.Background(), LoginUserRequest{Username: "rrequester", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.RefreshToken)

	_, err = svc.Login(context.Background(), LoginUserRequest{Username: "rrequester", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, apperr.Unauthorized, apperr.KindOf(err))

	_, err = svc.Login(context.Background(), LoginUserRequest{Username: "nobody", Password: "s3cret-pass"})
	require.Error(t, err)
	assert.Equal(t, apperr.Unauthorized, apperr.KindOf(err))
}

func TestCreateUserValidation(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), newFakeTokenRepo())

	bad := createUserRequest()
	bad.Role = "SUPERVISOR"
	_, err := svc.CreateUser(context.Background(), bad)
	require.Error(t, err)
	assert.Equal(t, apperr.InvalidArgument, apperr.KindOf(err))

	_, err = svc.CreateUser(context.Background(), createUserRequest())
	require.NoError(t, err)

	dup := createUserRequest()
	dup.Email = "other@example.com"
	_, err = svc.CreateUser(context.Background(), dup)
	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))

	dup = createUserRequest()
	dup.Username = "other"
	_, err = svc.CreateUser(context.Background(), dup)
	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
}

func TestRefreshTokenRotation(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), newFakeTokenRepo())

	_, err := svc.CreateUser(context.Background(), createUserRequest())
	require.NoError(t, err)

	login, err := svc.Login(context.Background(), LoginUserRequest{Username: "rrequester", Password: "s3cret-pass"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// the old token is single use
	_, err = svc.RefreshToken(context.Background(), RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.Error(t, err)
	assert.Equal(t, apperr.Unauthorized, apperr.KindOf(err))
}

func TestRefreshTokenExpired(t *testing.T) {
	users := newFakeUserRepo()
	tokens := newFakeTokenRepo()
	svc := NewUserService(users, tokens)

	created, err := svc.CreateUser(context.Background(), createUserRequest())
	require.NoError(t, err)

	require.NoError(t, tokens.Create(context.Background(), &model.RefreshToken{
		UserID:    created.ID,
		Token:     "stale",
		ExpiresAt: time.Now().Add(-time.Hour),
	}))

	_, err = svc.RefreshToken(context.Background(), RefreshTokenRequest{RefreshToken: "stale"})
	require.Error(t, err)
	assert.Equal(t, apperr.Unauthorized, apperr.KindOf(err))
}

func TestUpdateUser(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), newFakeTokenRepo())

	created, err := svc.CreateUser(context.Background(), createUserRequest())
	require.NoError(t, err)

	updated, err := svc.UpdateUser(context.Background(), created.ID.String(), UpdateUserRequest{
		Role:  model.RoleProcurementOfficer,
		Title: "Procurement Officer II",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleProcurementOfficer, updated.Role)
	assert.Equal(t, "Procurement Officer II", updated.Title)
	// untouched fields keep their values
	assert.Equal(t, "rita@example.com", updated.Email)

	_, err = svc.UpdateUser(context.Background(), created.ID.String(), UpdateUserRequest{Role: "SUPERVISOR"})
	require.Error(t, err)
	assert.Equal(t, apperr.InvalidArgument, apperr.KindOf(err))
}
