//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		request CreateUserRequest
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid request",
			request: CreateUserRequest{Name: "Anna Schmidt", Email: "anna@example.com", Password: "password123"},
		},
		{
			name:    "missing name",
			request: CreateUserRequest{Email: "anna@example.com", Password: "password123"},
			wantErr: true,
			errMsg:  "name - required",
		},
		{
			name:    "missing email",
			request: CreateUserRequest{Name: "Anna Schmidt", Password: "password123"},
			wantErr: true,
			errMsg:  "email - required",
		},
		{
			name:    "invalid email format",
			request: CreateUserRequest{Name: "Anna Schmidt", Email: "not-an-email", Password: "password123"},
			wantErr: true,
			errMsg:  "email - email",
		},
		{
			name:    "short password",
			request: CreateUserRequest{Name: "Anna Schmidt", Email: "anna@example.com", Password: "short"},
			wantErr: true,
			errMsg:  "password - min",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, ValidationMessage(err), tt.errMsg)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoginRequest_Validation(t *testing.T) {
	assert.NoError(t, (&LoginRequest{Email: "anna@example.com", Password: "x"}).Validate())
	assert.Error(t, (&LoginRequest{Email: "anna@example.com"}).Validate())
	assert.Error(t, (&LoginRequest{Password: "x"}).Validate())
}

func TestUpdatePasswordRequest_Validation(t *testing.T) {
	assert.NoError(t, (&UpdatePasswordRequest{CurrentPassword: "old", NewPassword: "newpassword"}).Validate())

	err := (&UpdatePasswordRequest{CurrentPassword: "old", NewPassword: "short"}).Validate()
	require.Error(t, err)
	assert.Equal(t, "validation error: new_password - min", ValidationMessage(err))

	err = (&UpdatePasswordRequest{CurrentPassword: "samepassword", NewPassword: "samepassword"}).Validate()
	require.Error(t, err)
	assert.Equal(t, "validation error: new_password - nefield", ValidationMessage(err))
}

func TestNormalizedEmail(t *testing.T) {
	assert.Equal(t, "anna@example.com", NormalizedEmail("  Anna@Example.COM "))
}

func TestUser_JSON(t *testing.T) {
	u := User{
		ID:          uuid.New(),
		Name:        "Anna Schmidt",
		Email:       "anna@example.com",
		IsActive:    true,
		CreatedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	data, err := json.Marshal(LoginResponse{User: &u, Token: "tok"})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "tok", decoded["token"])
	user := decoded["user"].(map[string]any)
	assert.Equal(t, "anna@example.com", user["email"])
	assert.NotContains(t, user, "password_hash")
}

func TestValidationMessage_NonValidatorError(t *testing.T) {
	assert.Equal(t, "validation error: invalid request", ValidationMessage(assert.AnError))
}
