package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/coffee-shop-app/models"
)

func TestRegisterCreatesUnverifiedUser(t *testing.T) {
	db, engine, _ := setupApp(t)

	w := doJSON(t, engine, "POST", "/api/v1/auth/register", "", map[string]interface{}{
		"name":             "New User",
		"email":            "new@example.com",
		"password":         "password123",
		"confirm_password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var user models.User
	require.NoError(t, db.Where("email = ?", "new@example.com").First(&user).Error)
	assert.False(t, user.IsVerified)
	require.NotNil(t, user.VerificationToken)
	assert.Len(t, *user.VerificationToken, 32)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	db, engine, _ := setupApp(t)
	createUser(t, db, "existing", models.RoleUser)

	w := doJSON(t, engine, "POST", "/api/v1/auth/register", "", map[string]interface{}{
		"name":             "Someone Else",
		"email":            "existing@example.com",
		"password":         "password123",
		"confirm_password": "password123",
	})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", decodeBody(t, w)["code"])
}

func TestLoginRoundTrip(t *testing.T) {
	db, engine, _ := setupApp(t)
	createUser(t, db, "alice", models.RoleUser)

	w := doJSON(t, engine, "POST", "/api/v1/auth/login", "", map[string]interface{}{
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.NotEmpty(t, data["access_token"])
	assert.NotEmpty(t, data["refresh_token"])

	var user models.User
	require.NoError(t, db.Where("email = ?", "alice@example.com").First(&user).Error)
	assert.NotNil(t, user.LastLoginAt)
}

func TestLoginWrongPassword(t *testing.T) {
	db, engine, _ := setupApp(t)
	createUser(t, db, "bob", models.RoleUser)

	w := doJSON(t, engine, "POST", "/api/v1/auth/login", "", map[string]interface{}{
		"email":    "bob@example.com",
		"password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "AUTH_INVALID", decodeBody(t, w)["code"])
}

func TestLoginInactiveAccount(t *testing.T) {
	db, engine, _ := setupApp(t)
	user, _ := createUser(t, db, "carol", models.RoleUser)
	require.NoError(t, db.Model(user).Update("is_active", false).Error)

	w := doJSON(t, engine, "POST", "/api/v1/auth/login", "", map[string]interface{}{
		"email":    "carol@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "AUTH_INACTIVE", decodeBody(t, w)["code"])
}

func TestVerifyEmailConsumesToken(t *testing.T) {
	db, engine, _ := setupApp(t)

	w := doJSON(t, engine, "POST", "/api/v1/auth/register", "", map[string]interface{}{
		"name":             "Dana",
		"email":            "dana@example.com",
		"password":         "password123",
		"confirm_password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var user models.User
	require.NoError(t, db.Where("email = ?", "dana@example.com").First(&user).Error)
	token := *user.VerificationToken

	w = doJSON(t, engine, "POST", "/api/v1/auth/verify-email", "", map[string]interface{}{
		"token": token,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	require.NoError(t, db.Where("email = ?", "dana@example.com").First(&user).Error)
	assert.True(t, user.IsVerified)
	assert.Nil(t, user.VerificationToken)

	// The token is single-use.
	w = doJSON(t, engine, "POST", "/api/v1/auth/verify-email", "", map[string]interface{}{
		"token": token,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfileRequiresToken(t *testing.T) {
	_, engine, _ := setupApp(t)

	w := doJSON(t, engine, "GET", "/api/v1/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfileUpdate(t *testing.T) {
	db, engine, _ := setupApp(t)
	user, token := createUser(t, db, "erin", models.RoleUser)

	w := doJSON(t, engine, "PATCH", "/api/v1/profile", token, map[string]interface{}{
		"name":  "Erin Updated",
		"phone": "08123456789",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, "Erin Updated", reloaded.Name)
	require.NotNil(t, reloaded.Phone)
	assert.Equal(t, "08123456789", *reloaded.Phone)
}

func TestAdminUserListForbiddenForCustomers(t *testing.T) {
	db, engine, _ := setupApp(t)
	_, token := createUser(t, db, "frank", models.RoleUser)

	w := doJSON(t, engine, "GET", "/api/v1/admin/users", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminCanChangeUserRole(t *testing.T) {
	db, engine, _ := setupApp(t)
	_, adminToken := createUser(t, db, "admin", models.RoleAdmin)
	user, _ := createUser(t, db, "grace", models.RoleUser)

	w := doJSON(t, engine, "PATCH",
		"/api/v1/admin/users/"+itoa(user.ID), adminToken,
		map[string]interface{}{"role": models.RoleAdmin})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var reloaded models.User
	require.NoError(t, db.Preload("Role").First(&reloaded, user.ID).Error)
	assert.Equal(t, models.RoleAdmin, reloaded.Role.Role)
}
