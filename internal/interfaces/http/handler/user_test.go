package handler_test

import (
	"net/http"
	"testing"

	auditapp "github.com/shopapi/backend/internal/application/audit"
	identityapp "github.com/shopapi/backend/internal/application/identity"
	"github.com/shopapi/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserHandler_Profile(t *testing.T) {
	app := newShopApp(t)
	auth := app.register("alice")

	w := app.do(http.MethodPut, "/api/v1/users/me", map[string]interface{}{
		"name":  "Alice Liddell",
		"phone": "555-0100",
		"address": map[string]string{
			"street": "1 Rabbit Hole", "city": "Oxford", "country": "UK",
		},
	}, auth.AccessToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = app.do(http.MethodGet, "/api/v1/users/me", nil, auth.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	profile, _ := testutil.DecodeResponse[identityapp.UserResponse](t, w)
	assert.Equal(t, "Alice Liddell", profile.Name)
	assert.Equal(t, "Oxford", profile.Address.City)
	assert.Equal(t, "alice@example.com", profile.Email)

	w = app.do(http.MethodPut, "/api/v1/users/me", map[string]string{"email": "not-an-email"}, auth.AccessToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	testutil.AssertErrorCode(t, w, "VALIDATION_ERROR")

	w = app.do(http.MethodGet, "/api/v1/users/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserHandler_ChangePassword(t *testing.T) {
	app := newShopApp(t)
	auth := app.register("alice")

	w := app.do(http.MethodPut, "/api/v1/users/me/password", identityapp.ChangePasswordRequest{
		CurrentPassword: "wrong-password",
		NewPassword:     "new-password-456",
	}, auth.AccessToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	testutil.AssertErrorCode(t, w, "INVALID_PASSWORD")

	w = app.do(http.MethodPut, "/api/v1/users/me/password", identityapp.ChangePasswordRequest{
		CurrentPassword: "password123",
		NewPassword:     "new-password-456",
	}, auth.AccessToken)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, app.login("alice", "password123").Code)
	assert.Equal(t, http.StatusOK, app.login("alice", "new-password-456").Code)
}

func TestUserHandler_AdminManagement(t *testing.T) {
	app := newShopApp(t)
	admin := app.registerAdmin("root")
	customer := app.register("alice")
	customerID := customer.User.ID.String()

	w := app.do(http.MethodGet, "/api/v1/admin/users?role=customer", nil, admin.AccessToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	users, envelope := testutil.DecodeResponse[[]identityapp.AdminUserResponse](t, w)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, int64(1), envelope.Meta.Total)

	w = app.do(http.MethodGet, "/api/v1/admin/users/"+customerID, nil, customer.AccessToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	t.Run("role change revokes existing tokens", func(t *testing.T) {
		w := app.do(http.MethodPut, "/api/v1/admin/users/"+customerID+"/role",
			identityapp.ChangeRoleRequest{Role: "admin"}, admin.AccessToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		updated, _ := testutil.DecodeResponse[identityapp.AdminUserResponse](t, w)
		assert.Equal(t, "admin", updated.Role)

		w = app.do(http.MethodGet, "/api/v1/auth/me", nil, customer.AccessToken)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("admin cannot change own role", func(t *testing.T) {
		w := app.do(http.MethodPut, "/api/v1/admin/users/"+admin.User.ID.String()+"/role",
			identityapp.ChangeRoleRequest{Role: "customer"}, admin.AccessToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
		testutil.AssertErrorCode(t, w, "CANNOT_MODIFY_SELF")
	})

	t.Run("invalid role", func(t *testing.T) {
		w := app.do(http.MethodPut, "/api/v1/admin/users/"+customerID+"/role",
			map[string]string{"role": "superuser"}, admin.AccessToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("role change is audited", func(t *testing.T) {
		w := app.do(http.MethodGet, "/api/v1/admin/audit-logs?target_type=user&target_id="+customerID, nil, admin.AccessToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		entries, _ := testutil.DecodeResponse[[]auditapp.EntryResponse](t, w)
		require.Len(t, entries, 1)
		assert.Equal(t, "user.role_changed", entries[0].Action)
		assert.Equal(t, admin.User.ID, entries[0].ActorID)
		assert.Equal(t, "admin", entries[0].Details["new_role"])
	})

	t.Run("delete", func(t *testing.T) {
		w := app.do(http.MethodDelete, "/api/v1/admin/users/"+customerID, nil, admin.AccessToken)
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

		w = app.do(http.MethodGet, "/api/v1/admin/users/"+customerID, nil, admin.AccessToken)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUserHandler_Unlock(t *testing.T) {
	app := newShopApp(t)
	admin := app.registerAdmin("root")
	customer := app.register("alice")

	for i := 0; i < 5; i++ {
		app.login("alice", "wrong-password")
	}
	require.Equal(t, http.StatusLocked, app.login("alice", "password123").Code)

	w := app.do(http.MethodGet, "/api/v1/admin/users/"+customer.User.ID.String(), nil, admin.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	locked, _ := testutil.DecodeResponse[identityapp.AdminUserResponse](t, w)
	assert.Equal(t, "temporary", locked.Lockout.Status)
	assert.Equal(t, 5, locked.Lockout.FailedAttempts)

	w = app.do(http.MethodPost, "/api/v1/admin/users/"+customer.User.ID.String()+"/unlock", nil, admin.AccessToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result, _ := testutil.DecodeResponse[identityapp.UnlockResponse](t, w)
	assert.Equal(t, "temporary", result.PreviousStatus)
	assert.Equal(t, "none", result.User.Lockout.Status)

	assert.Equal(t, http.StatusOK, app.login("alice", "password123").Code)

	w = app.do(http.MethodGet, "/api/v1/admin/audit-logs?action=user.unlocked", nil, admin.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	entries, _ := testutil.DecodeResponse[[]auditapp.EntryResponse](t, w)
	require.Len(t, entries, 1)
	assert.Equal(t, customer.User.ID, entries[0].TargetID)
}
