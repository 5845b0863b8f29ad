package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padhai-app/padhai/core/user"
)

func Test_userApi_login(t *testing.T) {
	app := initApp(t)
	app.createUser(t, "Admin", "admin1", "admin@test.com", user.AdminRoles)
	deactivated := app.createUser(t, "Gone", "gone01", "gone@test.com", user.StudentRoles)
	isActive := false
	_, err := app.usrSvc.Update(deactivated.ID, user.UpdateUser{IsActive: &isActive})
	require.NoError(t, err)

	body := func(uname, pwd string) []byte {
		return marchallObj(t, LoginRequest{Username: uname, Password: pwd})
	}

	tests := []httpTest{
		{
			name: "login with username", body: body("admin1", "Secret123!"),
			wantCode: http.StatusOK,
		},
		{
			name: "login with email", body: body("admin@test.com", "Secret123!"),
			wantCode: http.StatusOK,
		},
		{
			name: "username is case-insensitive", body: body("ADMIN1", "Secret123!"),
			wantCode: http.StatusOK,
		},
		{
			name: "wrong password", body: body("admin1", "oops"),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "unknown user", body: body("who", "Secret123!"),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "deactivated account", body: body("gone01", "Secret123!"),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/login", tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
				return
			}
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			var resp LoginResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Token)
		})
	}
}

func Test_userApi_query(t *testing.T) {
	app := initApp(t)
	admin := app.createUser(t, "Admin", "admin1", "admin@test.com", user.AdminRoles)
	teacher := app.createUser(t, "Teacher", "teach1", "teach@test.com", user.TeacherRoles)
	studentUsr := app.createUser(t, "Student", "stude1", "stude@test.com", user.StudentRoles)

	all := marchallList(t, admin, teacher, studentUsr)

	tests := []httpTest{
		{
			name: "anonymous is rejected", wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "student is not an admin", token: getToken(t, studentUsr),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "teacher is not an admin", token: getToken(t, teacher),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "admin gets all users", token: getToken(t, admin),
			wantCode: http.StatusOK, wantData: all,
		},
		{
			name: "admin filters by role", path: "/v1/users?role=teacher:",
			token:    getToken(t, admin),
			wantCode: http.StatusOK, wantData: marchallList(t, teacher),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.path
			if path == "" {
				path = "/v1/users"
			}
			req, rec := newAuthRequest(http.MethodGet, path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_retrieve(t *testing.T) {
	app := initApp(t)
	admin := app.createUser(t, "Admin", "admin1", "admin@test.com", user.AdminRoles)
	alice := app.createUser(t, "Alice", "alice1", "alice@test.com", user.StudentRoles)
	bob := app.createUser(t, "Bob", "boboon", "bob@test.com", user.StudentRoles)

	tests := []httpTest{
		{
			name: "own account", path: "/v1/users/" + alice.ID, token: getToken(t, alice),
			wantCode: http.StatusOK, wantData: marchallObj(t, alice),
		},
		{
			name: "someone else's account is invisible", path: "/v1/users/" + bob.ID, token: getToken(t, alice),
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "admin sees anyone", path: "/v1/users/" + bob.ID, token: getToken(t, admin),
			wantCode: http.StatusOK, wantData: marchallObj(t, bob),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_create(t *testing.T) {
	app := initApp(t)
	admin := app.createUser(t, "Admin", "admin1", "admin@test.com", user.AdminRoles)

	t.Run("admin registers a parent account", func(t *testing.T) {
		body := marchallObj(t, user.NewUser{
			Name:            "Parent One",
			Username:        "parent1",
			Email:           "parent1@test.com",
			Password:        "Secret123!",
			PasswordConfirm: "Secret123!",
			Roles:           user.ParentRoles,
		})
		req, rec := newAuthRequest(http.MethodPost, "/v1/users/register", getToken(t, admin), body)
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var usr user.User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &usr))
		assert.Equal(t, "parent1", usr.Username)
		assert.True(t, usr.IsActive)
	})

	t.Run("duplicate username", func(t *testing.T) {
		body := marchallObj(t, user.NewUser{
			Name:            "Impostor",
			Username:        "admin1",
			Email:           "other@test.com",
			Password:        "Secret123!",
			PasswordConfirm: "Secret123!",
		})
		req, rec := newAuthRequest(http.MethodPost, "/v1/users/register", getToken(t, admin), body)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	})
}

func Test_userApi_tokenRefresh(t *testing.T) {
	app := initApp(t)
	alice := app.createUser(t, "Alice", "alice1", "alice@test.com", user.StudentRoles)

	req, rec := newAuthRequest(http.MethodPost, "/v1/users/token-refresh", getToken(t, alice))
	app.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
}
