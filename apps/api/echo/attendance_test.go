package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padhai-app/padhai/core/attendance"
	"github.com/padhai-app/padhai/core/user"
)

func Test_attendanceApi_scan(t *testing.T) {
	app := initApp(t)
	teacher := app.createUser(t, "Teacher", "teach1", "teach@test.com", user.TeacherRoles)
	studentUsr := app.createUser(t, "Student", "stude1", "stude@test.com", user.StudentRoles)
	std := app.createStudent(t, "Alice", "STU250601001", 10, "A")

	scan := func(t *testing.T, token, scanned string) (*ScanResponse, int, string) {
		body := marchallObj(t, ScanRequest{Token: scanned, Date: "2026-02-10"})
		req, rec := newAuthRequest(http.MethodPost, "/v1/attendance/scan", token, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			return nil, rec.Code, rec.Body.String()
		}
		var resp ScanResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return &resp, rec.Code, rec.Body.String()
	}

	t.Run("register number badge", func(t *testing.T) {
		resp, code, body := scan(t, getToken(t, teacher), "STU250601001")
		require.Equal(t, http.StatusOK, code, body)
		assert.Equal(t, std.ID, resp.Student.ID)
		assert.Equal(t, attendance.StatusPresent, resp.Record.Status)
		assert.Equal(t, "2026-02-10", resp.Record.Date)
	})

	t.Run("unknown badge", func(t *testing.T) {
		_, code, _ := scan(t, getToken(t, teacher), "STU999999999")
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("kiosk endpoints are staff only", func(t *testing.T) {
		_, code, _ := scan(t, getToken(t, studentUsr), "STU250601001")
		assert.Equal(t, http.StatusForbidden, code)
	})
}

func Test_attendanceApi_markAllAndStats(t *testing.T) {
	app := initApp(t)
	teacher := app.createUser(t, "Teacher", "teach1", "teach@test.com", user.TeacherRoles)
	token := getToken(t, teacher)

	app.createStudent(t, "Alice", "R1", 10, "A")
	bob := app.createStudent(t, "Bob", "R2", 10, "A")
	app.createStudent(t, "Carol", "R3", 10, "A")

	body := marchallObj(t, MarkAllRequest{ClassLevel: 10, Batch: "A", Date: "2026-02-10"})
	req, rec := newAuthRequest(http.MethodPost, "/v1/attendance/mark-all-present", token, body)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// flip one student back to absent
	toggle := marchallObj(t, ToggleRequest{StudentID: bob.ID, Date: "2026-02-10"})
	req, rec = newAuthRequest(http.MethodPost, "/v1/attendance/toggle", token, toggle)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var flipped attendance.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &flipped))
	assert.Equal(t, attendance.StatusAbsent, flipped.Status)

	req, rec = newAuthRequest(http.MethodGet, "/v1/attendance/stats?class_level=10&batch=A&date=2026-02-10", token)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var stats attendance.DailyStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, attendance.DailyStats{Present: 2, Absent: 1, Total: 3, Percentage: 67}, stats)
}

func Test_attendanceApi_studentHistoryAndRate(t *testing.T) {
	app := initApp(t)
	teacher := app.createUser(t, "Teacher", "teach1", "teach@test.com", user.TeacherRoles)
	std := app.createStudent(t, "Alice", "R1", 10, "A")

	for date, status := range map[string]string{
		"2026-02-09": attendance.StatusPresent,
		"2026-02-10": attendance.StatusAbsent,
	} {
		_, err := app.attSvc.Mark(attendance.MarkAttendance{StudentID: std.ID, Date: date, Status: status})
		require.NoError(t, err)
	}

	aliceUsr := app.createUser(t, "Alice", "alice1", "alice@test.com", user.StudentRoles,
		func(nu *user.NewUser) { nu.StudentID = std.ID })

	t.Run("history", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/attendance/students/"+std.ID, getToken(t, aliceUsr))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var recs []attendance.Record
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recs))
		assert.Len(t, recs, 2)
	})

	t.Run("rate", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/attendance/students/"+std.ID+"/rate", getToken(t, teacher))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var rate attendance.Rate
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rate))
		assert.Equal(t, attendance.Rate{PresentDays: 1, TotalDays: 2, Percentage: 50}, rate)
	})

	t.Run("student cannot read a classmate", func(t *testing.T) {
		bob := app.createStudent(t, "Bob", "R2", 10, "A")

		for _, path := range []string{
			"/v1/attendance/students/" + bob.ID,
			"/v1/attendance/students/" + bob.ID + "/rate",
		} {
			req, rec := newAuthRequest(http.MethodGet, path, getToken(t, aliceUsr))
			app.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusNotFound, rec.Code, path)
		}
	})

	t.Run("parent sees own child only", func(t *testing.T) {
		bob, err := app.stdSvc.ResolveToken("R2")
		require.NoError(t, err)
		parentUsr := app.createUser(t, "Parent", "parent1", "parent@test.com", user.ParentRoles,
			func(nu *user.NewUser) { nu.ChildrenIDs = []string{std.ID} })

		req, rec := newAuthRequest(http.MethodGet, "/v1/attendance/students/"+std.ID, getToken(t, parentUsr))
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		req, rec = newAuthRequest(http.MethodGet, "/v1/attendance/students/"+bob.ID+"/rate", getToken(t, parentUsr))
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
