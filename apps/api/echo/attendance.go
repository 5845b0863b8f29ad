package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/padhai-app/padhai/core/attendance"
	"github.com/padhai-app/padhai/core/student"
	"github.com/padhai-app/padhai/core/user"
)

type attendanceApi struct {
	svc    *attendance.Service
	usrSvc *user.Service
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *attendance.Service, usrSvc *user.Service) {
	api := attendanceApi{svc: svc, usrSvc: usrSvc}

	ag := g.Group("/attendance", jwt)
	ag.POST("", api.mark, staffMiddleware())
	ag.POST("/toggle", api.toggle, staffMiddleware())
	ag.POST("/mark-all-present", api.markAllPresent, staffMiddleware())
	ag.POST("/scan", api.scan, staffMiddleware())
	ag.GET("/day", api.dayRecords, staffMiddleware())
	ag.GET("/stats", api.stats, staffMiddleware())
	ag.GET("/students/:id", api.history)
	ag.GET("/students/:id/rate", api.rate)
}

func (api *attendanceApi) mark(ctx echo.Context) error {
	var data attendance.MarkAttendance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MarkAttendance")
	}

	rec, err := api.svc.Mark(data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *attendanceApi) toggle(ctx echo.Context) error {
	var data ToggleRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ToggleRequest")
	}

	rec, err := api.svc.Toggle(data.StudentID, data.Date)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *attendanceApi) markAllPresent(ctx echo.Context) error {
	var data MarkAllRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MarkAllRequest")
	}

	recs, err := api.svc.MarkAllPresent(data.ClassLevel, data.Batch, data.Date)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, recs)
}

// scan marks a student present from a scanned identifier and echoes the
// matched student back so the kiosk can confirm who was marked.
func (api *attendanceApi) scan(ctx echo.Context) error {
	var data ScanRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ScanRequest")
	}

	std, rec, err := api.svc.ScanPresent(data.Token, data.Date)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ScanResponse{Student: std, Record: rec})
}

func (api *attendanceApi) dayRecords(ctx echo.Context) error {
	recs, err := api.svc.DayRecords(ctx.QueryParam("date"))
	if err != nil {
		return errors.Wrap(err, "querying day records")
	}
	if recs == nil {
		recs = []attendance.Record{}
	}
	return ctx.JSON(http.StatusOK, recs)
}

func (api *attendanceApi) stats(ctx echo.Context) error {
	classLevel, _ := strconv.Atoi(ctx.QueryParam("class_level"))
	stats, err := api.svc.ClassDailyStats(classLevel, ctx.QueryParam("batch"), ctx.QueryParam("date"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *attendanceApi) history(ctx echo.Context) error {
	studentID := ctx.Param("id")
	if err := api.checkStudentAccess(ctx, studentID); err != nil {
		return err
	}

	recs, err := api.svc.History(studentID)
	if err != nil {
		return err
	}
	if recs == nil {
		recs = []attendance.Record{}
	}
	return ctx.JSON(http.StatusOK, recs)
}

func (api *attendanceApi) rate(ctx echo.Context) error {
	studentID := ctx.Param("id")
	if err := api.checkStudentAccess(ctx, studentID); err != nil {
		return err
	}

	rate, err := api.svc.StudentRate(studentID, ctx.QueryParam("from"), ctx.QueryParam("to"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rate)
}

// checkStudentAccess restricts per-student reads the same way report cards
// are: staff may view anyone, a student only themselves and a parent only
// their children.
func (api *attendanceApi) checkStudentAccess(ctx echo.Context, studentID string) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	if claims.IsAdmin || claims.IsTeacher {
		return nil
	}

	usr, err := getContextUser(ctx, api.usrSvc, claims)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if !canViewStudent(usr, studentID) {
		return errHttpNotFound
	}
	return nil
}

type (
	ToggleRequest struct {
		StudentID string `json:"student_id"`
		Date      string `json:"date"`
	}

	MarkAllRequest struct {
		ClassLevel int    `json:"class_level"`
		Batch      string `json:"batch"`
		Date       string `json:"date"`
	}

	ScanRequest struct {
		Token string `json:"token"`
		Date  string `json:"date"`
	}

	ScanResponse struct {
		Student student.Student   `json:"student"`
		Record  attendance.Record `json:"record"`
	}
)
