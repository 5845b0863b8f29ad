package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/padhai-app/padhai/core"
	"github.com/padhai-app/padhai/core/academics"
	"github.com/padhai-app/padhai/core/settings"
	"github.com/padhai-app/padhai/core/student"
	"github.com/padhai-app/padhai/core/user"
)

type academicsApi struct {
	svc    *academics.Service
	setSvc *settings.Service
	usrSvc *user.Service
	stdSvc *student.Service
}

func registerAcademicsAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *academics.Service, setSvc *settings.Service, usrSvc *user.Service, stdSvc *student.Service) {
	api := academicsApi{svc: svc, setSvc: setSvc, usrSvc: usrSvc, stdSvc: stdSvc}

	sg := g.Group("/subjects", jwt)
	sg.GET("", api.querySubjects)
	sg.POST("", api.createSubject, staffMiddleware())

	mg := g.Group("/marks", jwt)
	mg.GET("", api.queryMarks, staffMiddleware())
	mg.POST("", api.addMark, staffMiddleware())
	mg.PUT("/:id", api.updateMark, staffMiddleware())

	rg := g.Group("/ranking", jwt)
	rg.GET("", api.classRanking)

	g.GET("/students/:id/report-card", api.reportCard, jwt)
	g.POST("/results", api.publicResult) // no auth: register number + password

	ag := g.Group("/assignments", jwt)
	ag.GET("", api.queryAssignments)
	ag.POST("", api.createAssignment, staffMiddleware())
	ag.POST("/:id/submit", api.submitAssignment)
	ag.PUT("/:id/evaluate", api.evaluateAssignment, staffMiddleware())
}

// Subjects

func (api *academicsApi) querySubjects(ctx echo.Context) error {
	classLevel, _ := strconv.Atoi(ctx.QueryParam("class_level"))
	subs, err := api.svc.QuerySubjects(classLevel)
	if err != nil {
		return errors.Wrap(err, "querying subjects")
	}
	if subs == nil {
		subs = []academics.Subject{}
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *academicsApi) createSubject(ctx echo.Context) error {
	var data academics.NewSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubject")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	sub, err := api.svc.CreateSubject(data)
	if err != nil {
		return errors.Wrap(err, "creating subject")
	}
	return ctx.JSON(http.StatusCreated, sub)
}

// Marks

func (api *academicsApi) queryMarks(ctx echo.Context) error {
	filter := new(academics.MarkFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []academics.Mark{})
	}

	marks, err := api.svc.Marks(*filter)
	if err != nil {
		return errors.Wrap(err, "querying marks")
	}
	if marks == nil {
		marks = []academics.Mark{}
	}
	return ctx.JSON(http.StatusOK, marks)
}

func (api *academicsApi) addMark(ctx echo.Context) error {
	var data academics.NewMark
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMark")
	}

	mark, err := api.svc.AddMark(data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, mark)
}

func (api *academicsApi) updateMark(ctx echo.Context) error {
	var data academics.UpdateMark
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateMark")
	}

	mark, err := api.svc.UpdateMarkByID(ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, mark)
}

// Ranking & report cards

// classRanking serves the class leaderboard. Staff always see it; students
// and parents only while ranking is enabled in the system settings.
func (api *academicsApi) classRanking(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	if !(claims.IsAdmin || claims.IsTeacher) {
		cfg, err := api.setSvc.Get()
		if err != nil {
			return errors.Wrap(err, "reading settings")
		}
		if !cfg.RankingEnabled {
			return errHttpForbidden
		}
	}

	classLevel, _ := strconv.Atoi(ctx.QueryParam("class_level"))
	ranking, err := api.svc.ClassRanking(classLevel, ctx.QueryParam("exam_type"))
	if err != nil {
		return errors.Wrap(err, "computing class ranking")
	}
	if ranking == nil {
		ranking = []academics.RankedStudent{}
	}
	return ctx.JSON(http.StatusOK, ranking)
}

// reportCard serves a student's results. Staff may view anyone and always
// see the rank; a student sees their own card and a parent their children's,
// with the rank hidden while ranking is disabled.
func (api *academicsApi) reportCard(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	studentID := ctx.Param("id")

	includeRank := true
	if !(claims.IsAdmin || claims.IsTeacher) {
		usr, err := getContextUser(ctx, api.usrSvc, claims)
		if err != nil {
			return errors.Wrap(err, "getting context user")
		}
		if !canViewStudent(usr, studentID) {
			return errHttpNotFound
		}

		cfg, err := api.setSvc.Get()
		if err != nil {
			return errors.Wrap(err, "reading settings")
		}
		includeRank = cfg.RankingEnabled
	}

	card, err := api.svc.BuildReportCard(studentID, ctx.QueryParam("exam_type"), includeRank)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, card)
}

type (
	ResultRequest struct {
		RegisterNumber string `json:"register_number"`
		Password       string `json:"password"`
		ExamType       string `json:"exam_type"`
	}

	// ResultResponse mirrors the public results page: a student whose marks
	// have not been uploaded yet gets published=false instead of an error.
	ResultResponse struct {
		Published bool                  `json:"published"`
		Result    *academics.ReportCard `json:"result,omitempty"`
	}
)

// publicResult serves the unauthenticated results lookup. The caller proves
// who they are with a register number and the student account's password;
// both lookup misses and bad passwords fail the same way. The rank is only
// included while ranking is enabled.
func (api *academicsApi) publicResult(ctx echo.Context) error {
	var data ResultRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ResultRequest")
	}

	regNum := core.CleanString(data.RegisterNumber)
	if regNum == "" || data.Password == "" {
		return errAuthenticationFailed
	}

	std, err := api.stdSvc.ResolveToken(regNum)
	if err != nil || std.RegisterNumber != regNum {
		return errAuthenticationFailed
	}
	usr, err := api.usrSvc.GetByStudentID(std.ID)
	if err != nil {
		return errAuthenticationFailed
	}
	if err = usr.CheckPassword(data.Password); err != nil {
		return errAuthenticationFailed
	}
	if !usr.IsActive {
		return errAccountDeactivated
	}

	cfg, err := api.setSvc.Get()
	if err != nil {
		return errors.Wrap(err, "reading settings")
	}
	card, err := api.svc.BuildReportCard(std.ID, data.ExamType, cfg.RankingEnabled)
	if err != nil {
		return err
	}
	if len(card.Subjects) == 0 {
		return ctx.JSON(http.StatusOK, ResultResponse{Published: false})
	}
	return ctx.JSON(http.StatusOK, ResultResponse{Published: true, Result: &card})
}

func canViewStudent(usr user.User, studentID string) bool {
	if usr.IsStudent() {
		return usr.StudentID == studentID
	}
	if usr.IsParent() {
		for _, id := range usr.ChildrenIDs {
			if id == studentID {
				return true
			}
		}
	}
	return false
}

// Assignments

func (api *academicsApi) queryAssignments(ctx echo.Context) error {
	filter := new(academics.AssignmentFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []academics.Assignment{})
	}

	as, err := api.svc.Assignments(*filter)
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	if as == nil {
		as = []academics.Assignment{}
	}
	return ctx.JSON(http.StatusOK, as)
}

func (api *academicsApi) createAssignment(ctx echo.Context) error {
	var data academics.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}

	a, err := api.svc.CreateAssignment(data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, a)
}

func (api *academicsApi) submitAssignment(ctx echo.Context) error {
	a, err := api.svc.SubmitAssignment(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *academicsApi) evaluateAssignment(ctx echo.Context) error {
	var data academics.EvaluateAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EvaluateAssignment")
	}

	a, err := api.svc.EvaluateAssignmentByID(ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, a)
}
