package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/padhai-app/padhai/core/catalog"
)

type catalogApi struct {
	svc *catalog.Service
}

func registerCatalogAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *catalog.Service) {
	api := catalogApi{svc: svc}

	// courses are public: the enrollment form lists them
	cg := g.Group("/courses")
	cg.GET("", api.queryCourses)
	acg := cg.Group("", jwt, adminMiddleware())
	acg.POST("", api.createCourse)
	acg.DELETE("/:id", api.destroyCourse)

	ng := g.Group("/notes", jwt)
	ng.GET("", api.queryNotes)
	ng.POST("", api.createNote, staffMiddleware())
	ng.DELETE("/:id", api.destroyNote, staffMiddleware())
}

func (api *catalogApi) queryCourses(ctx echo.Context) error {
	courses, err := api.svc.Courses()
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	if courses == nil {
		courses = []catalog.Course{}
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *catalogApi) createCourse(ctx echo.Context) error {
	var data catalog.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}

	course, err := api.svc.CreateCourse(data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, course)
}

func (api *catalogApi) destroyCourse(ctx echo.Context) error {
	if err := api.svc.DeleteCourse(ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *catalogApi) queryNotes(ctx echo.Context) error {
	filter := new(catalog.NoteFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []catalog.Note{})
	}

	notes, err := api.svc.Notes(*filter)
	if err != nil {
		return errors.Wrap(err, "querying notes")
	}
	if notes == nil {
		notes = []catalog.Note{}
	}
	return ctx.JSON(http.StatusOK, notes)
}

func (api *catalogApi) createNote(ctx echo.Context) error {
	var data catalog.NewNote
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewNote")
	}

	note, err := api.svc.CreateNote(data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, note)
}

func (api *catalogApi) destroyNote(ctx echo.Context) error {
	if err := api.svc.DeleteNote(ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
