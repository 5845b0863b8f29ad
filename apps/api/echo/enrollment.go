package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/padhai-app/padhai/core/enrollment"
)

type enrollmentApi struct {
	svc *enrollment.Service
}

func registerEnrollmentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *enrollment.Service) {
	api := enrollmentApi{svc: svc}

	eg := g.Group("/enrollments")

	// un-authed: public self-enrollment form
	eg.POST("/submit", api.submit)

	// authed endpoints
	ag := eg.Group("", jwt)
	ag.GET("", api.query, adminMiddleware())
	ag.POST("/offline", api.confirmOffline, adminMiddleware())
	ag.GET("/stats", api.stats, adminMiddleware())
	ag.GET("/payments", api.allPayments, adminMiddleware())
	ag.POST("/payments", api.recordPayment, adminMiddleware())
	ag.GET("/:id", api.retrieve, adminMiddleware())
	ag.PUT("/:id/status", api.updateStatus, adminMiddleware())
	ag.GET("/:id/payments", api.payments, adminMiddleware())
	ag.GET("/:id/summary", api.summary, adminMiddleware())
}

func (api *enrollmentApi) submit(ctx echo.Context) error {
	var data enrollment.NewEnrollment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEnrollment")
	}

	enr, err := api.svc.Submit(data)
	if err != nil {
		return errors.Wrap(err, "submitting enrollment")
	}
	return ctx.JSON(http.StatusCreated, enr)
}

func (api *enrollmentApi) confirmOffline(ctx echo.Context) error {
	var data enrollment.OfflineEnrollment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to OfflineEnrollment")
	}

	enr, err := api.svc.ConfirmOffline(data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, enr)
}

func (api *enrollmentApi) query(ctx echo.Context) error {
	filter := new(enrollment.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []enrollment.Enrollment{})
	}

	var enrs []enrollment.Enrollment
	var err error
	if filter.IsEmpty() {
		enrs, err = api.svc.QueryAll()
	} else {
		enrs, err = api.svc.Filter(*filter)
	}
	if err != nil {
		return errors.Wrap(err, "querying enrollments")
	}
	if enrs == nil {
		enrs = []enrollment.Enrollment{}
	}
	return ctx.JSON(http.StatusOK, enrs)
}

func (api *enrollmentApi) retrieve(ctx echo.Context) error {
	enr, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, enr)
}

func (api *enrollmentApi) updateStatus(ctx echo.Context) error {
	var data StatusUpdateRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StatusUpdateRequest")
	}

	enr, err := api.svc.UpdateStatus(ctx.Param("id"), data.Status)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, enr)
}

func (api *enrollmentApi) recordPayment(ctx echo.Context) error {
	var data enrollment.NewPayment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPayment")
	}

	pay, err := api.svc.RecordPayment(data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, pay)
}

func (api *enrollmentApi) payments(ctx echo.Context) error {
	pays, err := api.svc.Payments(ctx.Param("id"))
	if err != nil {
		return err
	}
	if pays == nil {
		pays = []enrollment.Payment{}
	}
	return ctx.JSON(http.StatusOK, pays)
}

func (api *enrollmentApi) allPayments(ctx echo.Context) error {
	pays, err := api.svc.AllPayments()
	if err != nil {
		return errors.Wrap(err, "querying payments")
	}
	if pays == nil {
		pays = []enrollment.Payment{}
	}
	return ctx.JSON(http.StatusOK, pays)
}

func (api *enrollmentApi) summary(ctx echo.Context) error {
	summary, err := api.svc.Summary(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, summary)
}

func (api *enrollmentApi) stats(ctx echo.Context) error {
	stats, err := api.svc.CollectionStats()
	if err != nil {
		return errors.Wrap(err, "computing collection stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

type StatusUpdateRequest struct {
	Status string `json:"status"`
}
