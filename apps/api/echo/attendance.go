package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Aleguiojo777/Teacher-Portal/core"
	"github.com/Aleguiojo777/Teacher-Portal/core/account"
	"github.com/Aleguiojo777/Teacher-Portal/core/attendance"
	"github.com/Aleguiojo777/Teacher-Portal/core/student"
)

var errDateRangeRequired = core.NewValidationError(
	nil,
	core.FieldError{Field: "startDate", Error: "this field is required"},
	core.FieldError{Field: "endDate", Error: "this field is required"},
)

type attendanceApi struct {
	acctSvc    *account.Service
	studentSvc *student.Service
	svc        *attendance.Service
}

func registerAttendanceAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	acctSvc *account.Service,
	studentSvc *student.Service,
	svc *attendance.Service,
) {
	api := attendanceApi{acctSvc: acctSvc, studentSvc: studentSvc, svc: svc}

	ag := g.Group("/attendance", jwt)
	ag.POST("", api.record)
	ag.GET("/:date", api.queryByDate)
	ag.GET("/:date/stats", api.dayStats)

	g.GET("/reports/attendance", api.report, jwt)
}

// Handlers

func (api *attendanceApi) record(ctx echo.Context) error {
	ctxAcct, err := getContextAccount(ctx, api.acctSvc)
	if err != nil {
		return errors.Wrap(err, "getting context account")
	}

	var data attendance.NewRecord
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRecord")
	}
	if err = data.Validate(); err != nil {
		return err
	}

	if _, err = api.svc.SetStatus(ctx.Request().Context(), data, ctxAcct); err != nil {
		switch errors.Cause(err) {
		case student.ErrNotFound:
			return errHttpNotFound
		case attendance.ErrNotOwner:
			return errHttpForbidden
		}
		return errors.Wrap(err, "recording attendance")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func (api *attendanceApi) queryByDate(ctx echo.Context) error {
	date, err := cleanDateParam(ctx)
	if err != nil {
		return err
	}

	ctxAcct, err := getContextAccount(ctx, api.acctSvc)
	if err != nil {
		return errors.Wrap(err, "getting context account")
	}

	recs, err := api.svc.QueryByDate(ctx.Request().Context(), date, ctxAcct)
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	if recs == nil {
		recs = []attendance.StudentRecord{}
	}
	return ctx.JSON(http.StatusOK, recs)
}

func (api *attendanceApi) dayStats(ctx echo.Context) error {
	date, err := cleanDateParam(ctx)
	if err != nil {
		return err
	}

	ctxAcct, err := getContextAccount(ctx, api.acctSvc)
	if err != nil {
		return errors.Wrap(err, "getting context account")
	}

	recs, err := api.svc.QueryByDate(ctx.Request().Context(), date, ctxAcct)
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	roster, err := api.studentSvc.QueryVisibleTo(ctx.Request().Context(), ctxAcct)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, attendance.ComputeDayStats(recs, roster))
}

func (api *attendanceApi) report(ctx echo.Context) error {
	start := core.CleanString(ctx.QueryParam("startDate"))
	end := core.CleanString(ctx.QueryParam("endDate"))
	if start == "" || end == "" {
		return errDateRangeRequired
	}
	for _, d := range []string{start, end} {
		if !attendance.IsValidDate(d) {
			return core.NewValidationError(errors.Errorf("invalid date %q, expected YYYY-MM-DD", d))
		}
	}

	ctxAcct, err := getContextAccount(ctx, api.acctSvc)
	if err != nil {
		return errors.Wrap(err, "getting context account")
	}

	recs, err := api.svc.QueryRange(ctx.Request().Context(), start, end, ctxAcct)
	if err != nil {
		return errors.Wrap(err, "querying attendance range")
	}
	if recs == nil {
		recs = []attendance.StudentRecord{}
	}
	return ctx.JSON(http.StatusOK, recs)
}

func cleanDateParam(ctx echo.Context) (string, error) {
	date := core.CleanString(ctx.Param("date"))
	if !attendance.IsValidDate(date) {
		return "", core.NewValidationError(errors.Errorf("invalid date %q, expected YYYY-MM-DD", date))
	}
	return date, nil
}
