package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Aleguiojo777/Teacher-Portal/core/account"
	"github.com/Aleguiojo777/Teacher-Portal/core/student"
)

type studentApi struct {
	acctSvc *account.Service
	svc     *student.Service
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, acctSvc *account.Service, svc *student.Service) {
	api := studentApi{acctSvc: acctSvc, svc: svc}

	sg := g.Group("/students", jwt)
	sg.GET("", api.query)
	sg.POST("", api.create)
	sg.GET("/:id", api.retrieve)
	sg.PUT("/:id", api.update)
	sg.DELETE("/:id", api.destroy)
}

// Handlers

func (api *studentApi) query(ctx echo.Context) error {
	ctxAcct, err := getContextAccount(ctx, api.acctSvc)
	if err != nil {
		return errors.Wrap(err, "getting context account")
	}

	students, err := api.svc.QueryVisibleTo(ctx.Request().Context(), ctxAcct)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []student.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) create(ctx echo.Context) error {
	ctxAcct, err := getContextAccount(ctx, api.acctSvc)
	if err != nil {
		return errors.Wrap(err, "getting context account")
	}

	var data student.Input
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Input")
	}
	if err = data.Validate(); err != nil {
		return err
	}

	s, err := api.svc.Create(ctx.Request().Context(), data, ctxAcct.ID)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	s, err := api.getVisibleStudent(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *studentApi) update(ctx echo.Context) error {
	s, err := api.getVisibleStudent(ctx)
	if err != nil {
		return err
	}

	var data student.Input
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Input")
	}
	if err = data.Validate(); err != nil {
		return err
	}

	s, err = api.svc.Update(ctx.Request().Context(), s.ID, data)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	s, err := api.getVisibleStudent(ctx)
	if err != nil {
		return err
	}

	if err = api.svc.Delete(ctx.Request().Context(), s.ID); err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting student")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Student deleted successfully"})
}

// getVisibleStudent resolves :id with the requester's visibility: a student
// another teacher owns is reported as not found, never as forbidden.
func (api *studentApi) getVisibleStudent(ctx echo.Context) (student.Student, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return student.Student{}, errHttpNotFound
	}

	ctxAcct, err := getContextAccount(ctx, api.acctSvc)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "getting context account")
	}

	s, err := api.svc.GetVisibleTo(ctx.Request().Context(), id, ctxAcct)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return student.Student{}, errHttpNotFound
		}
		return student.Student{}, errors.Wrap(err, "finding student by ID")
	}
	return s, nil
}

type MessageResponse struct {
	Message string `json:"message"`
}
