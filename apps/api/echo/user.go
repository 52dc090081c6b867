package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Aleguiojo777/Teacher-Portal/core"
	"github.com/Aleguiojo777/Teacher-Portal/core/account"
)

type accountApi struct {
	svc      *account.Service
	failures *failureTracker
}

func registerAccountAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *account.Service, mailSvc core.EmailService) {
	api := accountApi{
		svc:      svc,
		failures: newFailureTracker(core.Conf.Server.LockoutThreshold, mailSvc),
	}

	throttle := newLoginThrottle(core.Conf.Server.LoginRateBurst, core.Conf.Server.LoginRatePerMin)

	// un-authed endpoints
	g.POST("/admin/login", api.login, throttle.middleware())

	// authed endpoints; all account management is admin-only
	ag := g.Group("/users", jwt, adminMiddleware(svc))
	ag.GET("", api.query)
	ag.POST("", api.create)
	ag.PUT("/:id", api.update)
	ag.DELETE("/:id", api.destroy)
}

// Handlers

func (api *accountApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	acct, err := authenticate(ctx, data.Email, data.Password, api.svc)
	if err != nil {
		if errors.Cause(err) == errAuthenticationFailed {
			api.failures.noteFailure(data.Email, ctx.RealIP())
		}
		return errors.Wrap(err, "authenticating")
	}
	api.failures.noteSuccess(data.Email)

	token, err := GenerateToken(GetAccountClaims(acct))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{
		Success: true,
		Admin: AccountInfo{
			ID:       acct.ID,
			FullName: acct.FullName,
			Email:    acct.Email,
			IsAdmin:  acct.IsAdmin,
			IsMain:   acct.IsMain,
		},
		Token: token,
	})
}

func (api *accountApi) query(ctx echo.Context) error {
	accts, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying accounts")
	}
	if accts == nil {
		accts = []account.Account{}
	}
	return ctx.JSON(http.StatusOK, accts)
}

func (api *accountApi) create(ctx echo.Context) error {
	var data account.NewAccount
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAccount")
	}
	if err := data.Validate(api.svc); err != nil {
		return err
	}

	acct, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating account")
	}
	return ctx.JSON(http.StatusCreated, IDResponse{ID: acct.ID})
}

func (api *accountApi) update(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}

	target, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == account.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding account by ID")
	}

	ctxAcct, err := getContextAccount(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context account")
	}
	if !account.CanEditUser(ctxAcct, target) {
		return errHttpForbidden
	}

	var data account.UpdateAccount
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAccount")
	}
	if err = data.Validate(target, api.svc); err != nil {
		return err
	}

	if _, err = api.svc.Update(ctx.Request().Context(), id, data); err != nil {
		return errors.Wrap(err, "updating account")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func (api *accountApi) destroy(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}

	target, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == account.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding account by ID")
	}

	ctxAcct, err := getContextAccount(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context account")
	}
	if !account.CanDeleteUser(ctxAcct, target) {
		return errHttpForbidden
	}

	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting account")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: true})
}

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Success bool        `json:"success"`
		Admin   AccountInfo `json:"admin"`
		Token   string      `json:"token"`
	}

	// AccountInfo is the slim account representation returned on login.
	AccountInfo struct {
		ID       int    `json:"id"`
		FullName string `json:"fullName"`
		Email    string `json:"email"`
		IsAdmin  bool   `json:"isAdmin"`
		IsMain   bool   `json:"isMain"`
	}

	SuccessResponse struct {
		Success bool `json:"success"`
	}

	IDResponse struct {
		ID int `json:"id"`
	}
)

func (lr *LoginRequest) Validate() error {
	lr.Email = core.CleanString(lr.Email)
	return core.Validate.Struct(lr)
}
