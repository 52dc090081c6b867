package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Aleguiojo777/Teacher-Portal/core/account"
)

// adminMiddleware reloads the requesting account and only lets admins
// through. The admin bit comes from the database row, not the token claims,
// so deleted or demoted accounts lose access immediately.
func adminMiddleware(svc *account.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			acct, err := getContextAccount(ctx, svc)
			if err != nil {
				return errors.Wrap(err, "getting context account")
			}
			if acct.IsAdmin {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}
