package echoapi

import (
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/Aleguiojo777/Teacher-Portal/core"
	"github.com/Aleguiojo777/Teacher-Portal/core/account"
)

var (
	// appJWTConfig is the default JWT auth middleware config.
	appJWTConfig = middleware.JWTConfig{
		SigningKey:    []byte(core.Conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    "accountToken",
		Claims:        new(Claims),
	}
	contextAccountKey = "account"
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email,omitempty"`
	IsAdmin  bool   `json:"isAdmin,omitempty"`
	IsMain   bool   `json:"isMain,omitempty"`
}

func GetAccountClaims(acct account.Account) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    core.Conf.AppName,
			Subject:   strconv.Itoa(acct.ID),
			ExpiresAt: now.Add(core.Conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		FullName: acct.FullName,
		Email:    acct.Email,
		IsAdmin:  acct.IsAdmin,
		IsMain:   acct.IsMain,
	}
}

func authenticate(ctx echo.Context, email, pwd string, svc *account.Service) (account.Account, error) {
	acct, err := svc.GetByEmail(ctx.Request().Context(), email)
	if err != nil {
		if errors.Cause(err) == account.ErrNotFound {
			return account.Account{}, errAuthenticationFailed
		}
		return account.Account{}, errors.Wrap(err, "finding account by email")
	}
	if err = acct.CheckPassword(pwd); err != nil {
		return account.Account{}, errAuthenticationFailed
	}
	return acct, nil
}

// GenerateToken generates a signed JWT token string representing the account Claims.
func GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(appJWTConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(appJWTConfig.SigningKey)
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(appJWTConfig.ContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// getContextAccount reloads the requesting account from the database so that
// tokens of deleted accounts stop working immediately.
func getContextAccount(ctx echo.Context, svc *account.Service) (account.Account, error) {
	if acct, ok := ctx.Get(contextAccountKey).(account.Account); ok {
		return acct, nil
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return account.Account{}, errors.Wrap(err, "getting context claims")
	}

	id, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return account.Account{}, errUnauthorized
	}
	acct, err := svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == account.ErrNotFound {
			return account.Account{}, errUnauthorized
		}
		return account.Account{}, errors.Wrap(err, "finding account by ID")
	}
	ctx.Set(contextAccountKey, acct)
	return acct, nil
}
