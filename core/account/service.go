package account

import (
	"context"
	"errors"
	"time"

	"github.com/Aleguiojo777/Teacher-Portal/core"
)

var (
	// errors
	ErrNotFound    = errors.New("account not found")
	ErrEmailExists = errors.New("an account with this email already exists")
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string, excludedAccounts ...Account) error
		CreateAccount(ctx context.Context, acct Account) (Account, error)
		// QueryAllAccounts returns all accounts, newest id first.
		QueryAllAccounts(ctx context.Context) ([]Account, error)
		GetAccountByID(ctx context.Context, id int) (Account, error)
		GetAccountByEmail(ctx context.Context, email string) (Account, error)
		GetMainAccount(ctx context.Context) (Account, error)
		// UpdateAccount persists acct's non-empty fields; isAdmin is applied when
		// non-nil. The is_main flag is never written through this path.
		UpdateAccount(ctx context.Context, acct Account, isAdmin *bool) (Account, error)
		DeleteAccountByID(ctx context.Context, id int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CheckEmailUniqueness(email string, exclAccts ...Account) error {
	if err := svc.repo.CheckEmailUniqueness(context.Background(), email, exclAccts...); err != nil {
		if errors.Is(err, ErrEmailExists) {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, na NewAccount) (Account, error) {
	acct := Account{
		FullName:  na.FullName,
		Email:     na.Email,
		IsAdmin:   na.IsAdmin,
		CreatedAt: time.Now().UTC(),
	}
	if err := acct.SetPassword(na.Password); err != nil {
		return Account{}, err
	}
	return svc.repo.CreateAccount(ctx, acct)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Account, error) {
	return svc.repo.QueryAllAccounts(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Account, error) {
	return svc.repo.GetAccountByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (Account, error) {
	return svc.repo.GetAccountByEmail(ctx, core.CleanString(email))
}

func (svc *Service) Update(ctx context.Context, id int, ua UpdateAccount) (Account, error) {
	acct := Account{
		ID:       id,
		FullName: ua.FullName,
		Email:    ua.Email,
	}
	if ua.Password != "" {
		if err := acct.SetPassword(ua.Password); err != nil {
			return Account{}, err
		}
	}
	return svc.repo.UpdateAccount(ctx, acct, ua.IsAdmin)
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	return svc.repo.DeleteAccountByID(ctx, id)
}
