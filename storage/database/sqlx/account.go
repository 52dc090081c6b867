package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Aleguiojo777/Teacher-Portal/core/account"
)

type accountRow struct {
	ID           int       `db:"id"`
	FullName     string    `db:"full_name"`
	Email        string    `db:"email"`
	PasswordHash []byte    `db:"password_hash"`
	IsAdmin      bool      `db:"is_admin"`
	IsMain       bool      `db:"is_main"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r accountRow) toCore() account.Account {
	return account.Account{
		ID:           r.ID,
		FullName:     r.FullName,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		IsAdmin:      r.IsAdmin,
		IsMain:       r.IsMain,
		CreatedAt:    r.CreatedAt.UTC(),
	}
}

type accountRepository struct {
	db *sqlx.DB
}

var _ account.Repository = (*accountRepository)(nil) // interface compliance check

func NewAccountRepository(db *sqlx.DB) *accountRepository {
	return &accountRepository{db: db}
}

func (repo accountRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedAccounts ...account.Account) error {
	query := `SELECT EXISTS (SELECT 1 FROM admins WHERE email = ?)`
	args := []interface{}{email}
	if len(excludedAccounts) > 0 {
		ids := make([]int, 0, len(excludedAccounts))
		for _, a := range excludedAccounts {
			ids = append(ids, a.ID)
		}
		var err error
		query, args, err = sqlx.In(`SELECT EXISTS (SELECT 1 FROM admins WHERE email = ? AND id NOT IN (?))`, email, ids)
		if err != nil {
			return errors.Wrap(err, "building uniqueness query")
		}
	}

	var exists bool
	if err := repo.db.GetContext(ctx, &exists, query, args...); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if exists {
		return account.ErrEmailExists
	}
	return nil
}

func (repo accountRepository) CreateAccount(ctx context.Context, acct account.Account) (account.Account, error) {
	res, err := repo.db.ExecContext(ctx,
		`INSERT INTO admins (full_name, email, password_hash, is_admin, is_main, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		acct.FullName, acct.Email, acct.PasswordHash, acct.IsAdmin, acct.IsMain, acct.CreatedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return account.Account{}, account.ErrEmailExists
		}
		return account.Account{}, errors.Wrap(err, "inserting account")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return account.Account{}, errors.Wrap(err, "reading inserted account id")
	}
	acct.ID = int(id)
	return acct, nil
}

func (repo accountRepository) QueryAllAccounts(ctx context.Context) ([]account.Account, error) {
	var rows []accountRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT id, full_name, email, password_hash, is_admin, is_main, created_at
		 FROM admins ORDER BY id DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "querying accounts")
	}

	accts := make([]account.Account, 0, len(rows))
	for _, r := range rows {
		accts = append(accts, r.toCore())
	}
	return accts, nil
}

func (repo accountRepository) getAccount(ctx context.Context, query string, args ...interface{}) (account.Account, error) {
	var row accountRow
	if err := repo.db.GetContext(ctx, &row, query, args...); err != nil {
		return account.Account{}, trapNoRowsErr(err, account.ErrNotFound, "getting account")
	}
	return row.toCore(), nil
}

func (repo accountRepository) GetAccountByID(ctx context.Context, id int) (account.Account, error) {
	return repo.getAccount(ctx,
		`SELECT id, full_name, email, password_hash, is_admin, is_main, created_at FROM admins WHERE id = ?`, id)
}

func (repo accountRepository) GetAccountByEmail(ctx context.Context, email string) (account.Account, error) {
	return repo.getAccount(ctx,
		`SELECT id, full_name, email, password_hash, is_admin, is_main, created_at FROM admins WHERE email = ?`, email)
}

func (repo accountRepository) GetMainAccount(ctx context.Context) (account.Account, error) {
	return repo.getAccount(ctx,
		`SELECT id, full_name, email, password_hash, is_admin, is_main, created_at FROM admins WHERE is_main = 1`)
}

func (repo accountRepository) UpdateAccount(ctx context.Context, acct account.Account, isAdmin *bool) (account.Account, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return account.Account{}, errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	var row accountRow
	if err := tx.GetContext(ctx, &row,
		`SELECT id, full_name, email, password_hash, is_admin, is_main, created_at FROM admins WHERE id = ?`,
		acct.ID,
	); err != nil {
		return account.Account{}, trapNoRowsErr(err, account.ErrNotFound, "getting account")
	}

	if acct.FullName != "" {
		row.FullName = acct.FullName
	}
	if acct.Email != "" {
		row.Email = acct.Email
	}
	if len(acct.PasswordHash) > 0 {
		row.PasswordHash = acct.PasswordHash
	}
	if isAdmin != nil {
		row.IsAdmin = *isAdmin
	}

	// is_main is deliberately not part of the update set
	if _, err := tx.ExecContext(ctx,
		`UPDATE admins SET full_name = ?, email = ?, password_hash = ?, is_admin = ? WHERE id = ?`,
		row.FullName, row.Email, row.PasswordHash, row.IsAdmin, row.ID,
	); err != nil {
		if isUniqueViolation(err) {
			return account.Account{}, account.ErrEmailExists
		}
		return account.Account{}, errors.Wrap(err, "updating account")
	}

	if err := tx.Commit(); err != nil {
		return account.Account{}, errors.Wrap(err, "committing account update")
	}
	return row.toCore(), nil
}

func (repo accountRepository) DeleteAccountByID(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM admins WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "deleting account")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "reading affected rows")
	}
	if n == 0 {
		return account.ErrNotFound
	}
	return nil
}
