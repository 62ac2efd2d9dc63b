// Package sqlstore implements account.Store on GORM.
package sqlstore

import (
	"context"
	"embed"
	"time"

	"github.com/kbukum/authsvc/account"
	"github.com/kbukum/authsvc/database"
)

//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsPath is the directory inside Migrations holding the SQL files.
const MigrationsPath = "migrations"

type accountRow struct {
	ID           string    `gorm:"column:id;primaryKey"`
	FullName     string    `gorm:"column:full_name"`
	Email        string    `gorm:"column:email"`
	PasswordHash *string   `gorm:"column:password_hash"`
	Provider     string    `gorm:"column:provider"`
	Role         string    `gorm:"column:role"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime:false"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (accountRow) TableName() string { return "accounts" }

func toRow(a *account.Account) *accountRow {
	row := &accountRow{
		ID:        a.ID,
		FullName:  a.FullName,
		Email:     a.Email,
		Provider:  string(a.Provider),
		Role:      string(a.Role),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
	if a.PasswordHash != "" {
		hash := a.PasswordHash
		row.PasswordHash = &hash
	}
	return row
}

func (r *accountRow) toAccount() *account.Account {
	a := &account.Account{
		ID:        r.ID,
		FullName:  r.FullName,
		Email:     r.Email,
		Provider:  account.Provider(r.Provider),
		Role:      account.Role(r.Role),
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
	if r.PasswordHash != nil {
		a.PasswordHash = *r.PasswordHash
	}
	return a
}

// Store is an account.Store backed by a SQL database. Email uniqueness is
// enforced by the accounts_email_key constraint.
type Store struct {
	db  *database.DB
	now func() time.Time
}

var _ account.Store = (*Store)(nil)

// New creates a Store on an open database. The accounts table must exist;
// see Migrations.
func New(db *database.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*account.Account, error) {
	return s.first(ctx, "email = ?", email)
}

func (s *Store) FindByID(ctx context.Context, id string) (*account.Account, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *Store) Create(ctx context.Context, a *account.Account) error {
	// Timestamps are truncated to what every supported column type keeps.
	account.Prepare(a, s.now().UTC().Truncate(time.Microsecond))
	if err := s.db.WithContext(ctx).Create(toRow(a)).Error; err != nil {
		if database.IsDuplicateError(err) {
			return account.ErrDuplicateEmail
		}
		return database.FromDatabase(err)
	}
	return nil
}

func (s *Store) first(ctx context.Context, query string, arg string) (*account.Account, error) {
	var row accountRow
	err := s.db.WithContext(ctx).Where(query, arg).Take(&row).Error
	if database.IsNotFoundError(err) {
		return nil, account.ErrNotFound
	}
	if err != nil {
		return nil, database.FromDatabase(err)
	}
	return row.toAccount(), nil
}
