// Package redisstore implements account.Store on Redis.
//
// Accounts are stored as JSON under <prefix>:account:<id> next to an email
// index <prefix>:email:<email> holding the id. Both keys are written by one
// script that first claims the index, so a record never exists without its
// index and only one of several concurrent registrations for an email wins.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kbukum/authsvc/account"
	"github.com/kbukum/authsvc/redis"
)

type record struct {
	ID           string           `json:"id"`
	FullName     string           `json:"full_name"`
	Email        string           `json:"email"`
	PasswordHash string           `json:"password_hash,omitempty"`
	Provider     account.Provider `json:"provider"`
	Role         account.Role     `json:"role"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

func toRecord(a *account.Account) *record {
	return &record{
		ID:           a.ID,
		FullName:     a.FullName,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		Provider:     a.Provider,
		Role:         a.Role,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func (r *record) toAccount() *account.Account {
	return &account.Account{
		ID:           r.ID,
		FullName:     r.FullName,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Provider:     r.Provider,
		Role:         r.Role,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// Store is an account.Store backed by Redis.
type Store struct {
	client *redis.Client
	now    func() time.Time
}

var _ account.Store = (*Store)(nil)

// New creates a Store in the client's namespace.
func New(client *redis.Client) *Store {
	return &Store{client: client, now: time.Now}
}

// slotTag is a Redis Cluster hash tag shared by every account key, so the
// record and its email index always land in the same slot for ClaimAndSet.
const slotTag = "{accounts}"

func (s *Store) accountKey(id string) string { return s.client.Key(slotTag, "account", id) }

func (s *Store) emailKey(email string) string { return s.client.Key(slotTag, "email", email) }

func (s *Store) FindByEmail(ctx context.Context, email string) (*account.Account, error) {
	id, err := s.client.Get(ctx, s.emailKey(email))
	if redis.IsNil(err) {
		return nil, account.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find account by email: %w", err)
	}
	return s.FindByID(ctx, id)
}

func (s *Store) FindByID(ctx context.Context, id string) (*account.Account, error) {
	raw, err := s.client.Get(ctx, s.accountKey(id))
	if redis.IsNil(err) {
		return nil, account.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	var r record
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, fmt.Errorf("decode account %s: %w", id, err)
	}
	return r.toAccount(), nil
}

func (s *Store) Create(ctx context.Context, a *account.Account) error {
	account.Prepare(a, s.now().UTC())
	doc, err := json.Marshal(toRecord(a))
	if err != nil {
		return fmt.Errorf("encode account: %w", err)
	}
	won, err := s.client.ClaimAndSet(ctx, s.emailKey(a.Email), a.ID, s.accountKey(a.ID), doc)
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	if !won {
		return account.ErrDuplicateEmail
	}
	return nil
}
