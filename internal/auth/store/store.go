package store

import (
	"context"
	"errors"
	"time"

	"github.com/Dorian9120/eventyfast/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today,
// postgres later) implement this. It exposes sub-repositories to keep
// concerns tidy and testable.
type Store interface {
	Accounts() Accounts
	LoginHistory() LoginHistory
	Notifications() Notifications
	Events() Events

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. This is the
	// recommended way to run multi-step writes (e.g. password change plus
	// mutation-counter bump).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Accounts interface {
	// GetByID returns an account by id.
	GetByID(ctx context.Context, id string) (domain.Account, error)

	// GetByEmail matches case-insensitively; emails are stored lowercase.
	GetByEmail(ctx context.Context, email string) (domain.Account, error)

	// GetByUsername is used for uniqueness checks and contact verification.
	GetByUsername(ctx context.Context, username string) (domain.Account, error)

	// GetByPhone is used for uniqueness checks during registration.
	GetByPhone(ctx context.Context, phone string) (domain.Account, error)

	// Create inserts a new account (id provided by the app via ULID).
	// Returns ErrAlreadyExists on a unique-constraint violation.
	Create(ctx context.Context, a domain.Account) error

	// UpdatePasswordHash sets the password hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, id string, newHash string) error

	// UpdateUsername mutates the username and bumps updated_at.
	UpdateUsername(ctx context.Context, id string, username string) error

	// UpdateMutationWindow persists the self-service throttle state.
	UpdateMutationWindow(ctx context.Context, id string, count int, windowStart time.Time) error

	// UpdateTwoFactor persists the complete 2FA state in one write so the
	// secret and both flags can never drift apart.
	UpdateTwoFactor(ctx context.Context, id string, secret *string, enabled, verified bool) error

	// Delete removes the account. Events, history and notifications cascade.
	Delete(ctx context.Context, id string) error
}

type LoginHistory interface {
	// Create appends a connection-history entry.
	Create(ctx context.Context, rec domain.LoginRecord) error

	// ListByAccount returns entries newest first.
	ListByAccount(ctx context.Context, accountID string) ([]domain.LoginRecord, error)

	// DeleteByAccount removes all entries and reports how many were removed.
	DeleteByAccount(ctx context.Context, accountID string) (int64, error)
}

type Notifications interface {
	// Exists reports whether a notification of the given type already exists
	// for the account/event pair. Used to keep the event-full scan idempotent.
	Exists(ctx context.Context, accountID, eventID, notifType string) (bool, error)

	// Create inserts a new notification.
	Create(ctx context.Context, n domain.Notification) error
}

type Events interface {
	// ListByOwner returns the events created by an account.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Event, error)

	// Create inserts an event row. The event service owns the full event
	// lifecycle; this exists for the account service's tests and cascades.
	Create(ctx context.Context, e domain.Event) error
}
