package accounts

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/health-optimised/directory-backend/pkg/enums"
	"github.com/health-optimised/directory-backend/pkg/errors"
	"github.com/health-optimised/directory-backend/pkg/kv"
	"github.com/health-optimised/directory-backend/pkg/logger"
)

const (
	AccountsKey = "auth:accounts"
	SessionKey  = "auth:session"
)

// Account is a mock credential pair. Passwords are stored in the clear; this
// directory backs a demo login, not a production identity system.
type Account struct {
	Username string     `json:"username"`
	Password string     `json:"password"`
	Role     enums.Role `json:"role"`
}

// Session records the active login.
type Session struct {
	Username   string     `json:"username"`
	Role       enums.Role `json:"role"`
	LoggedInAt int64      `json:"loggedInAt"`
}

// AccountUpdate carries credential patches applied per role. Empty fields are
// left unchanged.
type AccountUpdate struct {
	Username string
	Password string
}

func defaultAccounts() []Account {
	return []Account{
		{Username: "admin@example.com", Password: "admin123", Role: enums.RoleAdmin},
		{Username: "user@example.com", Password: "user123", Role: enums.RoleUser},
	}
}

// Directory manages the mock account list and the single active session.
type Directory struct {
	store kv.Store
	logg  *logger.Logger
	now   func() time.Time

	mu       sync.Mutex
	accounts []Account
	session  *Session
}

// NewDirectory loads accounts and any saved session from storage. Malformed
// or missing account data falls back to the defaults.
func NewDirectory(ctx context.Context, store kv.Store, logg *logger.Logger) *Directory {
	d := &Directory{
		store: store,
		logg:  logg,
		now:   time.Now,
	}
	d.accounts = d.loadAccounts(ctx)
	d.session = d.loadSession(ctx)
	return d
}

func (d *Directory) loadAccounts(ctx context.Context) []Account {
	raw, err := d.store.Get(ctx, AccountsKey)
	if err != nil {
		return defaultAccounts()
	}
	var parsed []Account
	if jsonErr := json.Unmarshal([]byte(raw), &parsed); jsonErr != nil || parsed == nil {
		return defaultAccounts()
	}
	return parsed
}

func (d *Directory) loadSession(ctx context.Context) *Session {
	raw, err := d.store.Get(ctx, SessionKey)
	if err != nil {
		return nil
	}
	var parsed Session
	if jsonErr := json.Unmarshal([]byte(raw), &parsed); jsonErr != nil {
		return nil
	}
	return &parsed
}

// Accounts returns a copy of the credential list.
func (d *Directory) Accounts() []Account {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Account, len(d.accounts))
	copy(out, d.accounts)
	return out
}

// AccountForRole returns the credential pair for the given role.
func (d *Directory) AccountForRole(role enums.Role) (Account, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, account := range d.accounts {
		if account.Role == role {
			return account, true
		}
	}
	return Account{}, false
}

// CurrentSession returns a copy of the active session, or false when logged out.
func (d *Directory) CurrentSession() (Session, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.session == nil {
		return Session{}, false
	}
	return *d.session, true
}

// Login matches the credentials against the account list and records the
// session. Unknown credentials yield a generic unauthorized error.
func (d *Directory) Login(ctx context.Context, username, password string) (Session, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var match *Account
	for i := range d.accounts {
		if d.accounts[i].Username == username && d.accounts[i].Password == password {
			match = &d.accounts[i]
			break
		}
	}
	if match == nil {
		return Session{}, errors.New(errors.CodeUnauthorized, "invalid credentials")
	}

	next := Session{
		Username:   match.Username,
		Role:       match.Role,
		LoggedInAt: d.now().UnixMilli(),
	}
	d.session = &next
	d.persistSession(ctx)
	return next, nil
}

// Logout clears the active session.
func (d *Directory) Logout(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.session = nil
	if err := d.store.Remove(ctx, SessionKey); err != nil {
		d.logg.Warn(ctx, "removing session failed")
	}
}

// UpdateAccount patches the account with the given role. The role itself is
// never changed, and a live session for that role is updated in place.
func (d *Directory) UpdateAccount(ctx context.Context, role enums.Role, update AccountUpdate) (Account, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var updated *Account
	for i := range d.accounts {
		if d.accounts[i].Role != role {
			continue
		}
		if update.Username != "" {
			d.accounts[i].Username = update.Username
		}
		if update.Password != "" {
			d.accounts[i].Password = update.Password
		}
		updated = &d.accounts[i]
		break
	}
	if updated == nil {
		return Account{}, false
	}

	d.persistAccounts(ctx)

	if d.session != nil && d.session.Role == role {
		if update.Username != "" {
			d.session.Username = update.Username
		}
		d.persistSession(ctx)
	}

	return *updated, true
}

func (d *Directory) persistAccounts(ctx context.Context) {
	encoded, err := json.Marshal(d.accounts)
	if err != nil {
		return
	}
	if err := d.store.Set(ctx, AccountsKey, string(encoded)); err != nil {
		d.logg.Warn(ctx, "persisting accounts failed")
	}
}

func (d *Directory) persistSession(ctx context.Context) {
	if d.session == nil {
		return
	}
	encoded, err := json.Marshal(d.session)
	if err != nil {
		return
	}
	if err := d.store.Set(ctx, SessionKey, string(encoded)); err != nil {
		d.logg.Warn(ctx, "persisting session failed")
	}
}
