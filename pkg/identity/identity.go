// Package identity manages user accounts, role membership, and password
// credentials.
//
// The permission core consumes the [Provider] contract and treats its failures
// opaquely, distinguishing only not-found from everything else. [Manager] is
// the store-backed implementation: it hashes passwords with bcrypt and keeps
// role assignments in the store's role tables. Registration assigns the role
// atomically alongside user creation inside one transaction, so a failed role
// assignment can never leave a role-less account behind.
package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkwell/inkwell/pkg/apperr"
	"github.com/inkwell/inkwell/pkg/models"
	"github.com/inkwell/inkwell/pkg/store"
)

// Provider is the identity-management collaborator contract. All methods may
// fail with a provider-specific error the permission core treats opaquely.
type Provider interface {
	FindByID(ctx context.Context, id models.UserID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// Create persists the user with the given password. Role assignment is
	// the caller's concern; use Register for the atomic pair.
	Create(ctx context.Context, user *models.User, password string) error
	// Update persists profile field changes. Credentials go through
	// ChangePassword or SetPassword, never through Update.
	Update(ctx context.Context, user *models.User) error
	CheckPassword(ctx context.Context, user *models.User, password string) (bool, error)
	ChangePassword(ctx context.Context, user *models.User, current, next string) error
	// SetPassword replaces the password without verifying the current one.
	// Reserved for privileged administrative edits.
	SetPassword(ctx context.Context, user *models.User, next string) error
	Roles(ctx context.Context, id models.UserID) ([]string, error)
	AddToRole(ctx context.Context, id models.UserID, role string) error
	RemoveFromRoles(ctx context.Context, id models.UserID) error
	Delete(ctx context.Context, id models.UserID) error
	// UpdateSecurityStamp invalidates every active session of the user by
	// rotating the stamp baked into cached claims.
	UpdateSecurityStamp(ctx context.Context, id models.UserID) error
	// Bind returns a Provider whose store operations run against s, joining
	// any transaction s is bound to. Used by multi-step units that must
	// mutate profile, password, and roles atomically.
	Bind(s store.Store) Provider
}

// MinPasswordLength is enforced on every password write.
const MinPasswordLength = 6

// Manager implements Provider on top of a Store.
type Manager struct {
	store store.Store
}

// NewManager returns a store-backed provider.
func NewManager(s store.Store) *Manager {
	return &Manager{store: s}
}

// Bind returns a Manager bound to the given store.
func (m *Manager) Bind(s store.Store) Provider {
	return &Manager{store: s}
}

func (m *Manager) FindByID(ctx context.Context, id models.UserID) (*models.User, error) {
	user, err := m.store.GetUser(ctx, id)
	if err != nil {
		return nil, apperr.Unavailable("user lookup failed", err)
	}
	if user == nil {
		return nil, apperr.NotFoundf("user not found: %s", id)
	}
	return user, nil
}

func (m *Manager) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := m.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Unavailable("user lookup failed", err)
	}
	if user == nil {
		return nil, apperr.NotFoundf("user not found: %s", email)
	}
	return user, nil
}

func (m *Manager) Create(ctx context.Context, user *models.User, password string) error {
	if len(password) < MinPasswordLength {
		return apperr.Validation("password is too short")
	}
	existing, err := m.store.GetUserByEmail(ctx, user.Email)
	if err != nil {
		return apperr.Unavailable("user lookup failed", err)
	}
	if existing != nil {
		return apperr.Validation("email is already registered")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.SecurityStamp = uuid.NewString()
	if err := m.store.CreateUser(ctx, user); err != nil {
		return apperr.Unavailable("user creation failed", err)
	}
	return nil
}

// Register creates the user and assigns the role in one atomic unit.
func (m *Manager) Register(ctx context.Context, user *models.User, password, role string) error {
	return m.store.Transact(ctx, func(tx store.Store) error {
		bound := m.Bind(tx).(*Manager)
		if err := bound.Create(ctx, user, password); err != nil {
			return err
		}
		return bound.AddToRole(ctx, user.ID, role)
	})
}

func (m *Manager) Update(ctx context.Context, user *models.User) error {
	if err := m.store.UpdateUser(ctx, user); err != nil {
		return apperr.Unavailable("user update failed", err)
	}
	return nil
}

func (m *Manager) CheckPassword(ctx context.Context, user *models.User, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}

func (m *Manager) ChangePassword(ctx context.Context, user *models.User, current, next string) error {
	ok, err := m.CheckPassword(ctx, user, current)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Validation("current password is incorrect")
	}
	return m.SetPassword(ctx, user, next)
}

func (m *Manager) SetPassword(ctx context.Context, user *models.User, next string) error {
	if len(next) < MinPasswordLength {
		return apperr.Validation("new password is too short")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.SecurityStamp = uuid.NewString()
	if err := m.store.UpdateUser(ctx, user); err != nil {
		return apperr.Unavailable("password update failed", err)
	}
	return nil
}

func (m *Manager) Roles(ctx context.Context, id models.UserID) ([]string, error) {
	roles, err := m.store.RolesOf(ctx, id)
	if err != nil {
		return nil, apperr.Unavailable("role lookup failed", err)
	}
	return roles, nil
}

func (m *Manager) AddToRole(ctx context.Context, id models.UserID, role string) error {
	if err := m.store.AddUserToRole(ctx, id, role); err != nil {
		return apperr.Unavailable("role assignment failed", err)
	}
	return nil
}

func (m *Manager) RemoveFromRoles(ctx context.Context, id models.UserID) error {
	if err := m.store.RemoveUserFromRoles(ctx, id); err != nil {
		return apperr.Unavailable("role removal failed", err)
	}
	return nil
}

func (m *Manager) Delete(ctx context.Context, id models.UserID) error {
	user, err := m.store.GetUser(ctx, id)
	if err != nil {
		return apperr.Unavailable("user lookup failed", err)
	}
	if user == nil {
		return apperr.NotFoundf("user not found: %s", id)
	}
	if err := m.store.DeleteUser(ctx, id); err != nil {
		return apperr.Unavailable("user deletion failed", err)
	}
	return nil
}

func (m *Manager) UpdateSecurityStamp(ctx context.Context, id models.UserID) error {
	user, err := m.store.GetUser(ctx, id)
	if err != nil {
		return apperr.Unavailable("user lookup failed", err)
	}
	if user == nil {
		return apperr.NotFoundf("user not found: %s", id)
	}
	user.SecurityStamp = uuid.NewString()
	if err := m.store.UpdateUser(ctx, user); err != nil {
		return apperr.Unavailable("security stamp update failed", err)
	}
	return nil
}

var _ Provider = (*Manager)(nil)
