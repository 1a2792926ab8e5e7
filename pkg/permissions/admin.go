package permissions

import (
	"context"

	"github.com/inkwell/inkwell/pkg/models"
)

// administratorOps is the full-access strategy. Administrators act on any
// article, comment, or profile regardless of ownership, and are the only
// role allowed the privileged profile edit that skips current-password
// verification and reassigns roles.
type administratorOps struct {
	ops
}

func newAdministratorOps(base ops) *administratorOps {
	base.policy = policy{editAny: true, deleteAny: true, listDeletable: true}
	return &administratorOps{ops: base}
}

func (a *administratorOps) EditUserProfile(ctx context.Context, profile models.ProfileUpdate, privileged bool) (models.ProfileResult, error) {
	if !privileged {
		profile.Role = ""
	}
	return a.applyProfile(ctx, profile, privileged)
}

func (a *administratorOps) DeleteUserProfile(ctx context.Context, userID models.UserID) error {
	return a.deleteProfile(ctx, userID)
}

var _ Ops = (*administratorOps)(nil)
