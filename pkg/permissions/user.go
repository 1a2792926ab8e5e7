package permissions

import (
	"context"

	"github.com/inkwell/inkwell/pkg/models"
)

// userOps is the default strategy: reads are unrestricted, every write is
// bound to the caller's own content and profile.
type userOps struct {
	ops
}

func newUserOps(base ops) *userOps {
	base.policy = policy{}
	return &userOps{ops: base}
}

func (u *userOps) EditUserProfile(ctx context.Context, profile models.ProfileUpdate, privileged bool) (models.ProfileResult, error) {
	return u.editOwnProfile(ctx, profile, privileged)
}

func (u *userOps) DeleteUserProfile(ctx context.Context, userID models.UserID) error {
	return u.deleteOwnProfile(ctx, userID)
}

var _ Ops = (*userOps)(nil)
