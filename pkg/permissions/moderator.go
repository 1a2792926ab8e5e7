package permissions

import (
	"context"

	"github.com/inkwell/inkwell/pkg/models"
)

// moderatorOps is the curation strategy: moderators edit any article or
// comment but delete only their own, and their profile operations are
// restricted to themselves.
type moderatorOps struct {
	ops
}

func newModeratorOps(base ops) *moderatorOps {
	base.policy = policy{editAny: true}
	return &moderatorOps{ops: base}
}

func (m *moderatorOps) EditUserProfile(ctx context.Context, profile models.ProfileUpdate, privileged bool) (models.ProfileResult, error) {
	return m.editOwnProfile(ctx, profile, privileged)
}

func (m *moderatorOps) DeleteUserProfile(ctx context.Context, userID models.UserID) error {
	return m.deleteOwnProfile(ctx, userID)
}

var _ Ops = (*moderatorOps)(nil)
