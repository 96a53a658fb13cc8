package gate

import "context"

// ProfileGate authorizes users against their resolved profile: the user must
// be known, approved and hold the section permission.
type ProfileGate[U comparable] struct {
	resolver ProfileResolver[U]
}

// NewProfileGate creates a gate with the given profile resolver.
func NewProfileGate[U comparable](resolver ProfileResolver[U]) *ProfileGate[U] {
	return &ProfileGate[U]{resolver: resolver}
}

// Authorize checks, in order: the user is non-zero (ErrUnauthorized), the
// profile exists and is approved (ErrNotApproved), and it grants
// section:action (ErrForbidden). Resolver failures are returned as-is.
func (g *ProfileGate[U]) Authorize(ctx context.Context, user U, action Action, section string) error {
	var zero U
	if user == zero {
		return ErrUnauthorized
	}
	profile, err := g.resolver.Resolve(ctx, user)
	if err != nil {
		return err
	}
	if profile == nil || !profile.Approved() {
		return ErrNotApproved
	}
	if !profile.HasPermission(NewPermission(section, action)) {
		return ErrForbidden
	}
	return nil
}

// Can is a convenience wrapper returning bool instead of error.
func (g *ProfileGate[U]) Can(ctx context.Context, user U, action Action, section string) bool {
	return g.Authorize(ctx, user, action, section) == nil
}

// IsAdmin reports whether the user's profile holds the superadmin permission.
func (g *ProfileGate[U]) IsAdmin(ctx context.Context, user U) bool {
	var zero U
	if user == zero {
		return false
	}
	profile, err := g.resolver.Resolve(ctx, user)
	if err != nil || profile == nil {
		return false
	}
	return profile.HasPermission(PermissionSuperAdmin)
}
