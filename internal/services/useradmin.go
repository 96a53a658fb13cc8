package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// User administration errors. All of them are caller errors (400).
var (
	ErrAdminExists          = errors.New("admin already exists")
	ErrInvalidTransition    = errors.New("invalid approval transition")
	ErrCannotRemoveOwnAdmin = errors.New("cannot remove own admin role")
	ErrCannotRejectAdmin    = errors.New("cannot reject an admin")
	ErrInvalidRole          = errors.New("invalid role")
	ErrInvalidMenuKey       = errors.New("invalid menu key")
	ErrMissingUserID        = errors.New("missing user id")
)

// UserSummary is one row of the user administration list.
type UserSummary struct {
	UserID         uuid.UUID             `json:"user_id"`
	Email          string                `json:"email"`
	FullName       string                `json:"full_name"`
	Roles          []string              `json:"roles"`
	IsAdmin        bool                  `json:"is_admin"`
	ApprovalStatus models.ApprovalStatus `json:"approval_status"`
	MenuAccess     []string              `json:"menu_access"`
	ApprovedAt     *time.Time            `json:"approved_at"`
	CreatedAt      time.Time             `json:"created_at"`
}

// MyRoles is the caller's own authorization state.
type MyRoles struct {
	UserID         uuid.UUID             `json:"user_id"`
	Email          string                `json:"email"`
	Roles          []string              `json:"roles"`
	IsAdmin        bool                  `json:"is_admin"`
	ApprovalStatus models.ApprovalStatus `json:"approval_status"`
	MenuAccess     []string              `json:"menu_access"`
}

// UserAdmin manages roles, approval and menu access. Admin checks always hit
// the database.
type UserAdmin struct {
	db       *gorm.DB
	onChange func(userID uuid.UUID)
	now      func() time.Time
}

// NewUserAdmin creates the service. onChange, when set, is called with the
// target user of every successful mutation.
func NewUserAdmin(db *gorm.DB, onChange func(userID uuid.UUID)) *UserAdmin {
	return &UserAdmin{db: db, onChange: onChange, now: time.Now}
}

func (s *UserAdmin) changed(uid uuid.UUID) {
	if s.onChange != nil {
		s.onChange(uid)
	}
}

// IsAdmin reports whether the user holds the admin role.
func (s *UserAdmin) IsAdmin(ctx context.Context, uid uuid.UUID) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.UserRole{}).
		Where("user_id = ? AND role = ?", uid, models.RoleAdmin).
		Count(&n).Error
	return n > 0, err
}

// Roles returns the user's roles in alphabetical order.
func (s *UserAdmin) Roles(ctx context.Context, uid uuid.UUID) ([]string, error) {
	roles := make([]string, 0)
	err := s.db.WithContext(ctx).Model(&models.UserRole{}).
		Where("user_id = ?", uid).
		Order("role ASC").
		Pluck("role", &roles).Error
	return roles, err
}

// Profile returns the stored profile or gorm.ErrRecordNotFound.
func (s *UserAdmin) Profile(ctx context.Context, uid uuid.UUID) (*models.Profile, error) {
	var p models.Profile
	if err := s.db.WithContext(ctx).Where("user_id = ?", uid).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// EnsureProfile creates the profile on first sight of a user and keeps the
// email in sync with the token.
func (s *UserAdmin) EnsureProfile(ctx context.Context, uid uuid.UUID, email string) (*models.Profile, error) {
	p := models.Profile{UserID: uid, Email: email, ApprovalStatus: models.ApprovalPending}
	p.SetMenuKeys(nil)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&p).Error
	if err != nil {
		return nil, err
	}
	stored, err := s.Profile(ctx, uid)
	if err != nil {
		return nil, err
	}
	if email != "" && stored.Email != email {
		if err := s.db.WithContext(ctx).Model(stored).Update("email", email).Error; err != nil {
			return nil, err
		}
		stored.Email = email
	}
	return stored, nil
}

// listedProfile returns the profile of a user ListUsers shows. Users that
// only hold roles get a pending profile on first use.
func (s *UserAdmin) listedProfile(ctx context.Context, uid uuid.UUID) (*models.Profile, error) {
	p, err := s.Profile(ctx, uid)
	if err == nil || !errors.Is(err, gorm.ErrRecordNotFound) {
		return p, err
	}
	roles, rerr := s.Roles(ctx, uid)
	if rerr != nil {
		return nil, rerr
	}
	if len(roles) == 0 {
		return nil, err
	}
	return s.EnsureProfile(ctx, uid, "")
}

// MyRoles registers the caller if needed and returns their state. Admins
// always see every menu and count as approved.
func (s *UserAdmin) MyRoles(ctx context.Context, uid uuid.UUID, email string) (*MyRoles, error) {
	p, err := s.EnsureProfile(ctx, uid, email)
	if err != nil {
		return nil, err
	}
	roles, err := s.Roles(ctx, uid)
	if err != nil {
		return nil, err
	}
	out := &MyRoles{
		UserID:         uid,
		Email:          p.Email,
		Roles:          roles,
		ApprovalStatus: p.ApprovalStatus,
		MenuAccess:     p.MenuKeys(),
	}
	if slices.Contains(roles, models.RoleAdmin) {
		out.IsAdmin = true
		out.ApprovalStatus = models.ApprovalApproved
		out.MenuAccess = slices.Clone(models.AllMenuKeys)
	}
	return out, nil
}

// ListUsers returns every known user: profiles plus users that only have roles.
func (s *UserAdmin) ListUsers(ctx context.Context) ([]UserSummary, error) {
	var profiles []models.Profile
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&profiles).Error; err != nil {
		return nil, err
	}
	var roles []models.UserRole
	if err := s.db.WithContext(ctx).Order("role ASC").Find(&roles).Error; err != nil {
		return nil, err
	}
	byUser := map[uuid.UUID][]string{}
	for _, r := range roles {
		byUser[r.UserID] = append(byUser[r.UserID], r.Role)
	}

	out := make([]UserSummary, 0, len(profiles))
	seen := map[uuid.UUID]bool{}
	for _, p := range profiles {
		seen[p.UserID] = true
		out = append(out, summarize(p, byUser[p.UserID]))
	}
	for _, r := range roles {
		if seen[r.UserID] {
			continue
		}
		seen[r.UserID] = true
		out = append(out, summarize(models.Profile{UserID: r.UserID, ApprovalStatus: models.ApprovalPending}, byUser[r.UserID]))
	}
	return out, nil
}

func summarize(p models.Profile, roles []string) UserSummary {
	if roles == nil {
		roles = []string{}
	}
	u := UserSummary{
		UserID:         p.UserID,
		Email:          p.Email,
		FullName:       p.FullName,
		Roles:          roles,
		ApprovalStatus: p.ApprovalStatus,
		MenuAccess:     p.MenuKeys(),
		ApprovedAt:     p.ApprovedAt,
		CreatedAt:      p.CreatedAt,
	}
	if slices.Contains(roles, models.RoleAdmin) {
		u.IsAdmin = true
		u.ApprovalStatus = models.ApprovalApproved
		u.MenuAccess = slices.Clone(models.AllMenuKeys)
	}
	return u
}

func normalizeRole(role string) (string, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" || len(role) > 50 {
		return "", ErrInvalidRole
	}
	return role, nil
}

func grantRole(ctx context.Context, tx *gorm.DB, uid uuid.UUID, role string) error {
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "role"}},
		DoNothing: true,
	}).Create(&models.UserRole{UserID: uid, Role: role}).Error
}

// markApproved upserts the profile as approved.
func (s *UserAdmin) markApproved(ctx context.Context, tx *gorm.DB, uid uuid.UUID, by *uuid.UUID) error {
	now := s.now()
	p := models.Profile{UserID: uid, ApprovalStatus: models.ApprovalApproved, ApprovedBy: by, ApprovedAt: &now}
	p.SetMenuKeys(nil)
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"approval_status", "approved_by", "approved_at", "updated_at"}),
	}).Create(&p).Error
}

// AssignRole grants one of models.KnownRoles to uid. Granting admin also
// approves the user.
func (s *UserAdmin) AssignRole(ctx context.Context, actor, uid uuid.UUID, role string) error {
	if uid == uuid.Nil {
		return ErrMissingUserID
	}
	role, err := normalizeRole(role)
	if err != nil {
		return err
	}
	if !slices.Contains(models.KnownRoles, role) {
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := grantRole(ctx, tx, uid, role); err != nil {
			return err
		}
		if role == models.RoleAdmin {
			return s.markApproved(ctx, tx, uid, &actor)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.changed(uid)
	return nil
}

// RemoveRole revokes role from uid. An admin cannot drop their own admin role.
func (s *UserAdmin) RemoveRole(ctx context.Context, actor, uid uuid.UUID, role string) error {
	if uid == uuid.Nil {
		return ErrMissingUserID
	}
	role, err := normalizeRole(role)
	if err != nil {
		return err
	}
	if role == models.RoleAdmin && actor == uid {
		return ErrCannotRemoveOwnAdmin
	}
	if err := s.db.WithContext(ctx).Where("user_id = ? AND role = ?", uid, role).Delete(&models.UserRole{}).Error; err != nil {
		return err
	}
	s.changed(uid)
	return nil
}

// SetupFirstAdmin makes the caller admin when no admin exists yet.
//
// The check and the grant are not atomic: two callers racing on an empty
// system can both become admin.
func (s *UserAdmin) SetupFirstAdmin(ctx context.Context, uid uuid.UUID, email string) error {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.UserRole{}).Where("role = ?", models.RoleAdmin).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrAdminExists
	}
	if _, err := s.EnsureProfile(ctx, uid, email); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := grantRole(ctx, tx, uid, models.RoleAdmin); err != nil {
			return err
		}
		return s.markApproved(ctx, tx, uid, &uid)
	})
	if err != nil {
		return err
	}
	s.changed(uid)
	return nil
}

// Approve moves uid to approved.
func (s *UserAdmin) Approve(ctx context.Context, actor, uid uuid.UUID) error {
	return s.setApproval(ctx, actor, uid, models.ApprovalApproved)
}

// Reject moves uid to rejected. Admins cannot be rejected.
func (s *UserAdmin) Reject(ctx context.Context, actor, uid uuid.UUID) error {
	return s.setApproval(ctx, actor, uid, models.ApprovalRejected)
}

func (s *UserAdmin) setApproval(ctx context.Context, actor, uid uuid.UUID, next models.ApprovalStatus) error {
	if uid == uuid.Nil {
		return ErrMissingUserID
	}
	targetAdmin, err := s.IsAdmin(ctx, uid)
	if err != nil {
		return err
	}
	if targetAdmin {
		if next == models.ApprovalRejected {
			return ErrCannotRejectAdmin
		}
		// admins count as approved already
		return nil
	}
	p, err := s.listedProfile(ctx, uid)
	if err != nil {
		return err
	}
	if p.ApprovalStatus == next {
		return nil
	}
	if !p.ApprovalStatus.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, p.ApprovalStatus, next)
	}
	updates := map[string]any{"approval_status": next}
	if next == models.ApprovalApproved {
		updates["approved_by"] = actor
		updates["approved_at"] = s.now()
	}
	if err := s.db.WithContext(ctx).Model(p).Updates(updates).Error; err != nil {
		return err
	}
	s.changed(uid)
	return nil
}

// UpdateMenuAccess replaces the user's menu keys. Every key must be known.
func (s *UserAdmin) UpdateMenuAccess(ctx context.Context, uid uuid.UUID, keys []string) error {
	if uid == uuid.Nil {
		return ErrMissingUserID
	}
	clean := make([]string, 0, len(keys))
	for _, k := range keys {
		if !models.IsMenuKey(k) {
			return fmt.Errorf("%w: %q", ErrInvalidMenuKey, k)
		}
		if !slices.Contains(clean, k) {
			clean = append(clean, k)
		}
	}
	p, err := s.listedProfile(ctx, uid)
	if err != nil {
		return err
	}
	p.SetMenuKeys(clean)
	if err := s.db.WithContext(ctx).Model(p).Update("menu_access", p.MenuAccess).Error; err != nil {
		return err
	}
	s.changed(uid)
	return nil
}
