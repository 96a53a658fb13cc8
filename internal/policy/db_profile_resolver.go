package policy

import (
	"context"
	"errors"

	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/gate"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile names reported by resolved profiles.
const (
	ProfileAdmin = "admin"
	ProfileUser  = "user"
)

// DBProfileResolver builds gate profiles from user_roles and profiles.
// It implements gate.ProfileResolver for uuid user IDs.
type DBProfileResolver struct {
	DB *gorm.DB
}

// NewDBProfileResolver creates a new database-backed profile resolver.
func NewDBProfileResolver(db *gorm.DB) *DBProfileResolver {
	return &DBProfileResolver{DB: db}
}

// Resolve returns an approved "*:*" profile for admins and a profile holding
// one section permission per menu key otherwise. Users with neither roles
// nor a profile row resolve to nil.
func (r *DBProfileResolver) Resolve(ctx context.Context, userID uuid.UUID) (gate.Profile, error) {
	db := r.DB.WithContext(ctx)
	var roles []string
	if err := db.Model(&models.UserRole{}).Where("user_id = ?", userID).Pluck("role", &roles).Error; err != nil {
		return nil, err
	}
	for _, role := range roles {
		if role == models.RoleAdmin {
			return gate.NewStaticProfile(ProfileAdmin, true, gate.PermissionSuperAdmin), nil
		}
	}

	var p models.Profile
	err := db.Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if len(roles) == 0 {
			return nil, nil
		}
		return gate.NewStaticProfile(ProfileUser, false), nil
	}
	if err != nil {
		return nil, err
	}
	keys := p.MenuKeys()
	perms := make([]gate.Permission, 0, len(keys))
	for _, k := range keys {
		perms = append(perms, gate.SectionPermission(k))
	}
	return gate.NewStaticProfile(ProfileUser, p.ApprovalStatus == models.ApprovalApproved, perms...), nil
}
