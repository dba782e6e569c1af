package models

import "time"

type UserRole string

const (
	RoleStagingSupervisor UserRole = "STAGING_SUPERVISOR"
	RoleLoadingSupervisor UserRole = "LOADING_SUPERVISOR"
	RoleShiftLead         UserRole = "SHIFT_LEAD"
	RoleAdmin             UserRole = "ADMIN"
	RoleSuperAdmin        UserRole = "SUPER_ADMIN"
)

// ValidRole: admin panelinden kullanıcı oluştururken rol kontrolü için
func ValidRole(r UserRole) bool {
	switch r {
	case RoleStagingSupervisor, RoleLoadingSupervisor, RoleShiftLead, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

type User struct {
	ID           uint     `gorm:"primaryKey"`
	Username     string   `gorm:"size:100;uniqueIndex;not null"`
	FullName     string   `gorm:"size:100;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:30;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
