package sheetcore

import "dispatch-backend/internal/models"

// Actor: geçiş ve mutasyon çağrılarına açıkça geçirilen kimlik bilgisi.
// Core hiçbir global oturum durumuna bakmaz; kim olduğu her çağrıda söylenir.
type Actor struct {
	Username string
	FullName string
	Role     models.UserRole
}

// isVerifier: onay/ret yetkisi olan roller
func (a Actor) isVerifier() bool {
	switch a.Role {
	case models.RoleShiftLead, models.RoleAdmin, models.RoleSuperAdmin:
		return true
	}
	return false
}

func roleAllowed(role models.UserRole, allowed []models.UserRole) bool {
	// SUPER_ADMIN her geçişte ADMIN ile aynı yetkilere sahip
	for _, r := range allowed {
		if r == role {
			return true
		}
		if r == models.RoleAdmin && role == models.RoleSuperAdmin {
			return true
		}
	}
	return false
}
