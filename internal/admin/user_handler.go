package admin

import (
	"strconv"
	"strings"

	"dispatch-backend/internal/audit"
	"dispatch-backend/internal/auth"
	"dispatch-backend/internal/database"
	"dispatch-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type CreateUserRequest struct {
	Username string          `json:"username"`
	FullName string          `json:"full_name"`
	Password string          `json:"password"`
	Role     models.UserRole `json:"role"`
}

type UserResponse struct {
	ID       uint            `json:"id"`
	Username string          `json:"username"`
	FullName string          `json:"full_name"`
	Role     models.UserRole `json:"role"`
}

// POST /api/admin/users
func CreateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Username = strings.TrimSpace(strings.ToLower(body.Username))

		if body.Username == "" || body.Password == "" || body.FullName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Kullanıcı adı, tam ad ve şifre zorunlu")
		}
		if !models.ValidRole(body.Role) {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz rol")
		}
		if body.Role == models.RoleSuperAdmin {
			return fiber.NewError(fiber.StatusForbidden, "Super admin bu endpoint'ten oluşturulamaz")
		}

		var count int64
		database.DB.Model(&models.User{}).Where("username = ?", body.Username).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Bu kullanıcı adı zaten kullanımda")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şifre hashlenemedi")
		}

		user := models.User{
			Username:     body.Username,
			FullName:     body.FullName,
			PasswordHash: string(hash),
			Role:         body.Role,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı oluşturulamadı")
		}

		actor, actorErr := auth.ActorFromCtx(c)
		if actorErr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      auth.UserIDFromCtx(c),
				UserName:    actor.FullName,
				EntityType:  "user",
				EntityID:    userEntityID(&user),
				Action:      models.AuditActionCreate,
				Description: "Kullanıcı oluşturuldu: " + user.Username + " (" + string(user.Role) + ")",
			})
		}

		return c.Status(fiber.StatusCreated).JSON(UserResponse{
			ID:       user.ID,
			Username: user.Username,
			FullName: user.FullName,
			Role:     user.Role,
		})
	}
}

// userEntityID: audit kaydı için kullanıcı kimliği. Kolon 36 karakterle
// sınırlı olduğundan kullanıcı adı değil, sayısal ID yazılır.
func userEntityID(u *models.User) string {
	return strconv.FormatUint(uint64(u.ID), 10)
}

// GET /api/admin/users
func ListUsersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Model(&models.User{}).Order("username ASC")
		if r := c.Query("role"); r != "" {
			query = query.Where("role = ?", r)
		}

		var users []models.User
		if err := query.Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcılar listelenemedi")
		}

		resp := make([]UserResponse, 0, len(users))
		for _, u := range users {
			resp = append(resp, UserResponse{
				ID:       u.ID,
				Username: u.Username,
				FullName: u.FullName,
				Role:     u.Role,
			})
		}
		return c.JSON(resp)
	}
}
