package auth

import (
	"fmt"
	"strings"

	"dispatch-backend/internal/config"
	"dispatch-backend/internal/models"
	"dispatch-backend/internal/sheetcore"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CtxUserIDKey   = "user_id"
	CtxUsernameKey = "username"
	CtxFullNameKey = "full_name"
	CtxUserRoleKey = "user_role"
)

func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization header eksik")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization formatı 'Bearer <token>' olmalı")
		}

		tokenStr := parts[1]

		token, err := jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("geçersiz imzalama yöntemi")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Geçersiz veya süresi dolmuş token")
		}

		claims, ok := token.Claims.(*JWTCustomClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Token çözümlenemedi")
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxUsernameKey, claims.Username)
		c.Locals(CtxFullNameKey, claims.FullName)
		c.Locals(CtxUserRoleKey, claims.Role)

		return c.Next()
	}
}

func RequireRole(allowedRoles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roleVal := c.Locals(CtxUserRoleKey)
		role, ok := roleVal.(models.UserRole)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Rol bilgisi alınamadı")
		}

		for _, r := range allowedRoles {
			if r == role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "Bu işlem için yetkiniz yok")
	}
}

// ActorFromCtx: token claim'lerinden core'a geçirilecek açık kimliği üretir.
// Core global oturum okumaz; kimlik her çağrıya parametre olarak gider.
func ActorFromCtx(c *fiber.Ctx) (sheetcore.Actor, error) {
	role, ok := c.Locals(CtxUserRoleKey).(models.UserRole)
	if !ok {
		return sheetcore.Actor{}, fiber.NewError(fiber.StatusForbidden, "Rol bilgisi alınamadı")
	}
	username, _ := c.Locals(CtxUsernameKey).(string)
	fullName, _ := c.Locals(CtxFullNameKey).(string)

	return sheetcore.Actor{
		Username: username,
		FullName: fullName,
		Role:     role,
	}, nil
}

// UserIDFromCtx: audit kayıtları için
func UserIDFromCtx(c *fiber.Ctx) uint {
	if id, ok := c.Locals(CtxUserIDKey).(uint); ok {
		return id
	}
	return 0
}
