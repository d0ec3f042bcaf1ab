package middleware

import (
	"github.com/gofiber/fiber/v2"
	authutils "leave-approval-backend/lib/utils/auth-utils"
)

func GetUserID(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if sub, exist := claims["sub"]; exist {
		return sub.(string)
	}
	return ""
}

// GetUserEmail почта аутентифицированного пользователя из клейма токена.
// Почта заявителя берется только отсюда, из тела запроса она не принимается.
func GetUserEmail(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if email, exist := claims["email"]; exist {
		if stringEmail, ok := email.(string); ok {
			return stringEmail
		}
	}
	return ""
}
