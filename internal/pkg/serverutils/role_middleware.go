package serverutils

import (
	"aia-campus-be/pkg/policy"

	"github.com/gofiber/fiber/v2"
)

const (
	HeaderUserRole = "X-User-Role"

	LocalsRole   = "role"
	LocalsUserId = "user_id"
)

// RoleMiddleware reads the caller's role from a request header. There is no
// real authentication in this system, the role doubles as a stable pseudo
// identity for sessions and progress.
func RoleMiddleware(ctx *fiber.Ctx) error {
	role := policy.Role(ctx.Get(HeaderUserRole, string(policy.RoleStudent)))
	if !policy.ValidRole(role) {
		return ctx.Status(fiber.StatusBadRequest).
			JSON(ErrorResponse(fiber.StatusBadRequest, "unknown role"))
	}

	ctx.Locals(LocalsRole, role)
	ctx.Locals(LocalsUserId, string(role))
	return ctx.Next()
}

// RequireCapability gates a route on the policy table.
func RequireCapability(action policy.Action, item policy.ItemType) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		role, _ := ctx.Locals(LocalsRole).(policy.Role)
		if !policy.Can(role, action, item) {
			return ctx.Status(fiber.StatusForbidden).
				JSON(ErrorResponse(fiber.StatusForbidden, "role lacks permission for this action"))
		}
		return ctx.Next()
	}
}
