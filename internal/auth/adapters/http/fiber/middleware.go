package fiber

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// UserIDKey is the locals key under which RequireAuth stores the
// authenticated user's id.
const UserIDKey = "userID"

type AccessVerifier interface {
	VerifyAccess(token string) (string, error)
}

// RequireAuth rejects requests without a valid bearer access token and
// exposes the token subject to downstream handlers via c.Locals.
func RequireAuth(verifier AccessVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return c.Status(http.StatusUnauthorized).JSON(ErrorResponse{
				Message: "Missing or malformed authorization header",
			})
		}

		userID, err := verifier.VerifyAccess(token)
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(ErrorResponse{
				Message: "Invalid or expired token",
			})
		}

		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}
