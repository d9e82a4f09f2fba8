package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Header is the header carrying the request identifier.
const Header = "X-Ray-ID"

// New assigns every request a unique identifier. An identifier supplied by
// the caller is kept; otherwise a fresh UUID is generated. The value is
// stored in locals for the logger and echoed in the response header.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(Header)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals("ray_id", rid)
		c.Set(Header, rid)
		return c.Next()
	}
}
