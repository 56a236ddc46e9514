package auth

import (
	"github.com/google/uuid"

	"healthportal/internal/model"
)

// Principal is the verified identity behind a request. It is produced by
// token verification and handed explicitly to every service call.
type Principal struct {
	UserID uuid.UUID  `json:"userId"`
	Email  string     `json:"email"`
	Role   model.Role `json:"role"`
}

// Is reports whether the principal holds role r.
func (p Principal) Is(r model.Role) bool {
	return p.Role == r
}
