package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	apperrors "healthportal/internal/errors"
	"healthportal/internal/model"
	"healthportal/internal/repository"
)

const dateLayout = "2006-01-02"

func validDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

func today(now time.Time) string {
	return now.Format(dateLayout)
}

func uuidPtr(id uuid.UUID) *uuid.UUID {
	return &id
}

// expectRole checks that id names an existing user with the given role.
func expectRole(ctx context.Context, users repository.UserRepository, id uuid.UUID, role model.Role, field string) error {
	u, err := users.FindByID(ctx, id)
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.NewValidationError("%s does not reference a known %s", field, role)
	}
	if err != nil {
		return err
	}
	if u.Role != role {
		return apperrors.NewValidationError("%s does not reference a known %s", field, role)
	}
	return nil
}
