package postgres

import (
	"errors"
	"fmt"

	"eventconnect/internal/domain"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// mapUniqueViolation turns a pq unique violation into domain.ErrUniqueViolation naming the constraint.
func mapUniqueViolation(err error) error {
	var perr *pq.Error
	if errors.As(err, &perr) && perr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", domain.ErrUniqueViolation, perr.Constraint)
	}
	return err
}
