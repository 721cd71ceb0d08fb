package authorize

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Alijeyrad/clinica_backend/pkg/reqctx"
)

var ErrNoSubjectInContext = errors.New("no subject found in context")

// SubjectFromContext returns the authenticated user as a Casbin subject.
func SubjectFromContext(ctx context.Context) (GroupSubject, error) {
	userID, ok := reqctx.UserIDFromContext(ctx)
	if !ok || userID == uuid.Nil {
		return "", ErrNoSubjectInContext
	}
	return GroupSubject(userID.String()), nil
}
