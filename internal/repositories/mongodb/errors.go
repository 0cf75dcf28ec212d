package mongodb

import (
	"errors"
	"fmt"

	"shelterfund/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	codeIndexNotFound         = 27
	codeNoQueryExecutionPlans = 291
)

// wrapError maps driver errors onto the store-level sentinels and adds the
// operation description.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%s: %w", op, interfaces.ErrNotFound)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %w", op, interfaces.ErrDuplicate)
	case isMissingIndex(err):
		return fmt.Errorf("%s: %w: %v", op, interfaces.ErrMissingIndex, err)
	}

	return fmt.Errorf("failed to %s: %w", op, err)
}

func isMissingIndex(err error) bool {
	var serverErr mongo.ServerError
	if errors.As(err, &serverErr) {
		return serverErr.HasErrorCode(codeIndexNotFound) || serverErr.HasErrorCode(codeNoQueryExecutionPlans)
	}
	return false
}
