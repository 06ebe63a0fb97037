package service

import (
	"errors"
	"fmt"

	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/domain/entity"
)

// wrap prefixes transport and decode failures with the operation. Server
// errors pass through untouched so callers can show "Error <status>: <body>"
// verbatim.
func wrap(op string, err error) error {
	var serverErr *entity.ServerError
	if errors.As(err, &serverErr) {
		return serverErr
	}
	return fmt.Errorf("api: %s: %w", op, err)
}
