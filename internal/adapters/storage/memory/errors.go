package memory

import (
	"fmt"
	"strings"

	"vet-backoffice/internal/domain"
)

const defaultLimit = 50

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s %s", domain.ErrNotFound, kind, id)
}

func requireID(kind, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: %s id required", domain.ErrValidation, kind)
	}
	return nil
}

// limitOr: 0 usa el default, negativo es sin límite (-1).
func limitOr(n int) int {
	switch {
	case n < 0:
		return -1
	case n == 0:
		return defaultLimit
	}
	return n
}
