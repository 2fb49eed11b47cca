package utils

import (
	"github.com/google/uuid"
)

// UUIDPtr returns nil for uuid.Nil
func UUIDPtr(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
