package queries

import (
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

func toID(raw uuid.UUID) (kernel.UUID, error) {
	return kernel.UUIDFromBytes(raw[:])
}

func toNullID(raw uuid.NullUUID) (*kernel.UUID, error) {
	if !raw.Valid {
		return nil, nil
	}
	id, err := toID(raw.UUID)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
