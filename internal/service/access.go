package service

import (
	"context"
	"errors"

	"adalchemy-bot/internal/entity"
	"adalchemy-bot/internal/repository/contract"
)

// resolveOnboarded returns the caller's business mapping, enforcing the
// onboarded gate every content command sits behind.
func resolveOnboarded(ctx context.Context, mappings contract.MappingRepository, ownerID string) (*entity.BusinessMapping, error) {
	mapping, err := mappings.FindByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, contract.ErrNotFound) {
			return nil, ErrNoBusiness
		}
		return nil, err
	}
	if !mapping.Onboarded {
		return nil, ErrNotOnboarded
	}
	if mapping.BusinessName == "" {
		return nil, ErrNoBusiness
	}
	return mapping, nil
}
