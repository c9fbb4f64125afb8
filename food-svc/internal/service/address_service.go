package service

import (
	"context"
	"errors"
	"fmt"

	"foodhub/food-svc/internal/domain"
	"foodhub/logger"
)

type AddressService struct {
	repo     AddressRepository
	tx       TxManager
	fence    Geofence
	geocoder Geocoder
	log      *logger.Logger
}

func NewAddressService(repo AddressRepository, tx TxManager, fence Geofence, geocoder Geocoder, log *logger.Logger) *AddressService {
	return &AddressService{repo: repo, tx: tx, fence: fence, geocoder: geocoder, log: log}
}

func (s *AddressService) List(ctx context.Context, userID int64) ([]domain.Address, error) {
	return s.repo.List(ctx, userID)
}

// Create makes the first address of a user the default one. Two first
// addresses created at once race on the default index; the loser is counted
// again and stored as a regular address.
func (s *AddressService) Create(ctx context.Context, userID int64, a *domain.Address) error {
	if err := a.Validate(); err != nil {
		return err
	}
	a.UserID = userID
	wantDefault := a.IsDefault

	err := s.create(ctx, a, wantDefault)
	if errors.Is(err, domain.ErrDefaultAddressTaken) && !wantDefault {
		s.log.Ctx(ctx).Action("create address").Debug("default taken concurrently, retrying", "user_id", userID)
		err = s.create(ctx, a, wantDefault)
	}
	return err
}

func (s *AddressService) create(ctx context.Context, a *domain.Address, wantDefault bool) error {
	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		n, err := s.repo.Count(ctx, a.UserID)
		if err != nil {
			return fmt.Errorf("count addresses: %w", err)
		}
		a.IsDefault = wantDefault || n == 0
		if wantDefault && n > 0 {
			if err := s.repo.ClearDefault(ctx, a.UserID); err != nil {
				return fmt.Errorf("clear default: %w", err)
			}
		}
		return s.repo.Create(ctx, a)
	})
}

// Update keeps the default flag unless the update sets it; a default can only
// move by choosing another address.
func (s *AddressService) Update(ctx context.Context, userID int64, a *domain.Address) error {
	if err := a.Validate(); err != nil {
		return err
	}
	a.UserID = userID
	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.Get(ctx, userID, a.ID)
		if err != nil {
			return err
		}
		if existing.IsDefault {
			a.IsDefault = true
		} else if a.IsDefault {
			if err := s.repo.ClearDefault(ctx, userID); err != nil {
				return fmt.Errorf("clear default: %w", err)
			}
		}
		a.CreatedAt = existing.CreatedAt
		return s.repo.Update(ctx, a)
	})
}

func (s *AddressService) Delete(ctx context.Context, userID, id int64) error {
	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.Get(ctx, userID, id)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, userID, id); err != nil {
			return fmt.Errorf("delete address: %w", err)
		}
		if existing.IsDefault {
			if err := s.repo.PromoteLatest(ctx, userID); err != nil {
				return fmt.Errorf("promote default: %w", err)
			}
		}
		return nil
	})
}

func (s *AddressService) SetDefault(ctx context.Context, userID, id int64) error {
	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.Get(ctx, userID, id); err != nil {
			return err
		}
		if err := s.repo.ClearDefault(ctx, userID); err != nil {
			return fmt.Errorf("clear default: %w", err)
		}
		return s.repo.SetDefault(ctx, userID, id)
	})
}

func (s *AddressService) ValidateDistance(lat, lng float64) (domain.DistanceCheck, error) {
	return s.fence.Check(lat, lng)
}

func (s *AddressService) Autocomplete(ctx context.Context, query, lang string) ([]domain.PlaceSuggestion, error) {
	if len([]rune(query)) < 3 {
		return nil, domain.NewValidationError("q", "must be at least 3 characters")
	}
	res, err := s.geocoder.Autocomplete(ctx, query, domain.NormalizeLanguage(lang))
	if err != nil {
		s.log.Ctx(ctx).Action("address autocomplete").Error("geocoder failed", err)
		return nil, fmt.Errorf("autocomplete: %w", err)
	}
	return res, nil
}
