package volontaire

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Complexity-ML/cosmetest-back-sub001/internal/platform/apperr"
)

// Invalidator is notified after writes that change the volunteer
// projections embedded in cached calendar payloads.
type Invalidator interface {
	InvalidateAll()
}

type noopInvalidator struct{}

func (noopInvalidator) InvalidateAll() {}

type Service struct {
	repo  Repository
	inval Invalidator
}

func NewService(repo Repository, inval Invalidator) *Service {
	if inval == nil {
		inval = noopInvalidator{}
	}
	return &Service{repo: repo, inval: inval}
}

func (s *Service) Create(ctx context.Context, v *Volontaire) error {
	if v.Nom == "" {
		return fmt.Errorf("%w: nom is required", apperr.ErrInvalidInput)
	}
	if v.Prenom == "" {
		return fmt.Errorf("%w: prenom is required", apperr.ErrInvalidInput)
	}
	return s.repo.Create(ctx, v)
}

func (s *Service) Get(ctx context.Context, id int) (*Volontaire, error) {
	v, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: volontaire %d", apperr.ErrNotFound, id)
	}
	return v, err
}

// GetByIDs resolves a batch of volunteer ids in a single query. Ids that do
// not exist are silently absent from the result.
func (s *Service) GetByIDs(ctx context.Context, ids []int) ([]*Volontaire, error) {
	return s.repo.GetByIDs(ctx, ids)
}

func (s *Service) Update(ctx context.Context, v *Volontaire) error {
	if v.Nom == "" {
		return fmt.Errorf("%w: nom is required", apperr.ErrInvalidInput)
	}
	if v.Prenom == "" {
		return fmt.Errorf("%w: prenom is required", apperr.ErrInvalidInput)
	}
	if _, err := s.Get(ctx, v.ID); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, v); err != nil {
		return err
	}
	s.inval.InvalidateAll()
	return nil
}

// Archive soft-deletes the volunteer. Appointments referencing it are kept.
func (s *Service) Archive(ctx context.Context, id int) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Archive(ctx, id)
}

func (s *Service) Restore(ctx context.Context, id int) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Restore(ctx, id)
}

func (s *Service) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Volontaire, int, error) {
	return s.repo.Search(ctx, params, limit, offset)
}
