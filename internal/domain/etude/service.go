package etude

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Complexity-ML/cosmetest-back-sub001/internal/platform/apperr"
)

// Invalidator is notified when a mutation may change cached calendar
// payloads. The calendar period cache satisfies it.
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

func (s *Service) validate(e *Etude) error {
	if e.Ref == "" {
		return fmt.Errorf("%w: ref is required", apperr.ErrInvalidInput)
	}
	if e.Titre == "" {
		return fmt.Errorf("%w: titre is required", apperr.ErrInvalidInput)
	}
	if e.DateDebut != nil && e.DateFin != nil && e.DateFin.Before(*e.DateDebut) {
		return fmt.Errorf("%w: date_fin precedes date_debut", apperr.ErrInvalidInput)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, e *Etude) error {
	if err := s.validate(e); err != nil {
		return err
	}
	if _, err := s.repo.GetByRef(ctx, e.Ref); err == nil {
		return fmt.Errorf("%w: ref %q already used", apperr.ErrConflict, e.Ref)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return err
	}
	s.inval.InvalidateAll()
	return nil
}

func (s *Service) Get(ctx context.Context, id int) (*Etude, error) {
	e, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: etude %d", apperr.ErrNotFound, id)
	}
	return e, err
}

func (s *Service) GetByRef(ctx context.Context, ref string) (*Etude, error) {
	e, err := s.repo.GetByRef(ctx, ref)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: etude ref %q", apperr.ErrNotFound, ref)
	}
	return e, err
}

func (s *Service) GetByIDs(ctx context.Context, ids []int) ([]*Etude, error) {
	return s.repo.GetByIDs(ctx, ids)
}

func (s *Service) Update(ctx context.Context, e *Etude) error {
	if err := s.validate(e); err != nil {
		return err
	}
	if prev, err := s.repo.GetByRef(ctx, e.Ref); err == nil {
		if prev.ID != e.ID {
			return fmt.Errorf("%w: ref %q already used", apperr.ErrConflict, e.Ref)
		}
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	if _, err := s.Get(ctx, e.ID); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, e); err != nil {
		return err
	}
	s.inval.InvalidateAll()
	return nil
}

func (s *Service) Delete(ctx context.Context, id int) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.inval.InvalidateAll()
	return nil
}

func (s *Service) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Etude, int, error) {
	return s.repo.Search(ctx, params, limit, offset)
}

func (s *Service) FindOverlapping(ctx context.Context, start, end time.Time) ([]*Etude, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end precedes start", apperr.ErrInvalidInput)
	}
	return s.repo.FindOverlapping(ctx, start, end)
}
