package rdv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Complexity-ML/cosmetest-back-sub001/internal/platform/apperr"
)

// Invalidator is notified after every mutation so cached calendar payloads
// are dropped before the next read.
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

func (s *Service) validate(rv *Rdv) error {
	if rv.EtudeID <= 0 {
		return fmt.Errorf("%w: etude_id is required", apperr.ErrInvalidInput)
	}
	if rv.Etat == "" {
		rv.Etat = EtatEnAttente
	}
	if !rv.Etat.Valid() {
		return fmt.Errorf("%w: invalid etat %q", apperr.ErrInvalidInput, rv.Etat)
	}
	if rv.Duree != nil && *rv.Duree <= 0 {
		return fmt.Errorf("%w: duree must be positive", apperr.ErrInvalidInput)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, rv *Rdv) error {
	if err := s.validate(rv); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, rv); err != nil {
		return err
	}
	s.inval.InvalidateAll()
	return nil
}

func (s *Service) Get(ctx context.Context, etudeID, rdvID int) (*Rdv, error) {
	rv, err := s.repo.Get(ctx, etudeID, rdvID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: rdv %d/%d", apperr.ErrNotFound, etudeID, rdvID)
	}
	return rv, err
}

func (s *Service) Update(ctx context.Context, rv *Rdv) error {
	if err := s.validate(rv); err != nil {
		return err
	}
	if _, err := s.Get(ctx, rv.EtudeID, rv.RdvID); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, rv); err != nil {
		return err
	}
	s.inval.InvalidateAll()
	return nil
}

// ChangeEtat moves an appointment to a new state without touching the rest
// of the row.
func (s *Service) ChangeEtat(ctx context.Context, etudeID, rdvID int, etat Etat) (*Rdv, error) {
	if !etat.Valid() {
		return nil, fmt.Errorf("%w: invalid etat %q", apperr.ErrInvalidInput, etat)
	}
	rv, err := s.Get(ctx, etudeID, rdvID)
	if err != nil {
		return nil, err
	}
	rv.Etat = etat
	if err := s.repo.Update(ctx, rv); err != nil {
		return nil, err
	}
	s.inval.InvalidateAll()
	return rv, nil
}

// Assign books a volunteer onto the slot; a nil volontaireID frees it.
func (s *Service) Assign(ctx context.Context, etudeID, rdvID int, volontaireID *int) (*Rdv, error) {
	rv, err := s.Get(ctx, etudeID, rdvID)
	if err != nil {
		return nil, err
	}
	rv.VolontaireID = volontaireID
	if err := s.repo.Update(ctx, rv); err != nil {
		return nil, err
	}
	s.inval.InvalidateAll()
	return rv, nil
}

func (s *Service) Delete(ctx context.Context, etudeID, rdvID int) error {
	if _, err := s.Get(ctx, etudeID, rdvID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, etudeID, rdvID); err != nil {
		return err
	}
	s.inval.InvalidateAll()
	return nil
}

func (s *Service) FindByDateRange(ctx context.Context, start, end time.Time) ([]*RdvEtude, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end precedes start", apperr.ErrInvalidInput)
	}
	return s.repo.FindByDateRange(ctx, start, end)
}

func (s *Service) FindByEtude(ctx context.Context, etudeID, limit, offset int) ([]*Rdv, int, error) {
	return s.repo.FindByEtude(ctx, etudeID, limit, offset)
}

func (s *Service) FindByEtudeAndDate(ctx context.Context, etudeID int, date time.Time) ([]*Rdv, error) {
	return s.repo.FindByEtudeAndDate(ctx, etudeID, date)
}

func (s *Service) FindByVolontaire(ctx context.Context, volontaireID, limit, offset int) ([]*Rdv, int, error) {
	return s.repo.FindByVolontaire(ctx, volontaireID, limit, offset)
}
