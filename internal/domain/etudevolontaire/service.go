package etudevolontaire

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Complexity-ML/cosmetest-back-sub001/internal/platform/apperr"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Enroll(ctx context.Context, ev *EtudeVolontaire) error {
	if ev.EtudeID <= 0 {
		return fmt.Errorf("%w: etude_id is required", apperr.ErrInvalidInput)
	}
	if ev.VolontaireID <= 0 {
		return fmt.Errorf("%w: volontaire_id is required", apperr.ErrInvalidInput)
	}
	if ev.Statut == "" {
		ev.Statut = StatutInscrit
	}
	if !ValidStatut(ev.Statut) {
		return fmt.Errorf("%w: invalid statut %q", apperr.ErrInvalidInput, ev.Statut)
	}
	if _, err := s.repo.Get(ctx, ev.EtudeID, ev.VolontaireID); err == nil {
		return fmt.Errorf("%w: volontaire %d already enrolled in etude %d",
			apperr.ErrConflict, ev.VolontaireID, ev.EtudeID)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	return s.repo.Create(ctx, ev)
}

func (s *Service) Get(ctx context.Context, etudeID, volontaireID int) (*EtudeVolontaire, error) {
	ev, err := s.repo.Get(ctx, etudeID, volontaireID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: enrollment %d/%d", apperr.ErrNotFound, etudeID, volontaireID)
	}
	return ev, err
}

func (s *Service) ChangeStatut(ctx context.Context, etudeID, volontaireID int, statut string) (*EtudeVolontaire, error) {
	if !ValidStatut(statut) {
		return nil, fmt.Errorf("%w: invalid statut %q", apperr.ErrInvalidInput, statut)
	}
	if _, err := s.Get(ctx, etudeID, volontaireID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatut(ctx, etudeID, volontaireID, statut); err != nil {
		return nil, err
	}
	return s.Get(ctx, etudeID, volontaireID)
}

func (s *Service) MarkPaye(ctx context.Context, etudeID, volontaireID int, paye bool) (*EtudeVolontaire, error) {
	if _, err := s.Get(ctx, etudeID, volontaireID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdatePaye(ctx, etudeID, volontaireID, paye); err != nil {
		return nil, err
	}
	return s.Get(ctx, etudeID, volontaireID)
}

func (s *Service) Remove(ctx context.Context, etudeID, volontaireID int) error {
	if _, err := s.Get(ctx, etudeID, volontaireID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, etudeID, volontaireID)
}

func (s *Service) ListByEtude(ctx context.Context, etudeID, limit, offset int) ([]*EtudeVolontaire, int, error) {
	return s.repo.ListByEtude(ctx, etudeID, limit, offset)
}

func (s *Service) ListByVolontaire(ctx context.Context, volontaireID, limit, offset int) ([]*EtudeVolontaire, int, error) {
	return s.repo.ListByVolontaire(ctx, volontaireID, limit, offset)
}
