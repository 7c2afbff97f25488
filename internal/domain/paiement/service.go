package paiement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Complexity-ML/cosmetest-back-sub001/internal/platform/apperr"
	"github.com/Complexity-ML/cosmetest-back-sub001/internal/platform/db"
)

type Service struct {
	repo Repository
	pool *pgxpool.Pool
}

// NewService takes the pool for the transactional bulk operations; pool may
// be nil in tests, which disables them.
func NewService(repo Repository, pool *pgxpool.Pool) *Service {
	return &Service{repo: repo, pool: pool}
}

func (s *Service) Create(ctx context.Context, p *Paiement) error {
	if p.EtudeID <= 0 {
		return fmt.Errorf("%w: etude_id is required", apperr.ErrInvalidInput)
	}
	if p.VolontaireID <= 0 {
		return fmt.Errorf("%w: volontaire_id is required", apperr.ErrInvalidInput)
	}
	if p.Montant < 0 {
		return fmt.Errorf("%w: montant must not be negative", apperr.ErrInvalidInput)
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id int) (*Paiement, error) {
	p, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: paiement %d", apperr.ErrNotFound, id)
	}
	return p, err
}

func (s *Service) Update(ctx context.Context, p *Paiement) error {
	if p.Montant < 0 {
		return fmt.Errorf("%w: montant must not be negative", apperr.ErrInvalidInput)
	}
	if _, err := s.Get(ctx, p.ID); err != nil {
		return err
	}
	return s.repo.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id int) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) MarkPaid(ctx context.Context, id int) (*Paiement, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.MarkPaid(ctx, id, time.Now()); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// MarkEtudePaid settles every pending payment of a study in one transaction,
// so a partial failure leaves nothing half-paid. Returns how many rows were
// settled.
func (s *Service) MarkEtudePaid(ctx context.Context, etudeID int) (int, error) {
	if s.pool == nil {
		return 0, fmt.Errorf("bulk settlement requires a database pool")
	}
	var n int
	err := db.WithTx(ctx, s.pool, func(txCtx context.Context) error {
		pending, err := s.repo.ListUnpaidByEtude(txCtx, etudeID)
		if err != nil {
			return err
		}
		now := time.Now()
		for _, p := range pending {
			if err := s.repo.MarkPaid(txCtx, p.ID, now); err != nil {
				return err
			}
		}
		n = len(pending)
		return nil
	})
	return n, err
}

func (s *Service) ListByEtude(ctx context.Context, etudeID, limit, offset int) ([]*Paiement, int, error) {
	return s.repo.ListByEtude(ctx, etudeID, limit, offset)
}

func (s *Service) ListByVolontaire(ctx context.Context, volontaireID, limit, offset int) ([]*Paiement, int, error) {
	return s.repo.ListByVolontaire(ctx, volontaireID, limit, offset)
}

func (s *Service) SummaryByEtude(ctx context.Context, etudeID int) (*EtudeSummary, error) {
	return s.repo.SummaryByEtude(ctx, etudeID)
}
