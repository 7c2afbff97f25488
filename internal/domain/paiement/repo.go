package paiement

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, p *Paiement) error
	GetByID(ctx context.Context, id int) (*Paiement, error)
	Update(ctx context.Context, p *Paiement) error
	Delete(ctx context.Context, id int) error
	MarkPaid(ctx context.Context, id int, when time.Time) error
	ListByEtude(ctx context.Context, etudeID int, limit, offset int) ([]*Paiement, int, error)
	ListByVolontaire(ctx context.Context, volontaireID int, limit, offset int) ([]*Paiement, int, error)
	// ListUnpaidByEtude returns every pending payment of the study, no window.
	ListUnpaidByEtude(ctx context.Context, etudeID int) ([]*Paiement, error)
	SummaryByEtude(ctx context.Context, etudeID int) (*EtudeSummary, error)
}
