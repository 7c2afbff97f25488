package rdv

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, r *Rdv) error
	Get(ctx context.Context, etudeID, rdvID int) (*Rdv, error)
	Update(ctx context.Context, r *Rdv) error
	Delete(ctx context.Context, etudeID, rdvID int) error

	// FindByDateRange returns the appointments dated inside [start, end],
	// bounds inclusive, with the owning study joined in the same query.
	// Ordered by date then time of day.
	FindByDateRange(ctx context.Context, start, end time.Time) ([]*RdvEtude, error)

	// FindByEtude returns a study's appointments ordered by date descending,
	// nulls last, then time of day.
	FindByEtude(ctx context.Context, etudeID int, limit, offset int) ([]*Rdv, int, error)

	// FindAllByEtude is FindByEtude without the pagination window.
	FindAllByEtude(ctx context.Context, etudeID int) ([]*Rdv, error)

	FindByEtudeAndDate(ctx context.Context, etudeID int, date time.Time) ([]*Rdv, error)
	FindByVolontaire(ctx context.Context, volontaireID int, limit, offset int) ([]*Rdv, int, error)
}
