package etudevolontaire

import "context"

type Repository interface {
	Create(ctx context.Context, ev *EtudeVolontaire) error
	Get(ctx context.Context, etudeID, volontaireID int) (*EtudeVolontaire, error)
	UpdateStatut(ctx context.Context, etudeID, volontaireID int, statut string) error
	UpdatePaye(ctx context.Context, etudeID, volontaireID int, paye bool) error
	Delete(ctx context.Context, etudeID, volontaireID int) error
	ListByEtude(ctx context.Context, etudeID int, limit, offset int) ([]*EtudeVolontaire, int, error)
	ListByVolontaire(ctx context.Context, volontaireID int, limit, offset int) ([]*EtudeVolontaire, int, error)
}
