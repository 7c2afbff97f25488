package paiement

import "time"

// Paiement is the indemnity owed to a volunteer for a study.
type Paiement struct {
	ID           int        `db:"id" json:"id"`
	EtudeID      int        `db:"etude_id" json:"etude_id"`
	VolontaireID int        `db:"volontaire_id" json:"volontaire_id"`
	Montant      float64    `db:"montant" json:"montant"`
	Paye         bool       `db:"paye" json:"paye"`
	DatePaiement *time.Time `db:"date_paiement" json:"date_paiement,omitempty"`
	Commentaires *string    `db:"commentaires" json:"commentaires,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// EtudeSummary aggregates a study's payment position.
type EtudeSummary struct {
	EtudeID      int     `json:"etude_id"`
	NbPaiements  int     `json:"nb_paiements"`
	NbPayes      int     `json:"nb_payes"`
	NbEnAttente  int     `json:"nb_en_attente"`
	MontantTotal float64 `json:"montant_total"`
	MontantPaye  float64 `json:"montant_paye"`
}
