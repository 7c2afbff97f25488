package etudevolontaire

import "time"

// Statut values for a volunteer's enrollment in a study.
const (
	StatutInscrit        = "INSCRIT"
	StatutPreselectionne = "PRESELECTIONNE"
	StatutRetenu         = "RETENU"
	StatutDesiste        = "DESISTE"
	StatutExclu          = "EXCLU"
)

// EtudeVolontaire links a volunteer to a study. The pair is the primary key;
// GroupeID, IV and Paye are attributes of the enrollment.
type EtudeVolontaire struct {
	EtudeID      int       `db:"etude_id" json:"etude_id"`
	VolontaireID int       `db:"volontaire_id" json:"volontaire_id"`
	GroupeID     *int      `db:"groupe_id" json:"groupe_id,omitempty"`
	Statut       string    `db:"statut" json:"statut"`
	NumSujet     *int      `db:"num_sujet" json:"num_sujet,omitempty"`
	IV           *int      `db:"iv" json:"iv,omitempty"`
	Paye         bool      `db:"paye" json:"paye"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

var validStatuts = map[string]bool{
	StatutInscrit: true, StatutPreselectionne: true, StatutRetenu: true,
	StatutDesiste: true, StatutExclu: true,
}

func ValidStatut(s string) bool { return validStatuts[s] }
