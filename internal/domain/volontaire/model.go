package volontaire

import (
	"time"
)

// Volontaire maps to the volontaire table. The descriptive questionnaire
// fields (habits, skin characteristics, ...) live in a separate table handled
// elsewhere; this core only carries the identity and contact columns.
type Volontaire struct {
	ID            int        `db:"id" json:"id"`
	Titre         *string    `db:"titre" json:"titre,omitempty"`
	Nom           string     `db:"nom" json:"nom"`
	Prenom        string     `db:"prenom" json:"prenom"`
	Email         *string    `db:"email" json:"email,omitempty"`
	Telephone     *string    `db:"telephone" json:"telephone,omitempty"`
	Sexe          *string    `db:"sexe" json:"sexe,omitempty"`
	DateNaissance *time.Time `db:"date_naissance" json:"date_naissance,omitempty"`
	Commentaires  *string    `db:"commentaires" json:"commentaires,omitempty"`
	Archive       bool       `db:"archive" json:"archive"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// Minimal is the projection of a volunteer embedded in calendar views.
type Minimal struct {
	ID            int        `json:"id"`
	Titre         *string    `json:"titre,omitempty"`
	Nom           string     `json:"nom"`
	Prenom        string     `json:"prenom"`
	DateNaissance *time.Time `json:"date_naissance,omitempty"`
}

// ToMinimal returns the calendar projection of the volunteer.
func (v *Volontaire) ToMinimal() Minimal {
	return Minimal{
		ID:            v.ID,
		Titre:         v.Titre,
		Nom:           v.Nom,
		Prenom:        v.Prenom,
		DateNaissance: v.DateNaissance,
	}
}
