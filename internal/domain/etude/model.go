package etude

import (
	"time"
)

// Etude maps to the etude table. DateDebut and DateFin are inclusive bounds;
// a study with DateFin = 2026-03-15 is still running on the 15th.
type Etude struct {
	ID           int        `db:"id" json:"id"`
	Ref          string     `db:"ref" json:"ref"`
	Titre        string     `db:"titre" json:"titre"`
	Type         *string    `db:"type" json:"type,omitempty"`
	DateDebut    *time.Time `db:"date_debut" json:"date_debut,omitempty"`
	DateFin      *time.Time `db:"date_fin" json:"date_fin,omitempty"`
	Capacite     *int       `db:"capacite" json:"capacite,omitempty"`
	Indemnite    *float64   `db:"indemnite" json:"indemnite,omitempty"`
	Paye         bool       `db:"paye" json:"paye"`
	Commentaires *string    `db:"commentaires" json:"commentaires,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Minimal is the projection of a study embedded in calendar views.
type Minimal struct {
	ID        int        `json:"id"`
	Ref       string     `json:"ref"`
	Titre     string     `json:"titre"`
	Type      *string    `json:"type,omitempty"`
	Capacite  *int       `json:"capacite,omitempty"`
	DateDebut *time.Time `json:"date_debut,omitempty"`
	DateFin   *time.Time `json:"date_fin,omitempty"`
}

// ToMinimal returns the calendar projection of the study.
func (e *Etude) ToMinimal() Minimal {
	return Minimal{
		ID:        e.ID,
		Ref:       e.Ref,
		Titre:     e.Titre,
		Type:      e.Type,
		Capacite:  e.Capacite,
		DateDebut: e.DateDebut,
		DateFin:   e.DateFin,
	}
}

// Overlaps reports whether the study window intersects [start, end], bounds
// inclusive on both sides.
func (e *Etude) Overlaps(start, end time.Time) bool {
	if e.DateDebut == nil && e.DateFin == nil {
		return false
	}
	if e.DateDebut != nil && e.DateDebut.After(end) {
		return false
	}
	if e.DateFin != nil && e.DateFin.Before(start) {
		return false
	}
	return true
}
