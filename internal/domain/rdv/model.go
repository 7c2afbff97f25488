package rdv

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Complexity-ML/cosmetest-back-sub001/internal/domain/etude"
)

// Heure is a time of day with minute precision, serialized as "HH:MM".
type Heure struct {
	Hour   int
	Minute int
}

// ParseHeure accepts "HH:MM" and "H:MM".
func ParseHeure(s string) (Heure, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return Heure{}, fmt.Errorf("invalid time %q", s)
	}
	var h, m int
	if _, err := fmt.Sscanf(parts[0]+" "+parts[1], "%d %d", &h, &m); err != nil {
		return Heure{}, fmt.Errorf("invalid time %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return Heure{}, fmt.Errorf("invalid time %q", s)
	}
	return Heure{Hour: h, Minute: m}, nil
}

func (h Heure) String() string {
	return fmt.Sprintf("%02d:%02d", h.Hour, h.Minute)
}

// Minutes returns the offset from midnight.
func (h Heure) Minutes() int {
	return h.Hour*60 + h.Minute
}

// CompareHeure orders times of day; a nil time sorts first, same as "00:00".
func CompareHeure(a, b *Heure) int {
	am, bm := 0, 0
	if a != nil {
		am = a.Minutes()
	}
	if b != nil {
		bm = b.Minutes()
	}
	switch {
	case am < bm:
		return -1
	case am > bm:
		return 1
	default:
		return 0
	}
}

func (h Heure) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

func (h *Heure) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseHeure(s)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// Etat is the lifecycle state of an appointment.
type Etat string

const (
	EtatConfirme  Etat = "CONFIRME"
	EtatEnAttente Etat = "EN_ATTENTE"
	EtatAnnule    Etat = "ANNULE"
	EtatComplete  Etat = "COMPLETE"
)

var validEtats = map[Etat]bool{
	EtatConfirme: true, EtatEnAttente: true, EtatAnnule: true, EtatComplete: true,
}

func (e Etat) Valid() bool { return validEtats[e] }

// ParseEtat normalizes legacy spellings from imported data. Anything it does
// not recognize comes back as EN_ATTENTE rather than failing the row.
func ParseEtat(s string) Etat {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CONFIRME", "CONFIRMED", "OK":
		return EtatConfirme
	case "ANNULE", "CANCELLED", "CANCELED":
		return EtatAnnule
	case "COMPLETE", "COMPLETED", "TERMINE", "DONE":
		return EtatComplete
	default:
		return EtatEnAttente
	}
}

// Rdv maps to the rdv table. The primary key is composite: appointment ids
// restart at 1 inside each study, so a row is addressed by (etude_id, rdv_id).
// VolontaireID is nil while the slot has not been assigned yet.
type Rdv struct {
	EtudeID      int        `db:"etude_id" json:"etude_id"`
	RdvID        int        `db:"rdv_id" json:"rdv_id"`
	VolontaireID *int       `db:"volontaire_id" json:"volontaire_id,omitempty"`
	GroupeID     *int       `db:"groupe_id" json:"groupe_id,omitempty"`
	Date         *time.Time `db:"date" json:"date,omitempty"`
	Heure        *Heure     `db:"heure" json:"heure,omitempty"`
	Etat         Etat       `db:"etat" json:"etat"`
	Duree        *int       `db:"duree" json:"duree,omitempty"`
	Commentaires *string    `db:"commentaires" json:"commentaires,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// RdvEtude is a joined row used by date-range reads: the owning study data
// rides along in the same query so window-sized reads stay at one round trip.
type RdvEtude struct {
	Rdv
	Etude etude.Minimal `json:"etude"`
}
