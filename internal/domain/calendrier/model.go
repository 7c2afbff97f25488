// Package calendrier assembles the calendar views: enriched appointment
// payloads over a period, per-study listings with focus-date grouping,
// statistics, conflict detection, free slots and workload rollups.
package calendrier

import (
	"time"

	"github.com/Complexity-ML/cosmetest-back-sub001/internal/domain/etude"
	"github.com/Complexity-ML/cosmetest-back-sub001/internal/domain/rdv"
	"github.com/Complexity-ML/cosmetest-back-sub001/internal/domain/volontaire"
	"github.com/Complexity-ML/cosmetest-back-sub001/pkg/pagination"
)

// StatutTemporel places an appointment relative to a reference day.
type StatutTemporel string

const (
	StatutPasse      StatutTemporel = "passe"
	StatutAujourdhui StatutTemporel = "aujourdhui"
	StatutAVenir     StatutTemporel = "a_venir"
	// StatutInconnu marks an appointment with no date. It is kept in raw
	// lists but excluded from every temporal bucket count.
	StatutInconnu StatutTemporel = ""
)

// RdvView is the denormalized appointment record served to the calendar.
// Volontaire and Etude are nil when the underlying reference dangles.
type RdvView struct {
	EtudeID      int                 `json:"etude_id"`
	RdvID        int                 `json:"rdv_id"`
	GroupeID     *int                `json:"groupe_id,omitempty"`
	Date         *time.Time          `json:"date,omitempty"`
	Heure        *rdv.Heure          `json:"heure,omitempty"`
	Etat         rdv.Etat            `json:"etat"`
	Duree        *int                `json:"duree,omitempty"`
	Commentaires *string             `json:"commentaires,omitempty"`
	Volontaire   *volontaire.Minimal `json:"volontaire,omitempty"`
	Etude        *etude.Minimal      `json:"etude,omitempty"`
	Statut       StatutTemporel      `json:"statut,omitempty"`
}

// PeriodeStats are the counters computed over a window. Map keys are
// strings on purpose: the payload is consumed as-is by the front end.
type PeriodeStats struct {
	Total   int            `json:"total"`
	ParEtat map[string]int `json:"par_etat"`
	ParJour map[string]int `json:"par_jour"`
	ParHeur map[string]int `json:"par_heure"`
	Passes  int            `json:"passes"`
	DuJour  int            `json:"du_jour"`
	AVenir  int            `json:"a_venir"`
}

// EtudePeriode groups a study's appointments inside a period payload.
// Studies active in the window without any appointment still get a row,
// with an empty list and NombreRdv 0.
type EtudePeriode struct {
	Etude     etude.Minimal `json:"etude"`
	Rdvs      []RdvView     `json:"rdvs"`
	NombreRdv int           `json:"nombre_rdv"`
}

// PeriodeData is the full calendar payload for a window.
type PeriodeData struct {
	Debut  time.Time      `json:"debut"`
	Fin    time.Time      `json:"fin"`
	Rdvs   []RdvView      `json:"rdvs"`
	Etudes []EtudePeriode `json:"etudes,omitempty"`
	Stats  PeriodeStats   `json:"stats"`
}

// EtudeRdvsPage is one page of a study's appointment listing, date
// descending.
type EtudeRdvsPage struct {
	Etude etude.Minimal       `json:"etude"`
	Rdvs  []RdvView           `json:"rdvs"`
	Meta  pagination.PageMeta `json:"meta"`
}

// FocusStats breaks the non-focus remainder down by temporal status.
type FocusStats struct {
	Passes      int `json:"passes"`
	DuJour      int `json:"du_jour"`
	AVenir      int `json:"a_venir"`
	TotalAutres int `json:"total_autres"`
	Total       int `json:"total"`
}

// FocusData surfaces the appointments of a clicked date first, with the
// rest of the study's schedule and its temporal breakdown alongside.
type FocusData struct {
	Etude     etude.Minimal       `json:"etude"`
	FocusDate time.Time           `json:"focus_date"`
	RdvsFocus []RdvView           `json:"rdvs_focus"`
	Autres    []RdvView           `json:"autres"`
	Stats     FocusStats          `json:"stats"`
	Meta      pagination.PageMeta `json:"meta"`
}

// RdvRef addresses an appointment by its composite key.
type RdvRef struct {
	EtudeID int `json:"etude_id"`
	RdvID   int `json:"rdv_id"`
}

// SurReservation is one volunteer holding several appointments on the same
// date.
type SurReservation struct {
	VolontaireID int       `json:"volontaire_id"`
	Date         time.Time `json:"date"`
	Rdvs         []RdvRef  `json:"rdvs"`
}

// Chevauchement is an unordered pair of distinct appointments sharing the
// exact same date and time.
type Chevauchement struct {
	Date  time.Time `json:"date"`
	Heure rdv.Heure `json:"heure"`
	A     RdvRef    `json:"a"`
	B     RdvRef    `json:"b"`
}

// ConflitsData reports the window's scheduling conflicts. They are surfaced,
// never auto-resolved.
type ConflitsData struct {
	Debut           time.Time        `json:"debut"`
	Fin             time.Time        `json:"fin"`
	SurReservations []SurReservation `json:"sur_reservations"`
	Chevauchements  []Chevauchement  `json:"chevauchements"`
	Total           int              `json:"total"`
}

// JourCreneaux lists the free and busy grid slots of one date.
type JourCreneaux struct {
	Date    time.Time   `json:"date"`
	Libres  []rdv.Heure `json:"libres"`
	Occupes []rdv.Heure `json:"occupes"`
}

// CreneauxLibres is the free-slot payload: per date, the complement of the
// booked times inside [PlageDebut, PlageFin).
type CreneauxLibres struct {
	Debut      time.Time      `json:"debut"`
	Fin        time.Time      `json:"fin"`
	PlageDebut rdv.Heure      `json:"plage_debut"`
	PlageFin   rdv.Heure      `json:"plage_fin"`
	Jours      []JourCreneaux `json:"jours"`
}

// ChargeJour is an appointment count for one date.
type ChargeJour struct {
	Date  time.Time `json:"date"`
	NbRdv int       `json:"nb_rdv"`
}

// ChargeSemaine is a Monday-to-Sunday workload bucket.
type ChargeSemaine struct {
	Debut   time.Time    `json:"debut"`
	Fin     time.Time    `json:"fin"`
	NbRdv   int          `json:"nb_rdv"`
	ParJour []ChargeJour `json:"par_jour"`
}

// TendancesCharge is the workload trend over the trailing weeks.
type TendancesCharge struct {
	Semaines          []ChargeSemaine `json:"semaines"`
	Total             int             `json:"total"`
	MoyenneParSemaine float64         `json:"moyenne_par_semaine"`
}

// RapportUtilisation is a combined usage report over a window.
type RapportUtilisation struct {
	Debut             time.Time    `json:"debut"`
	Fin               time.Time    `json:"fin"`
	Stats             PeriodeStats `json:"stats"`
	NbSurReservations int          `json:"nb_sur_reservations"`
	NbChevauchements  int          `json:"nb_chevauchements"`
	JourPlusCharge    *ChargeJour  `json:"jour_plus_charge,omitempty"`
	HeurePlusChargee  string       `json:"heure_plus_chargee,omitempty"`
	MoyenneParJour    float64      `json:"moyenne_par_jour"`
}
