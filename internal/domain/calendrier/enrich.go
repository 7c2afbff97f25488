package calendrier

import (
	"sort"
	"time"

	"github.com/Complexity-ML/cosmetest-back-sub001/internal/domain/etude"
	"github.com/Complexity-ML/cosmetest-back-sub001/internal/domain/rdv"
	"github.com/Complexity-ML/cosmetest-back-sub001/internal/domain/volontaire"
)

// dateOnly drops the time-of-day component.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	return dateOnly(a).Equal(dateOnly(b))
}

// statutFor buckets a date against the reference day. A nil date has no
// bucket.
func statutFor(date *time.Time, now time.Time) StatutTemporel {
	if date == nil {
		return StatutInconnu
	}
	d, today := dateOnly(*date), dateOnly(now)
	switch {
	case d.Before(today):
		return StatutPasse
	case d.After(today):
		return StatutAVenir
	default:
		return StatutAujourdhui
	}
}

// enrichRdv merges one appointment with its looked-up projections. Pure:
// same inputs, same output. Missing lookups leave nil projection fields
// rather than failing the batch.
func enrichRdv(r *rdv.Rdv, vols map[int]volontaire.Minimal, etudes map[int]etude.Minimal, now time.Time) RdvView {
	view := RdvView{
		EtudeID:      r.EtudeID,
		RdvID:        r.RdvID,
		GroupeID:     r.GroupeID,
		Date:         r.Date,
		Heure:        r.Heure,
		Etat:         r.Etat,
		Duree:        r.Duree,
		Commentaires: r.Commentaires,
		Statut:       statutFor(r.Date, now),
	}
	if r.VolontaireID != nil {
		if v, ok := vols[*r.VolontaireID]; ok {
			view.Volontaire = &v
		}
	}
	if e, ok := etudes[r.EtudeID]; ok {
		view.Etude = &e
	}
	return view
}

// compareViews orders by date then time of day; a missing date sorts last,
// a missing time first, same as the legacy "HH:mm" string ordering.
func compareViews(a, b RdvView) int {
	switch {
	case a.Date == nil && b.Date == nil:
		return rdv.CompareHeure(a.Heure, b.Heure)
	case a.Date == nil:
		return 1
	case b.Date == nil:
		return -1
	}
	da, db := dateOnly(*a.Date), dateOnly(*b.Date)
	switch {
	case da.Before(db):
		return -1
	case da.After(db):
		return 1
	}
	return rdv.CompareHeure(a.Heure, b.Heure)
}

func sortViewsDateAsc(views []RdvView) {
	sort.SliceStable(views, func(i, j int) bool {
		return compareViews(views[i], views[j]) < 0
	})
}

// sortViewsDateDesc reverses the date order while keeping time-of-day
// ascending within a date, the order study listings are read in.
func sortViewsDateDesc(views []RdvView) {
	sort.SliceStable(views, func(i, j int) bool {
		a, b := views[i], views[j]
		switch {
		case a.Date == nil && b.Date == nil:
			return rdv.CompareHeure(a.Heure, b.Heure) < 0
		case a.Date == nil:
			return false
		case b.Date == nil:
			return true
		}
		da, db := dateOnly(*a.Date), dateOnly(*b.Date)
		if !da.Equal(db) {
			return da.After(db)
		}
		return rdv.CompareHeure(a.Heure, b.Heure) < 0
	})
}

func sortViewsHeureAsc(views []RdvView) {
	sort.SliceStable(views, func(i, j int) bool {
		return rdv.CompareHeure(views[i].Heure, views[j].Heure) < 0
	})
}
