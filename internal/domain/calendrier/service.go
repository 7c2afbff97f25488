package calendrier

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/Complexity-ML/cosmetest-back-sub001/internal/domain/etude"
	"github.com/Complexity-ML/cosmetest-back-sub001/internal/domain/rdv"
	"github.com/Complexity-ML/cosmetest-back-sub001/internal/domain/volontaire"
	"github.com/Complexity-ML/cosmetest-back-sub001/internal/platform/apperr"
	"github.com/Complexity-ML/cosmetest-back-sub001/pkg/pagination"
)

const dateLayout = "2006-01-02"

type Service struct {
	rdvs   rdv.Repository
	etudes etude.Repository
	vols   volontaire.Repository
	cache  PeriodCache
	log    zerolog.Logger

	// now is injectable so temporal bucketing is testable.
	now func() time.Time
	// granularite is the free-slot grid step.
	granularite time.Duration
}

func NewService(rdvs rdv.Repository, etudes etude.Repository, vols volontaire.Repository,
	cache PeriodCache, log zerolog.Logger, granulariteMinutes int) *Service {
	if granulariteMinutes <= 0 {
		granulariteMinutes = 30
	}
	return &Service{
		rdvs:        rdvs,
		etudes:      etudes,
		vols:        vols,
		cache:       cache,
		log:         log,
		now:         time.Now,
		granularite: time.Duration(granulariteMinutes) * time.Minute,
	}
}

func fmtDate(t time.Time) string { return t.Format(dateLayout) }

func checkRange(start, end time.Time) error {
	if end.Before(start) {
		return fmt.Errorf("%w: fin %s avant debut %s", apperr.ErrInvalidInput, fmtDate(end), fmtDate(start))
	}
	return nil
}

func checkPage(size int) error {
	if size <= 0 {
		return fmt.Errorf("%w: taille de page %d", apperr.ErrInvalidInput, size)
	}
	return nil
}

// mondayOf normalizes any date to the Monday of its week.
func mondayOf(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7
	return dateOnly(d).AddDate(0, 0, -offset)
}

// anchorEtude loads the study that a per-study report hangs off. Unlike
// window reads, a missing anchor is a terminal NotFound.
func (s *Service) anchorEtude(ctx context.Context, etudeID int) (*etude.Etude, error) {
	e, err := s.etudes.GetByID(ctx, etudeID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: etude %d", apperr.ErrNotFound, etudeID)
	}
	if err != nil {
		return nil, fmt.Errorf("load etude %d: %w", etudeID, err)
	}
	return e, nil
}

// fetchPeriod pulls the window's appointments with their studies riding
// along, resolves volunteers in one batch, and enriches everything.
func (s *Service) fetchPeriod(ctx context.Context, start, end time.Time) ([]RdvView, map[int]etude.Minimal, error) {
	rows, err := s.rdvs.FindByDateRange(ctx, start, end)
	if err != nil {
		return nil, nil, fmt.Errorf("calendrier periode %s..%s: %w", fmtDate(start), fmtDate(end), err)
	}
	raw := make([]*rdv.Rdv, len(rows))
	etudeMap := make(map[int]etude.Minimal, len(rows))
	for i, row := range rows {
		raw[i] = &row.Rdv
		etudeMap[row.Etude.ID] = row.Etude
	}
	volMap, err := s.resolveVolontaires(ctx, raw)
	if err != nil {
		return nil, nil, fmt.Errorf("calendrier periode %s..%s: %w", fmtDate(start), fmtDate(end), err)
	}
	now := s.now()
	views := make([]RdvView, len(raw))
	for i, r := range raw {
		views[i] = enrichRdv(r, volMap, etudeMap, now)
	}
	sortViewsDateAsc(views)
	return views, etudeMap, nil
}

// GetDataForPeriod assembles the calendar payload for [start, end], bounds
// inclusive. With includeEtudesSansRdv, studies whose active window overlaps
// the period but that hold no appointment in it still get an empty group, so
// the calendar can render their rows.
func (s *Service) GetDataForPeriod(ctx context.Context, start, end time.Time, includeEtudesSansRdv bool) (*PeriodeData, error) {
	if err := checkRange(start, end); err != nil {
		return nil, err
	}
	views, etudeMap, err := s.fetchPeriod(ctx, start, end)
	if err != nil {
		return nil, err
	}
	data := &PeriodeData{
		Debut: dateOnly(start),
		Fin:   dateOnly(end),
		Rdvs:  views,
		Stats: computeStats(views),
	}
	if includeEtudesSansRdv {
		groups, err := s.groupByEtude(ctx, start, end, views, etudeMap)
		if err != nil {
			return nil, err
		}
		data.Etudes = groups
	}
	return data, nil
}

// groupByEtude buckets enriched views per study and unions in the studies
// active in the window that have no appointments.
func (s *Service) groupByEtude(ctx context.Context, start, end time.Time, views []RdvView, etudeMap map[int]etude.Minimal) ([]EtudePeriode, error) {
	actives, err := s.etudes.FindOverlapping(ctx, dateOnly(start), dateOnly(end))
	if err != nil {
		return nil, fmt.Errorf("etudes actives %s..%s: %w", fmtDate(start), fmtDate(end), err)
	}

	index := map[int]int{}
	var groups []EtudePeriode
	for _, e := range actives {
		index[e.ID] = len(groups)
		groups = append(groups, EtudePeriode{Etude: e.ToMinimal(), Rdvs: []RdvView{}})
	}
	for _, v := range views {
		i, ok := index[v.EtudeID]
		if !ok {
			// Appointment of a study whose window does not overlap the
			// period; it still belongs in the payload.
			min, found := etudeMap[v.EtudeID]
			if !found {
				min = etude.Minimal{ID: v.EtudeID}
			}
			i = len(groups)
			index[v.EtudeID] = i
			groups = append(groups, EtudePeriode{Etude: min, Rdvs: []RdvView{}})
		}
		groups[i].Rdvs = append(groups[i].Rdvs, v)
	}
	for i := range groups {
		groups[i].NombreRdv = len(groups[i].Rdvs)
	}
	return groups, nil
}

// GetWeekData returns the calendar payload for the Monday-to-Sunday week
// containing the given date.
func (s *Service) GetWeekData(ctx context.Context, anyDate time.Time) (*PeriodeData, error) {
	monday := mondayOf(anyDate)
	return s.GetDataForPeriod(ctx, monday, monday.AddDate(0, 0, 6), true)
}

// GetEtudeRdvs pages through a study's appointments, most recent date
// first. Pages are zero-indexed; a page past the end is empty, not an error.
func (s *Service) GetEtudeRdvs(ctx context.Context, etudeID, page, size int) (*EtudeRdvsPage, error) {
	if err := checkPage(size); err != nil {
		return nil, err
	}
	views, anchor, err := s.fetchEtude(ctx, etudeID)
	if err != nil {
		return nil, err
	}
	sortViewsDateDesc(views)
	lo, hi, meta := pagination.Slice(len(views), page, size)
	return &EtudeRdvsPage{
		Etude: anchor.ToMinimal(),
		Rdvs:  views[lo:hi],
		Meta:  meta,
	}, nil
}

// fetchEtude loads and enriches every appointment of one study.
func (s *Service) fetchEtude(ctx context.Context, etudeID int) ([]RdvView, *etude.Etude, error) {
	anchor, err := s.anchorEtude(ctx, etudeID)
	if err != nil {
		return nil, nil, err
	}
	raw, err := s.rdvs.FindAllByEtude(ctx, etudeID)
	if err != nil {
		return nil, nil, fmt.Errorf("rdvs etude %d: %w", etudeID, err)
	}
	volMap, err := s.resolveVolontaires(ctx, raw)
	if err != nil {
		return nil, nil, fmt.Errorf("rdvs etude %d: %w", etudeID, err)
	}
	etudeMap := map[int]etude.Minimal{anchor.ID: anchor.ToMinimal()}
	now := s.now()
	views := make([]RdvView, len(raw))
	for i, r := range raw {
		views[i] = enrichRdv(r, volMap, etudeMap, now)
	}
	return views, anchor, nil
}

// GetEtudeRdvsWithFocusDate surfaces the appointments of a clicked date
// first, sorted by time of day, and buckets the rest of the study's schedule
// by temporal status. The page window applies to the focus bucket.
func (s *Service) GetEtudeRdvsWithFocusDate(ctx context.Context, etudeID int, focusDate time.Time, page, size int) (*FocusData, error) {
	if err := checkPage(size); err != nil {
		return nil, err
	}
	views, anchor, err := s.fetchEtude(ctx, etudeID)
	if err != nil {
		return nil, err
	}

	var focus, autres []RdvView
	for _, v := range views {
		if v.Date != nil && sameDay(*v.Date, focusDate) {
			focus = append(focus, v)
		} else {
			autres = append(autres, v)
		}
	}
	sortViewsHeureAsc(focus)
	sortViewsDateDesc(autres)

	stats := FocusStats{TotalAutres: len(autres), Total: len(views)}
	for _, v := range autres {
		switch v.Statut {
		case StatutPasse:
			stats.Passes++
		case StatutAujourdhui:
			stats.DuJour++
		case StatutAVenir:
			stats.AVenir++
		}
	}

	lo, hi, meta := pagination.Slice(len(focus), page, size)
	return &FocusData{
		Etude:     anchor.ToMinimal(),
		FocusDate: dateOnly(focusDate),
		RdvsFocus: focus[lo:hi],
		Autres:    autres,
		Stats:     stats,
		Meta:      meta,
	}, nil
}

// GetEtudeRdvsForDate is the light variant when only one day is wanted.
func (s *Service) GetEtudeRdvsForDate(ctx context.Context, etudeID int, date time.Time) ([]RdvView, error) {
	anchor, err := s.anchorEtude(ctx, etudeID)
	if err != nil {
		return nil, err
	}
	raw, err := s.rdvs.FindByEtudeAndDate(ctx, etudeID, dateOnly(date))
	if err != nil {
		return nil, fmt.Errorf("rdvs etude %d date %s: %w", etudeID, fmtDate(date), err)
	}
	volMap, err := s.resolveVolontaires(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("rdvs etude %d date %s: %w", etudeID, fmtDate(date), err)
	}
	etudeMap := map[int]etude.Minimal{anchor.ID: anchor.ToMinimal()}
	now := s.now()
	views := make([]RdvView, len(raw))
	for i, r := range raw {
		views[i] = enrichRdv(r, volMap, etudeMap, now)
	}
	sortViewsHeureAsc(views)
	return views, nil
}

var joursFR = map[time.Weekday]string{
	time.Monday:    "lundi",
	time.Tuesday:   "mardi",
	time.Wednesday: "mercredi",
	time.Thursday:  "jeudi",
	time.Friday:    "vendredi",
	time.Saturday:  "samedi",
	time.Sunday:    "dimanche",
}

func computeStats(views []RdvView) PeriodeStats {
	st := PeriodeStats{
		Total:   len(views),
		ParEtat: map[string]int{},
		ParJour: map[string]int{},
		ParHeur: map[string]int{},
	}
	for _, v := range views {
		st.ParEtat[string(v.Etat)]++
		if v.Date != nil {
			st.ParJour[joursFR[v.Date.Weekday()]]++
		}
		if v.Heure != nil {
			st.ParHeur[fmt.Sprintf("%02d", v.Heure.Hour)]++
		}
		switch v.Statut {
		case StatutPasse:
			st.Passes++
		case StatutAujourdhui:
			st.DuJour++
		case StatutAVenir:
			st.AVenir++
		}
	}
	return st
}

// GetPeriodStatistics computes the window counters without the volunteer
// lookups the full payload pays for.
func (s *Service) GetPeriodStatistics(ctx context.Context, start, end time.Time) (*PeriodeStats, error) {
	if err := checkRange(start, end); err != nil {
		return nil, err
	}
	rows, err := s.rdvs.FindByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("statistiques %s..%s: %w", fmtDate(start), fmtDate(end), err)
	}
	now := s.now()
	views := make([]RdvView, len(rows))
	for i, row := range rows {
		views[i] = enrichRdv(&row.Rdv, nil, nil, now)
	}
	st := computeStats(views)
	return &st, nil
}

// GetFreeSlots walks a fixed-step grid inside [plageDebut, plageFin) for
// each date of the window and splits it into free and busy slots. An
// appointment books the slot its time falls into; cancelled appointments do
// not block a slot.
func (s *Service) GetFreeSlots(ctx context.Context, start, end time.Time, plageDebut, plageFin rdv.Heure) (*CreneauxLibres, error) {
	if err := checkRange(start, end); err != nil {
		return nil, err
	}
	if plageFin.Minutes() <= plageDebut.Minutes() {
		return nil, fmt.Errorf("%w: plage %s..%s", apperr.ErrInvalidInput, plageDebut, plageFin)
	}
	rows, err := s.rdvs.FindByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("creneaux libres %s..%s: %w", fmtDate(start), fmtDate(end), err)
	}

	step := int(s.granularite.Minutes())
	booked := map[string]map[int]bool{}
	for _, row := range rows {
		if row.Date == nil || row.Heure == nil || row.Etat == rdv.EtatAnnule {
			continue
		}
		key := fmtDate(*row.Date)
		if booked[key] == nil {
			booked[key] = map[int]bool{}
		}
		booked[key][(row.Heure.Minutes()/step)*step] = true
	}

	out := &CreneauxLibres{
		Debut:      dateOnly(start),
		Fin:        dateOnly(end),
		PlageDebut: plageDebut,
		PlageFin:   plageFin,
	}
	for day := dateOnly(start); !day.After(dateOnly(end)); day = day.AddDate(0, 0, 1) {
		jour := JourCreneaux{Date: day, Libres: []rdv.Heure{}, Occupes: []rdv.Heure{}}
		taken := booked[fmtDate(day)]
		for m := plageDebut.Minutes(); m < plageFin.Minutes(); m += step {
			slot := rdv.Heure{Hour: m / 60, Minute: m % 60}
			if taken[m] {
				jour.Occupes = append(jour.Occupes, slot)
			} else {
				jour.Libres = append(jour.Libres, slot)
			}
		}
		out.Jours = append(out.Jours, jour)
	}
	return out, nil
}

// GetConflicts reports double-booked volunteers and exact (date, time)
// collisions inside the window.
func (s *Service) GetConflicts(ctx context.Context, start, end time.Time) (*ConflitsData, error) {
	if err := checkRange(start, end); err != nil {
		return nil, err
	}
	rows, err := s.rdvs.FindByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("conflits %s..%s: %w", fmtDate(start), fmtDate(end), err)
	}
	return buildConflicts(rows, start, end), nil
}

// buildConflicts is the pure detection pass. Rows must be date/time sorted
// so the report order is stable.
func buildConflicts(rows []*rdv.RdvEtude, start, end time.Time) *ConflitsData {
	out := &ConflitsData{Debut: dateOnly(start), Fin: dateOnly(end)}

	type volDateKey struct {
		vol  int
		date string
	}
	byVolDate := map[volDateKey][]RdvRef{}
	var volDateOrder []volDateKey

	type slotKey struct {
		date  string
		heure string
	}
	bySlot := map[slotKey][]RdvRef{}
	var slotOrder []slotKey

	for _, row := range rows {
		if row.Date == nil {
			continue
		}
		ref := RdvRef{EtudeID: row.EtudeID, RdvID: row.RdvID}
		if row.VolontaireID != nil {
			k := volDateKey{vol: *row.VolontaireID, date: fmtDate(*row.Date)}
			if _, seen := byVolDate[k]; !seen {
				volDateOrder = append(volDateOrder, k)
			}
			byVolDate[k] = append(byVolDate[k], ref)
		}
		// Appointments without a set time cannot collide on a slot.
		if row.Heure != nil {
			k := slotKey{date: fmtDate(*row.Date), heure: row.Heure.String()}
			if _, seen := bySlot[k]; !seen {
				slotOrder = append(slotOrder, k)
			}
			bySlot[k] = append(bySlot[k], ref)
		}
	}

	for _, k := range volDateOrder {
		refs := byVolDate[k]
		if len(refs) < 2 {
			continue
		}
		date, _ := time.Parse(dateLayout, k.date)
		out.SurReservations = append(out.SurReservations, SurReservation{
			VolontaireID: k.vol,
			Date:         date,
			Rdvs:         refs,
		})
	}
	for _, k := range slotOrder {
		refs := bySlot[k]
		if len(refs) < 2 {
			continue
		}
		date, _ := time.Parse(dateLayout, k.date)
		heure, _ := rdv.ParseHeure(k.heure)
		// Every unordered pair once; an appointment never pairs with itself.
		for i := 0; i < len(refs); i++ {
			for j := i + 1; j < len(refs); j++ {
				out.Chevauchements = append(out.Chevauchements, Chevauchement{
					Date:  date,
					Heure: heure,
					A:     refs[i],
					B:     refs[j],
				})
			}
		}
	}
	out.Total = len(out.SurReservations) + len(out.Chevauchements)
	return out
}

// GetWorkloadTrends counts appointments per day over the trailing weeks,
// current week included, grouped Monday to Sunday.
func (s *Service) GetWorkloadTrends(ctx context.Context, weeks int) (*TendancesCharge, error) {
	if weeks <= 0 {
		return nil, fmt.Errorf("%w: nombre de semaines %d", apperr.ErrInvalidInput, weeks)
	}
	thisMonday := mondayOf(s.now())
	start := thisMonday.AddDate(0, 0, -7*(weeks-1))
	end := thisMonday.AddDate(0, 0, 6)

	rows, err := s.rdvs.FindByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("tendances charge %d semaines: %w", weeks, err)
	}
	perDay := map[string]int{}
	for _, row := range rows {
		if row.Date != nil {
			perDay[fmtDate(*row.Date)]++
		}
	}

	out := &TendancesCharge{}
	for w := 0; w < weeks; w++ {
		monday := start.AddDate(0, 0, 7*w)
		semaine := ChargeSemaine{Debut: monday, Fin: monday.AddDate(0, 0, 6)}
		for d := 0; d < 7; d++ {
			day := monday.AddDate(0, 0, d)
			n := perDay[fmtDate(day)]
			semaine.ParJour = append(semaine.ParJour, ChargeJour{Date: day, NbRdv: n})
			semaine.NbRdv += n
		}
		out.Total += semaine.NbRdv
		out.Semaines = append(out.Semaines, semaine)
	}
	out.MoyenneParSemaine = float64(out.Total) / float64(weeks)
	return out, nil
}

// GetUsageReport combines the window statistics, conflict counts and peak
// day/hour into one payload, from a single store read.
func (s *Service) GetUsageReport(ctx context.Context, start, end time.Time) (*RapportUtilisation, error) {
	if err := checkRange(start, end); err != nil {
		return nil, err
	}
	rows, err := s.rdvs.FindByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("rapport %s..%s: %w", fmtDate(start), fmtDate(end), err)
	}
	now := s.now()
	views := make([]RdvView, len(rows))
	perDay := map[string]int{}
	for i, row := range rows {
		views[i] = enrichRdv(&row.Rdv, nil, nil, now)
		if row.Date != nil {
			perDay[fmtDate(*row.Date)]++
		}
	}
	conflicts := buildConflicts(rows, start, end)

	out := &RapportUtilisation{
		Debut:             dateOnly(start),
		Fin:               dateOnly(end),
		Stats:             computeStats(views),
		NbSurReservations: len(conflicts.SurReservations),
		NbChevauchements:  len(conflicts.Chevauchements),
	}

	var dayKeys []string
	for k := range perDay {
		dayKeys = append(dayKeys, k)
	}
	sort.Strings(dayKeys)
	for _, k := range dayKeys {
		if out.JourPlusCharge == nil || perDay[k] > out.JourPlusCharge.NbRdv {
			date, _ := time.Parse(dateLayout, k)
			out.JourPlusCharge = &ChargeJour{Date: date, NbRdv: perDay[k]}
		}
	}

	var hourKeys []string
	for k := range out.Stats.ParHeur {
		hourKeys = append(hourKeys, k)
	}
	sort.Strings(hourKeys)
	best := 0
	for _, k := range hourKeys {
		if out.Stats.ParHeur[k] > best {
			best = out.Stats.ParHeur[k]
			out.HeurePlusChargee = k
		}
	}

	days := int(dateOnly(end).Sub(dateOnly(start)).Hours()/24) + 1
	out.MoyenneParJour = float64(out.Stats.Total) / float64(days)
	return out, nil
}

// GetVolontairePlanning returns the enriched schedule of one volunteer,
// date descending. Volunteer-keyed reads carry no study join, so studies
// are batch-resolved separately.
func (s *Service) GetVolontairePlanning(ctx context.Context, volontaireID, page, size int) ([]RdvView, pagination.PageMeta, error) {
	if err := checkPage(size); err != nil {
		return nil, pagination.PageMeta{}, err
	}
	v, err := s.vols.GetByID(ctx, volontaireID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, pagination.PageMeta{}, fmt.Errorf("%w: volontaire %d", apperr.ErrNotFound, volontaireID)
	}
	if err != nil {
		return nil, pagination.PageMeta{}, fmt.Errorf("load volontaire %d: %w", volontaireID, err)
	}

	// Bounded per-volunteer volume; fetch everything and page in memory so
	// the sort runs on the enriched view.
	const allRows = 100000
	raw, _, err := s.rdvs.FindByVolontaire(ctx, volontaireID, allRows, 0)
	if err != nil {
		return nil, pagination.PageMeta{}, fmt.Errorf("planning volontaire %d: %w", volontaireID, err)
	}
	etudeMap, err := s.resolveEtudes(ctx, raw)
	if err != nil {
		return nil, pagination.PageMeta{}, fmt.Errorf("planning volontaire %d: %w", volontaireID, err)
	}
	volMap := map[int]volontaire.Minimal{v.ID: v.ToMinimal()}
	now := s.now()
	views := make([]RdvView, len(raw))
	for i, r := range raw {
		views[i] = enrichRdv(r, volMap, etudeMap, now)
	}
	sortViewsDateDesc(views)
	lo, hi, meta := pagination.Slice(len(views), page, size)
	return views[lo:hi], meta, nil
}

// GetOrRefresh serves the period payload from the cache when it can. A
// forced refresh bypasses the lookup; a cancelled or failed computation
// never populates the cache.
func (s *Service) GetOrRefresh(ctx context.Context, start, end time.Time, force bool) (*PeriodeData, error) {
	if err := checkRange(start, end); err != nil {
		return nil, err
	}
	if !force {
		if data, ok := s.cache.Get(start, end); ok {
			return data, nil
		}
	}
	data, err := s.GetDataForPeriod(ctx, start, end, true)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.cache.Put(start, end, data)
	return data, nil
}

// Preload warms the cache for the windows the calendar opens on: the
// current week and the current month.
func (s *Service) Preload(ctx context.Context) error {
	now := s.now()

	monday := mondayOf(now)
	if _, err := s.GetOrRefresh(ctx, monday, monday.AddDate(0, 0, 6), false); err != nil {
		return fmt.Errorf("prechargement semaine courante: %w", err)
	}

	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	last := first.AddDate(0, 1, -1)
	if _, err := s.GetOrRefresh(ctx, first, last, false); err != nil {
		return fmt.Errorf("prechargement mois courant: %w", err)
	}

	s.log.Info().
		Str("semaine", fmtDate(monday)).
		Str("mois", fmtDate(first)).
		Msg("cache calendrier precharge")
	return nil
}

// InvalidateCache drops every cached period payload.
func (s *Service) InvalidateCache() {
	s.cache.InvalidateAll()
}
