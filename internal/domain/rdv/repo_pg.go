package rdv

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Complexity-ML/cosmetest-back-sub001/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

// heure is stored as a "HH:MM" varchar so legacy imports keep their raw
// value; etat likewise. Both are normalized on scan, never on write paths
// that merely read.
const rdvCols = `etude_id, rdv_id, volontaire_id, groupe_id, date, heure, etat,
	duree, commentaires, created_at, updated_at`

func scanRdvFields(row pgx.Row, rv *Rdv, extra ...interface{}) error {
	var heure *string
	var etat string
	dest := []interface{}{&rv.EtudeID, &rv.RdvID, &rv.VolontaireID, &rv.GroupeID, &rv.Date,
		&heure, &etat, &rv.Duree, &rv.Commentaires, &rv.CreatedAt, &rv.UpdatedAt}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return err
	}
	if heure != nil {
		if h, err := ParseHeure(*heure); err == nil {
			rv.Heure = &h
		}
	}
	rv.Etat = ParseEtat(etat)
	return nil
}

func (r *repoPG) scanRdv(row pgx.Row) (*Rdv, error) {
	var rv Rdv
	if err := scanRdvFields(row, &rv); err != nil {
		return nil, err
	}
	return &rv, nil
}

func heureArg(h *Heure) *string {
	if h == nil {
		return nil
	}
	s := h.String()
	return &s
}

func (r *repoPG) Create(ctx context.Context, rv *Rdv) error {
	// rdv_id restarts at 1 for every study.
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO rdv (etude_id, rdv_id, volontaire_id, groupe_id, date, heure, etat, duree, commentaires)
		VALUES ($1,
			COALESCE((SELECT MAX(rdv_id) FROM rdv WHERE etude_id = $1), 0) + 1,
			$2,$3,$4,$5,$6,$7,$8)
		RETURNING rdv_id, created_at, updated_at`,
		rv.EtudeID, rv.VolontaireID, rv.GroupeID, rv.Date, heureArg(rv.Heure),
		string(rv.Etat), rv.Duree, rv.Commentaires).
		Scan(&rv.RdvID, &rv.CreatedAt, &rv.UpdatedAt)
}

func (r *repoPG) Get(ctx context.Context, etudeID, rdvID int) (*Rdv, error) {
	return r.scanRdv(r.conn(ctx).QueryRow(ctx,
		`SELECT `+rdvCols+` FROM rdv WHERE etude_id = $1 AND rdv_id = $2`, etudeID, rdvID))
}

func (r *repoPG) Update(ctx context.Context, rv *Rdv) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE rdv SET volontaire_id=$3, groupe_id=$4, date=$5, heure=$6, etat=$7,
			duree=$8, commentaires=$9, updated_at=NOW()
		WHERE etude_id = $1 AND rdv_id = $2`,
		rv.EtudeID, rv.RdvID, rv.VolontaireID, rv.GroupeID, rv.Date, heureArg(rv.Heure),
		string(rv.Etat), rv.Duree, rv.Commentaires)
	return err
}

func (r *repoPG) Delete(ctx context.Context, etudeID, rdvID int) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM rdv WHERE etude_id = $1 AND rdv_id = $2`, etudeID, rdvID)
	return err
}

func (r *repoPG) FindByDateRange(ctx context.Context, start, end time.Time) ([]*RdvEtude, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT r.etude_id, r.rdv_id, r.volontaire_id, r.groupe_id, r.date, r.heure, r.etat,
			r.duree, r.commentaires, r.created_at, r.updated_at,
			e.id, e.ref, e.titre, e.type, e.capacite, e.date_debut, e.date_fin
		FROM rdv r
		JOIN etude e ON e.id = r.etude_id
		WHERE r.date >= $1 AND r.date <= $2
		ORDER BY r.date, COALESCE(r.heure, '00:00'), r.etude_id, r.rdv_id`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*RdvEtude
	for rows.Next() {
		var re RdvEtude
		err := scanRdvFields(rows, &re.Rdv,
			&re.Etude.ID, &re.Etude.Ref, &re.Etude.Titre, &re.Etude.Type,
			&re.Etude.Capacite, &re.Etude.DateDebut, &re.Etude.DateFin)
		if err != nil {
			return nil, err
		}
		items = append(items, &re)
	}
	return items, rows.Err()
}

func (r *repoPG) FindByEtude(ctx context.Context, etudeID int, limit, offset int) ([]*Rdv, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM rdv WHERE etude_id = $1`, etudeID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+rdvCols+` FROM rdv WHERE etude_id = $1
		ORDER BY date DESC NULLS LAST, COALESCE(heure, '00:00'), rdv_id
		LIMIT $2 OFFSET $3`, etudeID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Rdv
	for rows.Next() {
		rv, err := r.scanRdv(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, rv)
	}
	return items, total, rows.Err()
}

func (r *repoPG) FindAllByEtude(ctx context.Context, etudeID int) ([]*Rdv, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+rdvCols+` FROM rdv WHERE etude_id = $1
		ORDER BY date DESC NULLS LAST, COALESCE(heure, '00:00'), rdv_id`, etudeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Rdv
	for rows.Next() {
		rv, err := r.scanRdv(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, rv)
	}
	return items, rows.Err()
}

func (r *repoPG) FindByEtudeAndDate(ctx context.Context, etudeID int, date time.Time) ([]*Rdv, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+rdvCols+` FROM rdv WHERE etude_id = $1 AND date = $2
		ORDER BY COALESCE(heure, '00:00'), rdv_id`, etudeID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Rdv
	for rows.Next() {
		rv, err := r.scanRdv(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, rv)
	}
	return items, rows.Err()
}

func (r *repoPG) FindByVolontaire(ctx context.Context, volontaireID int, limit, offset int) ([]*Rdv, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM rdv WHERE volontaire_id = $1`, volontaireID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+rdvCols+` FROM rdv WHERE volontaire_id = $1
		ORDER BY date DESC NULLS LAST, COALESCE(heure, '00:00'), etude_id, rdv_id
		LIMIT $2 OFFSET $3`, volontaireID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Rdv
	for rows.Next() {
		rv, err := r.scanRdv(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, rv)
	}
	return items, total, rows.Err()
}
