package etudevolontaire

import (
	"context"

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

const evCols = `etude_id, volontaire_id, groupe_id, statut, num_sujet, iv, paye, created_at, updated_at`

func (r *repoPG) scanEV(row pgx.Row) (*EtudeVolontaire, error) {
	var ev EtudeVolontaire
	err := row.Scan(&ev.EtudeID, &ev.VolontaireID, &ev.GroupeID, &ev.Statut, &ev.NumSujet,
		&ev.IV, &ev.Paye, &ev.CreatedAt, &ev.UpdatedAt)
	return &ev, err
}

func (r *repoPG) Create(ctx context.Context, ev *EtudeVolontaire) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO etude_volontaire (etude_id, volontaire_id, groupe_id, statut, num_sujet, iv, paye)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at`,
		ev.EtudeID, ev.VolontaireID, ev.GroupeID, ev.Statut, ev.NumSujet, ev.IV, ev.Paye).
		Scan(&ev.CreatedAt, &ev.UpdatedAt)
}

func (r *repoPG) Get(ctx context.Context, etudeID, volontaireID int) (*EtudeVolontaire, error) {
	return r.scanEV(r.conn(ctx).QueryRow(ctx,
		`SELECT `+evCols+` FROM etude_volontaire WHERE etude_id = $1 AND volontaire_id = $2`,
		etudeID, volontaireID))
}

func (r *repoPG) UpdateStatut(ctx context.Context, etudeID, volontaireID int, statut string) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE etude_volontaire SET statut = $3, updated_at = NOW()
		WHERE etude_id = $1 AND volontaire_id = $2`, etudeID, volontaireID, statut)
	return err
}

func (r *repoPG) UpdatePaye(ctx context.Context, etudeID, volontaireID int, paye bool) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE etude_volontaire SET paye = $3, updated_at = NOW()
		WHERE etude_id = $1 AND volontaire_id = $2`, etudeID, volontaireID, paye)
	return err
}

func (r *repoPG) Delete(ctx context.Context, etudeID, volontaireID int) error {
	_, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM etude_volontaire WHERE etude_id = $1 AND volontaire_id = $2`, etudeID, volontaireID)
	return err
}

func (r *repoPG) ListByEtude(ctx context.Context, etudeID int, limit, offset int) ([]*EtudeVolontaire, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM etude_volontaire WHERE etude_id = $1`, etudeID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+evCols+` FROM etude_volontaire WHERE etude_id = $1
		ORDER BY num_sujet NULLS LAST, volontaire_id LIMIT $2 OFFSET $3`, etudeID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*EtudeVolontaire
	for rows.Next() {
		ev, err := r.scanEV(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, ev)
	}
	return items, total, rows.Err()
}

func (r *repoPG) ListByVolontaire(ctx context.Context, volontaireID int, limit, offset int) ([]*EtudeVolontaire, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM etude_volontaire WHERE volontaire_id = $1`, volontaireID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+evCols+` FROM etude_volontaire WHERE volontaire_id = $1
		ORDER BY etude_id LIMIT $2 OFFSET $3`, volontaireID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*EtudeVolontaire
	for rows.Next() {
		ev, err := r.scanEV(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, ev)
	}
	return items, total, rows.Err()
}
