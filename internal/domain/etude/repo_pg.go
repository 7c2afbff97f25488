package etude

import (
	"context"
	"fmt"
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

const etudeCols = `id, ref, titre, type, date_debut, date_fin, capacite, indemnite,
	paye, commentaires, created_at, updated_at`

func (r *repoPG) scanEtude(row pgx.Row) (*Etude, error) {
	var e Etude
	err := row.Scan(&e.ID, &e.Ref, &e.Titre, &e.Type, &e.DateDebut, &e.DateFin,
		&e.Capacite, &e.Indemnite, &e.Paye, &e.Commentaires, &e.CreatedAt, &e.UpdatedAt)
	return &e, err
}

func (r *repoPG) Create(ctx context.Context, e *Etude) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO etude (ref, titre, type, date_debut, date_fin, capacite, indemnite, paye, commentaires)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id, created_at, updated_at`,
		e.Ref, e.Titre, e.Type, e.DateDebut, e.DateFin, e.Capacite, e.Indemnite, e.Paye, e.Commentaires).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id int) (*Etude, error) {
	return r.scanEtude(r.conn(ctx).QueryRow(ctx, `SELECT `+etudeCols+` FROM etude WHERE id = $1`, id))
}

func (r *repoPG) GetByRef(ctx context.Context, ref string) (*Etude, error) {
	return r.scanEtude(r.conn(ctx).QueryRow(ctx, `SELECT `+etudeCols+` FROM etude WHERE ref = $1`, ref))
}

func (r *repoPG) GetByIDs(ctx context.Context, ids []int) ([]*Etude, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+etudeCols+` FROM etude WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Etude
	for rows.Next() {
		e, err := r.scanEtude(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, e *Etude) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE etude SET ref=$2, titre=$3, type=$4, date_debut=$5, date_fin=$6,
			capacite=$7, indemnite=$8, paye=$9, commentaires=$10, updated_at=NOW()
		WHERE id = $1`,
		e.ID, e.Ref, e.Titre, e.Type, e.DateDebut, e.DateFin, e.Capacite, e.Indemnite, e.Paye, e.Commentaires)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id int) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM etude WHERE id = $1`, id)
	return err
}

func (r *repoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Etude, int, error) {
	query := `SELECT ` + etudeCols + ` FROM etude WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM etude WHERE 1=1`
	var args []interface{}
	idx := 1

	if p, ok := params["ref"]; ok {
		query += fmt.Sprintf(` AND ref ILIKE $%d`, idx)
		countQuery += fmt.Sprintf(` AND ref ILIKE $%d`, idx)
		args = append(args, "%"+p+"%")
		idx++
	}
	if p, ok := params["titre"]; ok {
		query += fmt.Sprintf(` AND titre ILIKE $%d`, idx)
		countQuery += fmt.Sprintf(` AND titre ILIKE $%d`, idx)
		args = append(args, "%"+p+"%")
		idx++
	}
	if p, ok := params["type"]; ok {
		query += fmt.Sprintf(` AND type = $%d`, idx)
		countQuery += fmt.Sprintf(` AND type = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["active_le"]; ok {
		query += fmt.Sprintf(` AND date_debut <= $%d AND date_fin >= $%d`, idx, idx)
		countQuery += fmt.Sprintf(` AND date_debut <= $%d AND date_fin >= $%d`, idx, idx)
		args = append(args, p)
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY date_debut DESC NULLS LAST LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Etude
	for rows.Next() {
		e, err := r.scanEtude(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, nil
}

func (r *repoPG) FindOverlapping(ctx context.Context, start, end time.Time) ([]*Etude, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+etudeCols+` FROM etude
		WHERE date_debut <= $2 AND date_fin >= $1
		ORDER BY date_debut, ref`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Etude
	for rows.Next() {
		e, err := r.scanEtude(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}
