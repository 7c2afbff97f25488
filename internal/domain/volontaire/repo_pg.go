package volontaire

import (
	"context"
	"fmt"

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

const volCols = `id, titre, nom, prenom, email, telephone, sexe, date_naissance,
	commentaires, archive, created_at, updated_at`

func (r *repoPG) scanVolontaire(row pgx.Row) (*Volontaire, error) {
	var v Volontaire
	err := row.Scan(&v.ID, &v.Titre, &v.Nom, &v.Prenom, &v.Email, &v.Telephone,
		&v.Sexe, &v.DateNaissance, &v.Commentaires, &v.Archive, &v.CreatedAt, &v.UpdatedAt)
	return &v, err
}

func (r *repoPG) Create(ctx context.Context, v *Volontaire) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO volontaire (titre, nom, prenom, email, telephone, sexe, date_naissance, commentaires)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id, created_at, updated_at`,
		v.Titre, v.Nom, v.Prenom, v.Email, v.Telephone, v.Sexe, v.DateNaissance, v.Commentaires).
		Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id int) (*Volontaire, error) {
	return r.scanVolontaire(r.conn(ctx).QueryRow(ctx, `SELECT `+volCols+` FROM volontaire WHERE id = $1`, id))
}

func (r *repoPG) GetByIDs(ctx context.Context, ids []int) ([]*Volontaire, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+volCols+` FROM volontaire WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Volontaire
	for rows.Next() {
		v, err := r.scanVolontaire(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, v *Volontaire) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE volontaire SET titre=$2, nom=$3, prenom=$4, email=$5, telephone=$6,
			sexe=$7, date_naissance=$8, commentaires=$9, updated_at=NOW()
		WHERE id = $1`,
		v.ID, v.Titre, v.Nom, v.Prenom, v.Email, v.Telephone, v.Sexe, v.DateNaissance, v.Commentaires)
	return err
}

func (r *repoPG) Archive(ctx context.Context, id int) error {
	_, err := r.conn(ctx).Exec(ctx, `UPDATE volontaire SET archive = TRUE, updated_at = NOW() WHERE id = $1`, id)
	return err
}

func (r *repoPG) Restore(ctx context.Context, id int) error {
	_, err := r.conn(ctx).Exec(ctx, `UPDATE volontaire SET archive = FALSE, updated_at = NOW() WHERE id = $1`, id)
	return err
}

func (r *repoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Volontaire, int, error) {
	query := `SELECT ` + volCols + ` FROM volontaire WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM volontaire WHERE 1=1`
	var args []interface{}
	idx := 1

	if p, ok := params["nom"]; ok {
		query += fmt.Sprintf(` AND nom ILIKE $%d`, idx)
		countQuery += fmt.Sprintf(` AND nom ILIKE $%d`, idx)
		args = append(args, "%"+p+"%")
		idx++
	}
	if p, ok := params["prenom"]; ok {
		query += fmt.Sprintf(` AND prenom ILIKE $%d`, idx)
		countQuery += fmt.Sprintf(` AND prenom ILIKE $%d`, idx)
		args = append(args, "%"+p+"%")
		idx++
	}
	if p, ok := params["email"]; ok {
		query += fmt.Sprintf(` AND email = $%d`, idx)
		countQuery += fmt.Sprintf(` AND email = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["archive"]; ok {
		query += fmt.Sprintf(` AND archive = $%d`, idx)
		countQuery += fmt.Sprintf(` AND archive = $%d`, idx)
		args = append(args, p)
		idx++
	} else {
		query += ` AND archive = FALSE`
		countQuery += ` AND archive = FALSE`
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY nom, prenom LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Volontaire
	for rows.Next() {
		v, err := r.scanVolontaire(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, v)
	}
	return items, total, nil
}
