package paiement

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

const paiementCols = `id, etude_id, volontaire_id, montant, paye, date_paiement,
	commentaires, created_at, updated_at`

func (r *repoPG) scanPaiement(row pgx.Row) (*Paiement, error) {
	var p Paiement
	err := row.Scan(&p.ID, &p.EtudeID, &p.VolontaireID, &p.Montant, &p.Paye,
		&p.DatePaiement, &p.Commentaires, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Paiement) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO paiement (etude_id, volontaire_id, montant, paye, date_paiement, commentaires)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at, updated_at`,
		p.EtudeID, p.VolontaireID, p.Montant, p.Paye, p.DatePaiement, p.Commentaires).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id int) (*Paiement, error) {
	return r.scanPaiement(r.conn(ctx).QueryRow(ctx, `SELECT `+paiementCols+` FROM paiement WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, p *Paiement) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE paiement SET montant=$2, paye=$3, date_paiement=$4, commentaires=$5, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Montant, p.Paye, p.DatePaiement, p.Commentaires)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id int) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM paiement WHERE id = $1`, id)
	return err
}

func (r *repoPG) MarkPaid(ctx context.Context, id int, when time.Time) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE paiement SET paye = TRUE, date_paiement = $2, updated_at = NOW()
		WHERE id = $1`, id, when)
	return err
}

func (r *repoPG) list(ctx context.Context, where string, key, limit, offset int) ([]*Paiement, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM paiement WHERE `+where, key).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+paiementCols+` FROM paiement WHERE `+where+`
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, key, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Paiement
	for rows.Next() {
		p, err := r.scanPaiement(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

func (r *repoPG) ListByEtude(ctx context.Context, etudeID int, limit, offset int) ([]*Paiement, int, error) {
	return r.list(ctx, `etude_id = $1`, etudeID, limit, offset)
}

func (r *repoPG) ListByVolontaire(ctx context.Context, volontaireID int, limit, offset int) ([]*Paiement, int, error) {
	return r.list(ctx, `volontaire_id = $1`, volontaireID, limit, offset)
}

func (r *repoPG) ListUnpaidByEtude(ctx context.Context, etudeID int) ([]*Paiement, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+paiementCols+` FROM paiement WHERE etude_id = $1 AND paye = FALSE
		ORDER BY id`, etudeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Paiement
	for rows.Next() {
		p, err := r.scanPaiement(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *repoPG) SummaryByEtude(ctx context.Context, etudeID int) (*EtudeSummary, error) {
	s := EtudeSummary{EtudeID: etudeID}
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE paye),
			COUNT(*) FILTER (WHERE NOT paye),
			COALESCE(SUM(montant), 0),
			COALESCE(SUM(montant) FILTER (WHERE paye), 0)
		FROM paiement WHERE etude_id = $1`, etudeID).
		Scan(&s.NbPaiements, &s.NbPayes, &s.NbEnAttente, &s.MontantTotal, &s.MontantPaye)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
