package etude

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, e *Etude) error
	GetByID(ctx context.Context, id int) (*Etude, error)
	GetByRef(ctx context.Context, ref string) (*Etude, error)
	GetByIDs(ctx context.Context, ids []int) ([]*Etude, error)
	Update(ctx context.Context, e *Etude) error
	Delete(ctx context.Context, id int) error
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Etude, int, error)
	// FindOverlapping returns the studies whose window intersects
	// [start, end], bounds inclusive.
	FindOverlapping(ctx context.Context, start, end time.Time) ([]*Etude, error)
}
