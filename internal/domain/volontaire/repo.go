package volontaire

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, v *Volontaire) error
	GetByID(ctx context.Context, id int) (*Volontaire, error)
	GetByIDs(ctx context.Context, ids []int) ([]*Volontaire, error)
	Update(ctx context.Context, v *Volontaire) error
	Archive(ctx context.Context, id int) error
	Restore(ctx context.Context, id int) error
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Volontaire, int, error)
}
