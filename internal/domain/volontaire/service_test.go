package volontaire

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/Complexity-ML/cosmetest-back-sub001/internal/platform/apperr"
)

type mockRepo struct {
	vols   map[int]*Volontaire
	nextID int
}

func newMockRepo() *mockRepo {
	return &mockRepo{vols: make(map[int]*Volontaire)}
}

func (m *mockRepo) Create(_ context.Context, v *Volontaire) error {
	m.nextID++
	v.ID = m.nextID
	m.vols[v.ID] = v
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id int) (*Volontaire, error) {
	v, ok := m.vols[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return v, nil
}

func (m *mockRepo) GetByIDs(_ context.Context, ids []int) ([]*Volontaire, error) {
	var out []*Volontaire
	for _, id := range ids {
		if v, ok := m.vols[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *mockRepo) Update(_ context.Context, v *Volontaire) error {
	m.vols[v.ID] = v
	return nil
}

func (m *mockRepo) Archive(_ context.Context, id int) error {
	m.vols[id].Archive = true
	return nil
}

func (m *mockRepo) Restore(_ context.Context, id int) error {
	m.vols[id].Archive = false
	return nil
}

func (m *mockRepo) Search(_ context.Context, _ map[string]string, limit, offset int) ([]*Volontaire, int, error) {
	var out []*Volontaire
	for _, v := range m.vols {
		out = append(out, v)
	}
	return out, len(out), nil
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) InvalidateAll() { c.calls++ }

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	return NewService(repo, &countingInvalidator{}), repo
}

func TestCreateVolontaire(t *testing.T) {
	svc, _ := newTestService()
	v := &Volontaire{Nom: "Martin", Prenom: "Claire"}

	if err := svc.Create(context.Background(), v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.ID == 0 {
		t.Error("expected an assigned id")
	}
}

func TestCreateVolontaireNomRequired(t *testing.T) {
	svc, _ := newTestService()

	err := svc.Create(context.Background(), &Volontaire{Prenom: "Claire"})
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCreateVolontairePrenomRequired(t *testing.T) {
	svc, _ := newTestService()

	err := svc.Create(context.Background(), &Volontaire{Nom: "Martin"})
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestGetVolontaireNotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Get(context.Background(), 99)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetByIDsSkipsMissing(t *testing.T) {
	svc, _ := newTestService()
	if err := svc.Create(context.Background(), &Volontaire{Nom: "Martin", Prenom: "Claire"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := svc.GetByIDs(context.Background(), []int{1, 99})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Errorf("missing ids must be absent, not errors; got %d rows", len(out))
	}
}

func TestArchiveAndRestore(t *testing.T) {
	svc, repo := newTestService()
	v := &Volontaire{Nom: "Martin", Prenom: "Claire"}
	if err := svc.Create(context.Background(), v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Archive(context.Background(), v.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.vols[v.ID].Archive {
		t.Error("expected the volunteer archived")
	}

	if err := svc.Restore(context.Background(), v.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.vols[v.ID].Archive {
		t.Error("expected the volunteer restored")
	}
}

func TestUpdateInvalidatesCache(t *testing.T) {
	repo := newMockRepo()
	inval := &countingInvalidator{}
	svc := NewService(repo, inval)

	v := &Volontaire{Nom: "Martin", Prenom: "Claire"}
	if err := svc.Create(context.Background(), v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inval.calls != 0 {
		t.Error("creating a volunteer must not invalidate cached payloads")
	}

	v.Nom = "Martin-Durand"
	if err := svc.Update(context.Background(), v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inval.calls != 1 {
		t.Errorf("expected one cache invalidation after update, got %d", inval.calls)
	}
}

func TestArchiveNotFound(t *testing.T) {
	svc, _ := newTestService()

	err := svc.Archive(context.Background(), 99)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
