package etude

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Complexity-ML/cosmetest-back-sub001/internal/platform/apperr"
)

type mockRepo struct {
	etudes map[int]*Etude
	nextID int
}

func newMockRepo() *mockRepo {
	return &mockRepo{etudes: make(map[int]*Etude)}
}

func (m *mockRepo) Create(_ context.Context, e *Etude) error {
	m.nextID++
	e.ID = m.nextID
	m.etudes[e.ID] = e
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id int) (*Etude, error) {
	e, ok := m.etudes[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return e, nil
}

func (m *mockRepo) GetByRef(_ context.Context, ref string) (*Etude, error) {
	for _, e := range m.etudes {
		if e.Ref == ref {
			return e, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockRepo) GetByIDs(_ context.Context, ids []int) ([]*Etude, error) {
	var out []*Etude
	for _, id := range ids {
		if e, ok := m.etudes[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockRepo) Update(_ context.Context, e *Etude) error {
	m.etudes[e.ID] = e
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id int) error {
	delete(m.etudes, id)
	return nil
}

func (m *mockRepo) Search(_ context.Context, _ map[string]string, limit, offset int) ([]*Etude, int, error) {
	var out []*Etude
	for _, e := range m.etudes {
		out = append(out, e)
	}
	return out, len(out), nil
}

func (m *mockRepo) FindOverlapping(_ context.Context, start, end time.Time) ([]*Etude, error) {
	var out []*Etude
	for _, e := range m.etudes {
		if e.Overlaps(start, end) {
			out = append(out, e)
		}
	}
	return out, nil
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) InvalidateAll() { c.calls++ }

func newTestService() (*Service, *mockRepo, *countingInvalidator) {
	repo := newMockRepo()
	inval := &countingInvalidator{}
	return NewService(repo, inval), repo, inval
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dptr(t time.Time) *time.Time { return &t }

func intp(i int) *int { return &i }

func TestCreateEtude(t *testing.T) {
	svc, _, inval := newTestService()
	e := &Etude{Ref: "COS-2024-001", Titre: "Tolerance cutanee"}

	if err := svc.Create(context.Background(), e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.ID == 0 {
		t.Error("expected an assigned id")
	}
	if inval.calls != 1 {
		t.Errorf("expected one cache invalidation, got %d", inval.calls)
	}
}

func TestCreateEtudeRefRequired(t *testing.T) {
	svc, _, _ := newTestService()

	err := svc.Create(context.Background(), &Etude{Titre: "Sans ref"})
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCreateEtudeDuplicateRef(t *testing.T) {
	svc, _, inval := newTestService()
	if err := svc.Create(context.Background(), &Etude{Ref: "COS-1", Titre: "Premiere"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := svc.Create(context.Background(), &Etude{Ref: "COS-1", Titre: "Doublon"})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if inval.calls != 1 {
		t.Error("a rejected create must not invalidate the cache")
	}
}

func TestCreateEtudeInvalidWindow(t *testing.T) {
	svc, _, _ := newTestService()
	e := &Etude{
		Ref:       "COS-1",
		Titre:     "Fenetre inversee",
		DateDebut: dptr(date(2024, 6, 10)),
		DateFin:   dptr(date(2024, 6, 1)),
	}
	err := svc.Create(context.Background(), e)
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUpdateEtudeKeepsOwnRef(t *testing.T) {
	svc, _, _ := newTestService()
	e := &Etude{Ref: "COS-1", Titre: "Etude"}
	if err := svc.Create(context.Background(), e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e.Titre = "Etude renommee"
	if err := svc.Update(context.Background(), e); err != nil {
		t.Fatalf("updating without changing the ref must pass: %v", err)
	}
}

func TestUpdateEtudeRefTaken(t *testing.T) {
	svc, _, _ := newTestService()
	if err := svc.Create(context.Background(), &Etude{Ref: "COS-1", Titre: "Premiere"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	other := &Etude{Ref: "COS-2", Titre: "Seconde"}
	if err := svc.Create(context.Background(), other); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	other.Ref = "COS-1"
	err := svc.Update(context.Background(), other)
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestGetEtudeNotFound(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Get(context.Background(), 99)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	_, err = svc.GetByRef(context.Background(), "ABSENT")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteEtude(t *testing.T) {
	svc, repo, inval := newTestService()
	e := &Etude{Ref: "COS-1", Titre: "Etude"}
	if err := svc.Create(context.Background(), e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Delete(context.Background(), e.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.etudes) != 0 {
		t.Error("expected the study removed")
	}
	if inval.calls != 2 {
		t.Errorf("expected invalidations for create and delete, got %d", inval.calls)
	}
}

func TestFindOverlappingInvalidRange(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.FindOverlapping(context.Background(), date(2024, 6, 10), date(2024, 6, 1))
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestEtudeOverlaps(t *testing.T) {
	e := &Etude{
		DateDebut: dptr(date(2024, 6, 5)),
		DateFin:   dptr(date(2024, 6, 10)),
	}
	if !e.Overlaps(date(2024, 6, 1), date(2024, 6, 5)) {
		t.Error("touching the start bound overlaps")
	}
	if !e.Overlaps(date(2024, 6, 10), date(2024, 6, 30)) {
		t.Error("touching the end bound overlaps")
	}
	if e.Overlaps(date(2024, 6, 11), date(2024, 6, 30)) {
		t.Error("a window after the study must not overlap")
	}
	if e.Overlaps(date(2024, 6, 1), date(2024, 6, 4)) {
		t.Error("a window before the study must not overlap")
	}

	open := &Etude{DateDebut: dptr(date(2024, 6, 5))}
	if !open.Overlaps(date(2030, 1, 1), date(2030, 1, 31)) {
		t.Error("a missing end bound leaves the study open-ended")
	}

	undated := &Etude{}
	if undated.Overlaps(date(2024, 6, 1), date(2024, 6, 30)) {
		t.Error("a study without any date never overlaps")
	}
}

func TestToMinimal(t *testing.T) {
	typ := "usage"
	e := &Etude{
		ID:        3,
		Ref:       "E-3",
		Titre:     "Etude E-3",
		Type:      &typ,
		Capacite:  intp(25),
		DateDebut: dptr(date(2024, 6, 1)),
		DateFin:   dptr(date(2024, 6, 30)),
	}
	m := e.ToMinimal()
	if m.ID != 3 || m.Ref != "E-3" || m.Titre != "Etude E-3" {
		t.Errorf("unexpected projection: %+v", m)
	}
	if m.Type == nil || *m.Type != "usage" {
		t.Error("expected the study type to be carried over")
	}
	if m.Capacite == nil || *m.Capacite != 25 {
		t.Error("expected the subject capacity to be carried over")
	}
	if m.DateDebut == nil || m.DateFin == nil {
		t.Error("expected the date window to be carried over")
	}
}
