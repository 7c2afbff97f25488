package etudevolontaire

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/Complexity-ML/cosmetest-back-sub001/internal/platform/apperr"
)

type evKey struct{ etudeID, volontaireID int }

type mockRepo struct {
	rows map[evKey]*EtudeVolontaire
}

func newMockRepo() *mockRepo {
	return &mockRepo{rows: make(map[evKey]*EtudeVolontaire)}
}

func (m *mockRepo) Create(_ context.Context, ev *EtudeVolontaire) error {
	m.rows[evKey{ev.EtudeID, ev.VolontaireID}] = ev
	return nil
}

func (m *mockRepo) Get(_ context.Context, etudeID, volontaireID int) (*EtudeVolontaire, error) {
	ev, ok := m.rows[evKey{etudeID, volontaireID}]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return ev, nil
}

func (m *mockRepo) UpdateStatut(_ context.Context, etudeID, volontaireID int, statut string) error {
	m.rows[evKey{etudeID, volontaireID}].Statut = statut
	return nil
}

func (m *mockRepo) UpdatePaye(_ context.Context, etudeID, volontaireID int, paye bool) error {
	m.rows[evKey{etudeID, volontaireID}].Paye = paye
	return nil
}

func (m *mockRepo) Delete(_ context.Context, etudeID, volontaireID int) error {
	delete(m.rows, evKey{etudeID, volontaireID})
	return nil
}

func (m *mockRepo) ListByEtude(_ context.Context, etudeID, limit, offset int) ([]*EtudeVolontaire, int, error) {
	var out []*EtudeVolontaire
	for _, ev := range m.rows {
		if ev.EtudeID == etudeID {
			out = append(out, ev)
		}
	}
	return out, len(out), nil
}

func (m *mockRepo) ListByVolontaire(_ context.Context, volontaireID, limit, offset int) ([]*EtudeVolontaire, int, error) {
	var out []*EtudeVolontaire
	for _, ev := range m.rows {
		if ev.VolontaireID == volontaireID {
			out = append(out, ev)
		}
	}
	return out, len(out), nil
}

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	return NewService(repo), repo
}

func TestEnroll(t *testing.T) {
	svc, repo := newTestService()
	ev := &EtudeVolontaire{EtudeID: 1, VolontaireID: 5}

	if err := svc.Enroll(context.Background(), ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Statut != StatutInscrit {
		t.Errorf("expected INSCRIT default, got %q", ev.Statut)
	}
	if len(repo.rows) != 1 {
		t.Errorf("expected 1 enrollment, got %d", len(repo.rows))
	}
}

func TestEnrollKeepsAttributes(t *testing.T) {
	svc, repo := newTestService()
	groupe, iv := 3, 12
	ev := &EtudeVolontaire{EtudeID: 1, VolontaireID: 5, GroupeID: &groupe, IV: &iv}

	if err := svc.Enroll(context.Background(), ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored := repo.rows[evKey{1, 5}]
	if stored.GroupeID == nil || *stored.GroupeID != 3 {
		t.Error("expected the group assignment to be stored")
	}
	if stored.IV == nil || *stored.IV != 12 {
		t.Error("expected the indemnity to be stored")
	}
	if stored.Paye {
		t.Error("a new enrollment starts unpaid")
	}
}

func TestMarkPaye(t *testing.T) {
	svc, _ := newTestService()
	if err := svc.Enroll(context.Background(), &EtudeVolontaire{EtudeID: 1, VolontaireID: 5}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ev, err := svc.MarkPaye(context.Background(), 1, 5, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ev.Paye {
		t.Error("expected the enrollment to be marked paid")
	}

	_, err = svc.MarkPaye(context.Background(), 1, 9, true)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEnrollDuplicate(t *testing.T) {
	svc, _ := newTestService()
	if err := svc.Enroll(context.Background(), &EtudeVolontaire{EtudeID: 1, VolontaireID: 5}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := svc.Enroll(context.Background(), &EtudeVolontaire{EtudeID: 1, VolontaireID: 5})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestEnrollMissingIDs(t *testing.T) {
	svc, _ := newTestService()

	err := svc.Enroll(context.Background(), &EtudeVolontaire{VolontaireID: 5})
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	err = svc.Enroll(context.Background(), &EtudeVolontaire{EtudeID: 1})
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestEnrollInvalidStatut(t *testing.T) {
	svc, _ := newTestService()

	err := svc.Enroll(context.Background(), &EtudeVolontaire{EtudeID: 1, VolontaireID: 5, Statut: "INVITE"})
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestChangeStatut(t *testing.T) {
	svc, _ := newTestService()
	if err := svc.Enroll(context.Background(), &EtudeVolontaire{EtudeID: 1, VolontaireID: 5}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ev, err := svc.ChangeStatut(context.Background(), 1, 5, StatutRetenu)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Statut != StatutRetenu {
		t.Errorf("expected RETENU, got %q", ev.Statut)
	}
}

func TestChangeStatutInvalid(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.ChangeStatut(context.Background(), 1, 5, "INVITE")
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestChangeStatutNotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.ChangeStatut(context.Background(), 1, 5, StatutRetenu)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	svc, repo := newTestService()
	if err := svc.Enroll(context.Background(), &EtudeVolontaire{EtudeID: 1, VolontaireID: 5}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Remove(context.Background(), 1, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.rows) != 0 {
		t.Error("expected the enrollment removed")
	}

	err := svc.Remove(context.Background(), 1, 5)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on the second remove, got %v", err)
	}
}
