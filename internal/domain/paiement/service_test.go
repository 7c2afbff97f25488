package paiement

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Complexity-ML/cosmetest-back-sub001/internal/platform/apperr"
)

type mockRepo struct {
	paiements map[int]*Paiement
	nextID    int
}

func newMockRepo() *mockRepo {
	return &mockRepo{paiements: make(map[int]*Paiement)}
}

func (m *mockRepo) Create(_ context.Context, p *Paiement) error {
	m.nextID++
	p.ID = m.nextID
	m.paiements[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id int) (*Paiement, error) {
	p, ok := m.paiements[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return p, nil
}

func (m *mockRepo) Update(_ context.Context, p *Paiement) error {
	m.paiements[p.ID] = p
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id int) error {
	delete(m.paiements, id)
	return nil
}

func (m *mockRepo) MarkPaid(_ context.Context, id int, when time.Time) error {
	p := m.paiements[id]
	p.Paye = true
	p.DatePaiement = &when
	return nil
}

func (m *mockRepo) ListByEtude(_ context.Context, etudeID, limit, offset int) ([]*Paiement, int, error) {
	var out []*Paiement
	for _, p := range m.paiements {
		if p.EtudeID == etudeID {
			out = append(out, p)
		}
	}
	return out, len(out), nil
}

func (m *mockRepo) ListByVolontaire(_ context.Context, volontaireID, limit, offset int) ([]*Paiement, int, error) {
	var out []*Paiement
	for _, p := range m.paiements {
		if p.VolontaireID == volontaireID {
			out = append(out, p)
		}
	}
	return out, len(out), nil
}

func (m *mockRepo) ListUnpaidByEtude(_ context.Context, etudeID int) ([]*Paiement, error) {
	var out []*Paiement
	for _, p := range m.paiements {
		if p.EtudeID == etudeID && !p.Paye {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockRepo) SummaryByEtude(_ context.Context, etudeID int) (*EtudeSummary, error) {
	sum := &EtudeSummary{EtudeID: etudeID}
	for _, p := range m.paiements {
		if p.EtudeID != etudeID {
			continue
		}
		sum.NbPaiements++
		sum.MontantTotal += p.Montant
		if p.Paye {
			sum.NbPayes++
			sum.MontantPaye += p.Montant
		} else {
			sum.NbEnAttente++
		}
	}
	return sum, nil
}

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	return NewService(repo, nil), repo
}

func TestCreatePaiement(t *testing.T) {
	svc, _ := newTestService()
	p := &Paiement{EtudeID: 1, VolontaireID: 5, Montant: 150}

	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == 0 {
		t.Error("expected an assigned id")
	}
}

func TestCreatePaiementValidation(t *testing.T) {
	svc, _ := newTestService()

	cases := []*Paiement{
		{VolontaireID: 5, Montant: 150},
		{EtudeID: 1, Montant: 150},
		{EtudeID: 1, VolontaireID: 5, Montant: -1},
	}
	for i, p := range cases {
		if err := svc.Create(context.Background(), p); !errors.Is(err, apperr.ErrInvalidInput) {
			t.Errorf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestGetPaiementNotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Get(context.Background(), 99)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMarkPaid(t *testing.T) {
	svc, _ := newTestService()
	p := &Paiement{EtudeID: 1, VolontaireID: 5, Montant: 150}
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	paid, err := svc.MarkPaid(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !paid.Paye || paid.DatePaiement == nil {
		t.Error("expected the payment settled with a date")
	}
}

func TestMarkEtudePaidRequiresPool(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.MarkEtudePaid(context.Background(), 1); err == nil {
		t.Fatal("expected an error without a database pool")
	}
}

func TestSummaryByEtude(t *testing.T) {
	svc, _ := newTestService()
	for _, p := range []*Paiement{
		{EtudeID: 1, VolontaireID: 5, Montant: 100},
		{EtudeID: 1, VolontaireID: 6, Montant: 150},
		{EtudeID: 2, VolontaireID: 5, Montant: 999},
	} {
		if err := svc.Create(context.Background(), p); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if _, err := svc.MarkPaid(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sum, err := svc.SummaryByEtude(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.NbPaiements != 2 || sum.NbPayes != 1 || sum.NbEnAttente != 1 {
		t.Errorf("unexpected counts: %+v", sum)
	}
	if sum.MontantTotal != 250 || sum.MontantPaye != 100 {
		t.Errorf("unexpected amounts: %+v", sum)
	}
}
