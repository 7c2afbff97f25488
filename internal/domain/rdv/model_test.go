package rdv

import (
	"encoding/json"
	"testing"
)

func TestParseHeure(t *testing.T) {
	cases := []struct {
		in   string
		want Heure
	}{
		{"09:30", Heure{Hour: 9, Minute: 30}},
		{"9:30", Heure{Hour: 9, Minute: 30}},
		{"00:00", Heure{}},
		{"23:59", Heure{Hour: 23, Minute: 59}},
		{" 14:00 ", Heure{Hour: 14}},
	}
	for _, tc := range cases {
		got, err := ParseHeure(tc.in)
		if err != nil {
			t.Errorf("ParseHeure(%q): unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseHeure(%q): expected %v, got %v", tc.in, tc.want, got)
		}
	}
}

func TestParseHeureInvalid(t *testing.T) {
	for _, in := range []string{"", "9", "24:00", "12:60", "-1:00", "ab:cd"} {
		if _, err := ParseHeure(in); err == nil {
			t.Errorf("ParseHeure(%q): expected an error", in)
		}
	}
}

func TestHeureString(t *testing.T) {
	if got := (Heure{Hour: 9, Minute: 5}).String(); got != "09:05" {
		t.Errorf("expected zero-padded 09:05, got %q", got)
	}
}

func TestCompareHeure(t *testing.T) {
	morning := &Heure{Hour: 9}
	evening := &Heure{Hour: 17, Minute: 30}

	if CompareHeure(morning, evening) >= 0 {
		t.Error("09:00 must sort before 17:30")
	}
	if CompareHeure(evening, morning) <= 0 {
		t.Error("17:30 must sort after 09:00")
	}
	if CompareHeure(morning, morning) != 0 {
		t.Error("equal times must compare equal")
	}
	// A nil time reads as midnight.
	if CompareHeure(nil, morning) >= 0 {
		t.Error("nil must sort before 09:00")
	}
	if CompareHeure(nil, nil) != 0 {
		t.Error("two nil times must compare equal")
	}
}

func TestHeureJSON(t *testing.T) {
	data, err := json.Marshal(Heure{Hour: 9, Minute: 30})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `"09:30"` {
		t.Errorf("expected \"09:30\", got %s", data)
	}

	var h Heure
	if err := json.Unmarshal([]byte(`"14:05"`), &h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h != (Heure{Hour: 14, Minute: 5}) {
		t.Errorf("unexpected value: %v", h)
	}
	if err := json.Unmarshal([]byte(`"25:00"`), &h); err == nil {
		t.Error("expected an error for an out-of-range time")
	}
}

func TestParseEtat(t *testing.T) {
	cases := []struct {
		in   string
		want Etat
	}{
		{"CONFIRME", EtatConfirme},
		{"confirmed", EtatConfirme},
		{"ok", EtatConfirme},
		{"ANNULE", EtatAnnule},
		{"cancelled", EtatAnnule},
		{"canceled", EtatAnnule},
		{"COMPLETE", EtatComplete},
		{"termine", EtatComplete},
		{"done", EtatComplete},
		{"EN_ATTENTE", EtatEnAttente},
		// Unknown spellings never fail a row.
		{"", EtatEnAttente},
		{"garbage", EtatEnAttente},
	}
	for _, tc := range cases {
		if got := ParseEtat(tc.in); got != tc.want {
			t.Errorf("ParseEtat(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestEtatValid(t *testing.T) {
	for _, e := range []Etat{EtatConfirme, EtatEnAttente, EtatAnnule, EtatComplete} {
		if !e.Valid() {
			t.Errorf("%q must be valid", e)
		}
	}
	if Etat("PENDING").Valid() {
		t.Error("unknown states must not be valid")
	}
}
