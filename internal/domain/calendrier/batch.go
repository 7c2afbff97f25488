package calendrier

import (
	"context"
	"fmt"

	"github.com/Complexity-ML/cosmetest-back-sub001/internal/domain/etude"
	"github.com/Complexity-ML/cosmetest-back-sub001/internal/domain/rdv"
	"github.com/Complexity-ML/cosmetest-back-sub001/internal/domain/volontaire"
)

// volontaireIDs extracts the de-duplicated, nil-filtered volunteer ids
// referenced by a batch of appointments.
func volontaireIDs(rdvs []*rdv.Rdv) []int {
	seen := map[int]bool{}
	var ids []int
	for _, r := range rdvs {
		if r.VolontaireID == nil || seen[*r.VolontaireID] {
			continue
		}
		seen[*r.VolontaireID] = true
		ids = append(ids, *r.VolontaireID)
	}
	return ids
}

func etudeIDs(rdvs []*rdv.Rdv) []int {
	seen := map[int]bool{}
	var ids []int
	for _, r := range rdvs {
		if seen[r.EtudeID] {
			continue
		}
		seen[r.EtudeID] = true
		ids = append(ids, r.EtudeID)
	}
	return ids
}

// resolveVolontaires issues one bulk read for the volunteers a batch of
// appointments references. Ids that no longer resolve are simply absent
// from the map; the enrichment step degrades to a nil projection.
func (s *Service) resolveVolontaires(ctx context.Context, rdvs []*rdv.Rdv) (map[int]volontaire.Minimal, error) {
	ids := volontaireIDs(rdvs)
	out := make(map[int]volontaire.Minimal, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	vols, err := s.vols.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve volontaires %v: %w", ids, err)
	}
	for _, v := range vols {
		out[v.ID] = v.ToMinimal()
	}
	if len(out) < len(ids) {
		s.log.Debug().Int("demandes", len(ids)).Int("resolus", len(out)).
			Msg("volontaires partiellement resolus")
	}
	return out, nil
}

func (s *Service) resolveEtudes(ctx context.Context, rdvs []*rdv.Rdv) (map[int]etude.Minimal, error) {
	ids := etudeIDs(rdvs)
	out := make(map[int]etude.Minimal, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	etudes, err := s.etudes.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve etudes %v: %w", ids, err)
	}
	for _, e := range etudes {
		out[e.ID] = e.ToMinimal()
	}
	if len(out) < len(ids) {
		s.log.Debug().Int("demandes", len(ids)).Int("resolus", len(out)).
			Msg("etudes partiellement resolues")
	}
	return out, nil
}
