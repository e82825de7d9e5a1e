package router

import "sort"

// Recommendation is the lightweight, config-only sibling of a full
// selection: the top-scored static candidate for a task type and up to
// three alternatives, ignoring live history and availability.
type Recommendation struct {
	Provider     string           `json:"provider"`
	Model        string           `json:"model"`
	Reasoning    string           `json:"reasoning"`
	Alternatives []FallbackOption `json:"alternatives"`
}

// Recommend looks up the static profile table only. It is a pure function
// of configuration: same task type, same answer. Returns nil for unknown
// task types.
func Recommend(tt TaskType) *Recommendation {
	profile, ok := LookupProfile(tt)
	if !ok {
		return nil
	}
	cands := profile.Candidates()
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].BaseScore > cands[j].BaseScore
	})

	top := cands[0]
	rec := &Recommendation{
		Provider:  top.Model.Provider(),
		Model:     top.Model.Model(),
		Reasoning: top.Reasoning,
	}
	for _, c := range cands[1:] {
		if len(rec.Alternatives) == 3 {
			break
		}
		rec.Alternatives = append(rec.Alternatives, FallbackOption{
			Provider:  c.Model.Provider(),
			Model:     c.Model.Model(),
			Reasoning: c.Reasoning,
		})
	}
	return rec
}
