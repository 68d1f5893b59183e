package candidate

import "sort"

// Merge builds the union of raw and screened records keyed by id. Raw
// entries form the baseline and screened entries replace matching ids.
// The result is sorted by id so it does not depend on input order.
func Merge(raw, screened []Candidate) []Candidate {
	byID := make(map[string]Candidate, len(raw)+len(screened))
	for _, c := range raw {
		if c.ID == "" {
			continue
		}
		byID[c.ID] = c.Clone()
	}
	for _, c := range screened {
		if c.ID == "" {
			continue
		}
		base, ok := byID[c.ID]
		next := c.Clone()
		if ok && next.Provenance == "" {
			next.Provenance = base.Provenance
		}
		byID[c.ID] = next
	}

	out := make([]Candidate, 0, len(byID))
	for _, c := range byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Overlay folds incoming into existing. Descriptive fields are replaced
// only when incoming has them; score and skill matches only when incoming
// is screened.
func Overlay(existing, incoming Candidate) Candidate {
	out := existing.Clone()
	if incoming.Name != "" {
		out.Name = incoming.Name
	}
	if incoming.Email != "" {
		out.Email = incoming.Email
	}
	if incoming.Phone != "" {
		out.Phone = incoming.Phone
	}
	if len(incoming.Skills) > 0 {
		out.Skills = append([]string(nil), incoming.Skills...)
	}
	if incoming.Education != "" {
		out.Education = incoming.Education
	}
	if incoming.Experience != "" {
		out.Experience = incoming.Experience
	}
	if incoming.IsScreened() {
		out.Score = incoming.Score
		out.SkillMatches = append([]string(nil), incoming.SkillMatches...)
		out.ScoredJobID = incoming.ScoredJobID
	}
	return out
}
