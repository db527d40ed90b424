package models

// PartyCandidate is static ballot reference data.
type PartyCandidate struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	LogoReference string `json:"logo"`
}

// FindParty returns the candidate with the given id.
func FindParty(parties []PartyCandidate, id int) (PartyCandidate, bool) {
	for _, p := range parties {
		if p.ID == id {
			return p, true
		}
	}
	return PartyCandidate{}, false
}
