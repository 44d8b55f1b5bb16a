package uniprot

import (
	domain "github.com/bioatlas/genesummary/internal/app/domain/gene"
)

// referenceMap indexes an entry's citations by reference number and by
// PubMed id, built once per entry so evidence tags resolve in constant time.
type referenceMap struct {
	byNum map[int]domain.Citation
	byID  map[string]domain.Citation
}

func buildReferenceMap(e entry) referenceMap {
	m := referenceMap{
		byNum: make(map[int]domain.Citation),
		byID:  make(map[string]domain.Citation),
	}
	for _, ref := range e.References {
		pubID := ""
		for _, x := range ref.Citation.CitationCrossReferences {
			if x.Database == "PubMed" {
				pubID = x.ID
				break
			}
		}

		title := "No title available"
		if ref.Citation.Title != nil {
			title = *ref.Citation.Title
		}
		info := domain.Citation{PubMedID: pubID, Title: title}
		if pubID != "" {
			info.URL = pubmedURL(pubID)
		}

		if ref.ReferenceNumber != 0 {
			m.byNum[ref.ReferenceNumber] = info
		}
		if pubID != "" {
			m.byID[pubID] = info
		}
	}
	return m
}

func pubmedURL(id string) string {
	return "https://pubmed.ncbi.nlm.nih.gov/" + id + "/"
}

// mapEvidences resolves evidence tags to citations. Numbered tags resolve
// through the entry's reference list; named PubMed tags resolve by id, with
// a placeholder citation synthesized for ids the entry never cites. Each
// PubMed id appears once, in first-encounter order.
func (m referenceMap) mapEvidences(evidences []evidence) []domain.Citation {
	out := []domain.Citation{}
	seen := make(map[string]bool)
	for _, ev := range evidences {
		var (
			ref domain.Citation
			ok  bool
		)
		switch ev.Kind {
		case evidenceNumbered:
			ref, ok = m.byNum[ev.ReferenceNumber]
		case evidenceNamed:
			if ev.SourceName != "PubMed" {
				continue
			}
			ref, ok = m.byID[ev.ID]
			if !ok && ev.ID != "" {
				ref = domain.Citation{
					PubMedID: ev.ID,
					Title:    "PubMed Record " + ev.ID,
					URL:      pubmedURL(ev.ID),
				}
				ok = true
			}
		}
		if !ok || ref.PubMedID == "" || seen[ref.PubMedID] {
			continue
		}
		seen[ref.PubMedID] = true
		out = append(out, ref)
	}
	return out
}
