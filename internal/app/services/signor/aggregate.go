package signor

import (
	"math"
	"sort"
	"strconv"
	"strings"

	domain "github.com/bioatlas/genesummary/internal/app/domain/signor"
)

// The feed carries 28 tab-separated columns per relation. Lines with fewer
// than 22 columns are malformed and dropped; lines between 22 and 28 are
// padded with empty trailing columns.
const (
	columnCount    = 28
	minColumnCount = 22

	maxSentences = 3
)

// row is one parsed feed line. Only the columns the summary uses are named.
type row struct {
	EntityA   string // column 0
	TypeA     string // column 1
	IDA       string // column 2
	EntityB   string // column 4
	TypeB     string // column 5
	IDB       string // column 6
	Effect    string // column 8
	Mechanism string // column 9
	Residue   string // column 10
	Sequence  string // column 11
	PMID      string // column 21
	Sentence  string // column 25
	SignorID  string // column 26
	Score     string // column 27
}

func parseRows(text string) []row {
	if text == "" {
		return nil
	}
	var rows []row
	for _, line := range strings.Split(text, "\n") {
		parts := strings.Split(line, "\t")
		if len(parts) < minColumnCount {
			continue
		}
		for len(parts) < columnCount {
			parts = append(parts, "")
		}
		rows = append(rows, row{
			EntityA:   parts[0],
			TypeA:     parts[1],
			IDA:       parts[2],
			EntityB:   parts[4],
			TypeB:     parts[5],
			IDB:       parts[6],
			Effect:    parts[8],
			Mechanism: parts[9],
			Residue:   parts[10],
			Sequence:  parts[11],
			PMID:      parts[21],
			Sentence:  parts[25],
			SignorID:  parts[26],
			Score:     parts[27],
		})
	}
	return rows
}

func aggregate(rows []row, accession string) domain.Summary {
	return domain.Summary{
		Interactions:   buildInteractions(rows),
		Modifications:  buildModifications(rows, accession),
		EntityName:     entityName(rows, accession),
		TotalRelations: len(rows),
	}
}

// entityName resolves the display name of the queried protein from the
// first row that mentions its accession on either side.
func entityName(rows []row, accession string) string {
	for _, r := range rows {
		if r.IDA == accession {
			return r.EntityA
		}
		if r.IDB == accession {
			return r.EntityB
		}
	}
	return accession
}

type groupKey struct {
	entityA, entityB, effect, mechanism string
}

// buildInteractions collapses rows sharing (entity_a, entity_b, effect,
// mechanism) into one interaction per group. Descriptive fields and the
// relation id come from the group's first row; the score is the group
// maximum; PMIDs are deduplicated and each new PMID may contribute its
// sentence. Results sort by score descending, equal scores keeping
// first-encounter order.
func buildInteractions(rows []row) []domain.Interaction {
	type group struct {
		first     row
		score     float64
		pmids     map[string]bool
		sentences []string
	}
	groups := make(map[groupKey]*group)
	order := make([]groupKey, 0)

	for _, r := range rows {
		key := groupKey{r.EntityA, r.EntityB, r.Effect, r.Mechanism}
		score := safeFloat(r.Score)

		g, ok := groups[key]
		if !ok {
			g = &group{first: r, score: score, pmids: make(map[string]bool)}
			groups[key] = g
			order = append(order, key)
		} else if score > g.score {
			g.score = score
		}

		pmid := strings.TrimSpace(r.PMID)
		if pmid != "" && !g.pmids[pmid] {
			g.pmids[pmid] = true
			if sentence := strings.TrimSpace(r.Sentence); sentence != "" {
				g.sentences = append(g.sentences, sentence)
			}
		}
	}

	out := make([]domain.Interaction, 0, len(order))
	for _, key := range order {
		g := groups[key]

		pmids := make([]string, 0, len(g.pmids))
		for pmid := range g.pmids {
			pmids = append(pmids, pmid)
		}
		sort.Strings(pmids)

		sentences := g.sentences
		if len(sentences) > maxSentences {
			sentences = sentences[:maxSentences]
		}
		if sentences == nil {
			sentences = []string{}
		}

		out = append(out, domain.Interaction{
			EntityA:   g.first.EntityA,
			TypeA:     g.first.TypeA,
			IDA:       g.first.IDA,
			EntityB:   g.first.EntityB,
			TypeB:     g.first.TypeB,
			IDB:       g.first.IDB,
			Effect:    g.first.Effect,
			Mechanism: g.first.Mechanism,
			Score:     round3(g.score),
			PMIDs:     pmids,
			Sentences: sentences,
			SignorID:  g.first.SignorID,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// buildModifications lists the distinct modification sites where the queried
// protein is the target and both residue and mechanism are recorded.
func buildModifications(rows []row, accession string) []domain.Modification {
	type modKey struct {
		modifier, residue, mechanism string
	}
	seen := make(map[modKey]bool)
	mods := make([]domain.Modification, 0)

	for _, r := range rows {
		if r.IDB != accession {
			continue
		}
		residue := strings.TrimSpace(r.Residue)
		mechanism := strings.TrimSpace(r.Mechanism)
		if residue == "" || mechanism == "" {
			continue
		}

		key := modKey{r.EntityA, residue, mechanism}
		if seen[key] {
			continue
		}
		seen[key] = true

		mods = append(mods, domain.Modification{
			Modifier:  r.EntityA,
			Residue:   residue,
			Sequence:  strings.TrimSpace(r.Sequence),
			Effect:    strings.TrimSpace(r.Effect),
			Mechanism: mechanism,
		})
	}
	return mods
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func safeFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
