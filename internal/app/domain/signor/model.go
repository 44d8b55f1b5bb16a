// Package signor defines the aggregated signaling-interaction document
// derived from the SIGNOR relation feed.
package signor

// Interaction is one aggregated relation between two entities. Rows sharing
// entities, effect and mechanism collapse into a single interaction carrying
// the best score and the union of supporting publications.
type Interaction struct {
	EntityA   string   `json:"entity_a"`
	TypeA     string   `json:"type_a"`
	IDA       string   `json:"id_a"`
	EntityB   string   `json:"entity_b"`
	TypeB     string   `json:"type_b"`
	IDB       string   `json:"id_b"`
	Effect    string   `json:"effect"`
	Mechanism string   `json:"mechanism"`
	Score     float64  `json:"score"`
	PMIDs     []string `json:"pmids"`
	Sentences []string `json:"sentences"`
	SignorID  string   `json:"signor_id"`
}

// Modification is one distinct modification of the queried protein by an
// upstream modifier.
type Modification struct {
	Modifier  string `json:"modifier"`
	Residue   string `json:"residue"`
	Sequence  string `json:"sequence"`
	Effect    string `json:"effect"`
	Mechanism string `json:"mechanism"`
}

// Summary is the aggregated interaction document for one protein. Slice
// fields are always non-nil so empty sections serialize as empty arrays.
type Summary struct {
	Interactions   []Interaction  `json:"interactions"`
	Modifications  []Modification `json:"modifications"`
	EntityName     string         `json:"entity_name"`
	TotalRelations int            `json:"total_relations"`
}

// Empty returns a summary representing "no relations recorded".
func Empty() Summary {
	return Summary{
		Interactions:  []Interaction{},
		Modifications: []Modification{},
	}
}
