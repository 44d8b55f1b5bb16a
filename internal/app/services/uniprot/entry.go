package uniprot

import "encoding/json"

// Wire model for the UniProtKB search response, reduced to the fields the
// normalizer consumes.

type searchResponse struct {
	Results []entry `json:"results"`
}

type entry struct {
	EntryType          string             `json:"entryType"`
	PrimaryAccession   string             `json:"primaryAccession"`
	AnnotationScore    json.Number        `json:"annotationScore"`
	Organism           organism           `json:"organism"`
	ProteinDescription proteinDescription `json:"proteinDescription"`
	Genes              []geneName         `json:"genes"`
	Comments           []comment          `json:"comments"`
	Features           []feature          `json:"features"`
	References         []reference        `json:"references"`
	CrossReferences    []crossReference   `json:"uniProtKBCrossReferences"`
	Sequence           sequenceInfo       `json:"sequence"`
}

type organism struct {
	TaxonID        int    `json:"taxonId"`
	ScientificName string `json:"scientificName"`
}

type proteinDescription struct {
	AlternativeNames []altName `json:"alternativeNames"`
}

type altName struct {
	FullName valueField `json:"fullName"`
}

type valueField struct {
	Value string `json:"value"`
}

type geneName struct {
	GeneName valueField   `json:"geneName"`
	Synonyms []valueField `json:"synonyms"`
}

type comment struct {
	CommentType          string                `json:"commentType"`
	Texts                []commentText         `json:"texts"`
	SubcellularLocations []subcellularLocation `json:"subcellularLocations"`
}

type commentText struct {
	Value     string     `json:"value"`
	Evidences []evidence `json:"evidences"`
}

type subcellularLocation struct {
	Location valueField `json:"location"`
}

type feature struct {
	Type                string          `json:"type"`
	Description         string          `json:"description"`
	Location            featureLocation `json:"location"`
	AlternativeSequence altSequence     `json:"alternativeSequence"`
	Evidences           []evidence      `json:"evidences"`
}

type featureLocation struct {
	Start positionValue `json:"start"`
}

type positionValue struct {
	Value int `json:"value"`
}

type altSequence struct {
	OriginalSequence     string   `json:"originalSequence"`
	AlternativeSequences []string `json:"alternativeSequences"`
}

type reference struct {
	ReferenceNumber int      `json:"referenceNumber"`
	Citation        citation `json:"citation"`
}

// Title is a pointer so an absent title (which gets a placeholder) can be
// told apart from a present empty one.
type citation struct {
	Title                   *string        `json:"title"`
	CitationCrossReferences []citationXref `json:"citationCrossReferences"`
}

type citationXref struct {
	Database string `json:"database"`
	ID       string `json:"id"`
}

type crossReference struct {
	Database   string     `json:"database"`
	ID         string     `json:"id"`
	Properties []property `json:"properties"`
}

type property struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type sequenceInfo struct {
	Length int    `json:"length"`
	Value  string `json:"value"`
}

type evidenceKind int

const (
	evidenceNone evidenceKind = iota
	// evidenceNumbered carries a reference number pointing into the entry's
	// own reference list.
	evidenceNumbered
	// evidenceNamed carries a source database name and an identifier in it.
	evidenceNamed
)

// evidence is one evidence tag. The upstream serializes the source either as
// a structured object with a reference number or as a bare database name
// next to an id; Kind records which form was seen.
type evidence struct {
	Kind            evidenceKind
	ReferenceNumber int
	SourceName      string
	ID              string
}

func (e *evidence) UnmarshalJSON(data []byte) error {
	var wire struct {
		Source json.RawMessage `json:"source"`
		ID     string          `json:"id"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	e.ID = wire.ID

	if len(wire.Source) == 0 {
		e.Kind = evidenceNone
		return nil
	}
	switch wire.Source[0] {
	case '{':
		var src struct {
			ReferenceNumber int `json:"referenceNumber"`
		}
		if err := json.Unmarshal(wire.Source, &src); err != nil {
			return err
		}
		e.Kind = evidenceNumbered
		e.ReferenceNumber = src.ReferenceNumber
	case '"':
		if err := json.Unmarshal(wire.Source, &e.SourceName); err != nil {
			return err
		}
		e.Kind = evidenceNamed
	default:
		e.Kind = evidenceNone
	}
	return nil
}
