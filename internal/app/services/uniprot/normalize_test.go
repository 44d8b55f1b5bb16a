package uniprot

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bioatlas/genesummary/internal/app/domain/gene"
)

func decodeEntry(t *testing.T, raw string) entry {
	t.Helper()
	var e entry
	require.NoError(t, json.Unmarshal([]byte(raw), &e))
	return e
}

const richEntry = `{
  "entryType": "UniProtKB reviewed (Swiss-Prot)",
  "primaryAccession": "P04637",
  "annotationScore": 5.0,
  "organism": {"scientificName": "Homo sapiens", "taxonId": 9606},
  "proteinDescription": {
    "alternativeNames": [
      {"fullName": {"value": "Antigen NY-CO-13"}},
      {"fullName": {"value": "Phosphoprotein p53"}}
    ]
  },
  "genes": [
    {"geneName": {"value": "TP53"}, "synonyms": [{"value": "P53"}]},
    {"geneName": {"value": "SECOND"}, "synonyms": [{"value": "TRP53"}]}
  ],
  "comments": [
    {"commentType": "FUNCTION", "texts": [
      {"value": "Acts as a tumor suppressor (PubMed:9305847) {ECO:0000269|PubMed:9305847}",
       "evidences": [{"evidenceCode": "ECO:0000269", "source": "PubMed", "id": "9305847"}]},
      {"value": "Induces growth arrest",
       "evidences": [{"evidenceCode": "ECO:0000305", "source": {"referenceNumber": 1}}]}
    ]},
    {"commentType": "SUBCELLULAR LOCATION", "subcellularLocations": [
      {"location": {"value": "Nucleus"}},
      {"location": {"value": "Cytoplasm"}},
      {"location": {"value": "Nucleus"}}
    ]},
    {"commentType": "TISSUE SPECIFICITY", "texts": [{"value": "Ubiquitous {ECO:0000303}"}]},
    {"commentType": "INDUCTION", "texts": [{"value": "By DNA damage (PubMed:123)"}]},
    {"commentType": "PTM", "texts": [
      {"value": "Phosphorylated on serines {ECO:0000269|PubMed:456}"},
      {"value": "Acetylated"}
    ]},
    {"commentType": "PTM", "texts": [{"value": "Only the first comment counts"}]}
  ],
  "features": [
    {"type": "Modified residue", "description": "Phosphoserine; by CHEK2",
     "location": {"start": {"value": 20}},
     "evidences": [{"source": "PubMed", "id": "111"}]},
    {"type": "Modified residue", "description": "N6-acetyllysine",
     "location": {"start": {"value": 9}}},
    {"type": "Natural variant", "description": "Found in a patient (in LFS; pathogenic)",
     "location": {"start": {"value": 175}},
     "alternativeSequence": {"originalSequence": "R", "alternativeSequences": ["H"]}},
    {"type": "Natural variant", "description": "Rare polymorphism",
     "location": {"start": {"value": 72}},
     "alternativeSequence": {"originalSequence": "P"}},
    {"type": "Chain", "description": "Cellular tumor antigen p53",
     "location": {"start": {"value": 1}}}
  ],
  "references": [
    {"referenceNumber": 1, "citation": {"title": "A study of growth arrest",
      "citationCrossReferences": [{"database": "PubMed", "id": "777"}]}},
    {"referenceNumber": 2, "citation": {"citationCrossReferences": [{"database": "DOI", "id": "10.1/xyz"}]}}
  ],
  "uniProtKBCrossReferences": [
    {"database": "PDB", "id": "1TUP", "properties": [{"key": "Method", "value": "X-ray"}, {"key": "Resolution", "value": "2.20 A"}]},
    {"database": "PDB", "id": "2OCJ", "properties": [{"key": "Resolution", "value": "N/A"}]},
    {"database": "PDB", "id": "1AIE", "properties": [{"key": "Method", "value": "X-ray"}, {"key": "Resolution", "value": "1.50 A"}]},
    {"database": "Reactome", "id": "R-HSA-69541", "properties": [{"key": "PathwayName", "value": "Stabilization of p53 {ECO:0000304}"}]},
    {"database": "SIGNOR", "id": "P04637"},
    {"database": "Bgee", "id": "ENSG00000141510"},
    {"database": "HPA", "id": "ENSG00000141510-TP53"},
    {"database": "ExpressionAtlas", "id": "ENSG00000141510"},
    {"database": "InterPro", "id": "IPR002117"}
  ],
  "sequence": {"length": 393, "value": "MEEPQSDPSV"}
}`

func TestNormalizeHeader(t *testing.T) {
	s := normalize("tp53", decodeEntry(t, richEntry))

	assert.Equal(t, "TP53", s.GeneSymbol)
	assert.Equal(t, "P04637", s.UniProtAccession)
	assert.Equal(t, "UniProtKB reviewed (Swiss-Prot)", s.EntryStatus)
	assert.Equal(t, "5.0", s.AnnotationScore)
	assert.Equal(t, "Homo sapiens", s.Organism)
	assert.Equal(t, domain.Sequence{Length: 393, Sequence: "MEEPQSDPSV"}, s.Sequence)
}

func TestNormalizeIdentification(t *testing.T) {
	s := normalize("TP53", decodeEntry(t, richEntry))

	assert.Equal(t, "TP53", s.Identification.PrimaryGene)
	assert.Equal(t, []string{"P53", "TRP53"}, s.Identification.Synonyms)
	assert.Equal(t, []string{"Antigen NY-CO-13", "Phosphoprotein p53"}, s.Identification.AlternativeProteinNames)
	assert.Equal(t, 393, s.Identification.Length)
}

func TestNormalizeFunction(t *testing.T) {
	s := normalize("TP53", decodeEntry(t, richEntry))

	assert.Equal(t, "Acts as a tumor suppressor", s.Function.GeneralFunction)
	assert.Equal(t, []domain.FunctionSection{
		{Title: "Note", Content: "Induces growth arrest"},
		{Title: "Subcellular Location", Content: "Nucleus, Cytoplasm"},
	}, s.Function.Subsections)

	// The bare-PubMed evidence is not cited by the entry, so it gets a
	// placeholder title; the numbered evidence resolves to the citation.
	assert.Equal(t, []domain.Citation{
		{PubMedID: "9305847", Title: "PubMed Record 9305847", URL: "https://pubmed.ncbi.nlm.nih.gov/9305847/"},
		{PubMedID: "777", Title: "A study of growth arrest", URL: "https://pubmed.ncbi.nlm.nih.gov/777/"},
	}, s.Function.References)
}

func TestNormalizeExpression(t *testing.T) {
	s := normalize("TP53", decodeEntry(t, richEntry))

	assert.Equal(t, "Ubiquitous", s.Expression.TissueSpecificity)
	assert.Equal(t, "", s.Expression.DevelopmentalStage)
	assert.Equal(t, "By DNA damage", s.Expression.Induction)
	assert.Equal(t, []domain.ExternalLink{
		{Database: "Bgee", URL: "https://bgee.org/?page=gene&gene_id=ENSG00000141510"},
		{Database: "HPA", URL: "https://www.proteinatlas.org/ENSG00000141510-TP53"},
		{Database: "ExpressionAtlas", URL: "https://www.ebi.ac.uk/gxa/genes/ENSG00000141510"},
	}, s.Expression.ExternalLinks)
}

func TestNormalizePTM(t *testing.T) {
	s := normalize("TP53", decodeEntry(t, richEntry))

	assert.Equal(t, "Phosphorylated on serines Acetylated", s.PTM.Description)
	require.Len(t, s.PTM.Sites, 2)

	assert.Equal(t, 9, s.PTM.Sites[0].Position)
	assert.Equal(t, "N6-acetyllysine", s.PTM.Sites[0].Residue)
	assert.Empty(t, s.PTM.Sites[0].References)

	assert.Equal(t, 20, s.PTM.Sites[1].Position)
	assert.Equal(t, "Phosphoserine", s.PTM.Sites[1].Residue)
	assert.Equal(t, "Phosphoserine; by CHEK2", s.PTM.Sites[1].Type)
	assert.Equal(t, []domain.Citation{
		{PubMedID: "111", Title: "PubMed Record 111", URL: "https://pubmed.ncbi.nlm.nih.gov/111/"},
	}, s.PTM.Sites[1].References)

	assert.NotNil(t, s.PTM.ExternalLinks)
	assert.Empty(t, s.PTM.ExternalLinks)
}

func TestNormalizeVariants(t *testing.T) {
	s := normalize("TP53", decodeEntry(t, richEntry))

	require.Len(t, s.Variants, 2)

	assert.Equal(t, 72, s.Variants[0].Position)
	assert.Equal(t, "P", s.Variants[0].From)
	assert.Equal(t, "", s.Variants[0].To)
	assert.Equal(t, "", s.Variants[0].Disease)
	assert.Equal(t, "Unknown", s.Variants[0].ClinicalSignificance)

	assert.Equal(t, 175, s.Variants[1].Position)
	assert.Equal(t, "R", s.Variants[1].From)
	assert.Equal(t, "H", s.Variants[1].To)
	assert.Equal(t, "Found in a patient", s.Variants[1].Disease)
	assert.Equal(t, "Disease", s.Variants[1].ClinicalSignificance)
	assert.Equal(t, "", s.Variants[1].ClinVarID)
	assert.Equal(t, "", s.Variants[1].DbSNPID)
}

func TestNormalizeStructure(t *testing.T) {
	s := normalize("TP53", decodeEntry(t, richEntry))

	require.Len(t, s.Structure.PDBStructures, 3)
	assert.Equal(t, "1AIE", s.Structure.PDBStructures[0].PDBID)
	assert.Equal(t, "1TUP", s.Structure.PDBStructures[1].PDBID)
	assert.Equal(t, "2OCJ", s.Structure.PDBStructures[2].PDBID)

	assert.Equal(t, "X-ray", s.Structure.PDBStructures[2].Method)
	assert.Equal(t, "N/A", s.Structure.PDBStructures[2].Resolution)
	assert.Equal(t, "https://www.rcsb.org/structure/1AIE", s.Structure.PDBStructures[0].Link)
	assert.Equal(t, "https://alphafold.ebi.ac.uk/entry/P04637", s.Structure.AlphaFoldLink)
}

func TestNormalizePathwaysAndLinks(t *testing.T) {
	s := normalize("TP53", decodeEntry(t, richEntry))

	assert.Equal(t, []domain.Pathway{{
		PathwayID:   "R-HSA-69541",
		PathwayName: "Stabilization of p53",
		URL:         "https://reactome.org/PathwayBrowser/#/R-HSA-69541",
	}}, s.Reactome)

	assert.Equal(t, []domain.SignorLink{{
		SignorID: "P04637",
		URL:      "https://signor.uniroma2.it/relation_result.php?id=P04637",
	}}, s.Signor)
}

func TestNormalizePrimaryGeneFirstNonEmptyWins(t *testing.T) {
	e := decodeEntry(t, `{
	  "genes": [
	    {"synonyms": [{"value": "A1"}]},
	    {"geneName": {"value": "ABC1"}}
	  ]
	}`)
	s := normalize("abc1", e)

	assert.Equal(t, "ABC1", s.Identification.PrimaryGene)
	assert.Equal(t, []string{"A1"}, s.Identification.Synonyms)
}

func TestNormalizeAnnotationScoreForms(t *testing.T) {
	withScore := decodeEntry(t, `{"annotationScore": 3}`)
	assert.Equal(t, "3", normalize("x", withScore).AnnotationScore)

	fractional := decodeEntry(t, `{"annotationScore": 4.5}`)
	assert.Equal(t, "4.5", normalize("x", fractional).AnnotationScore)

	missing := decodeEntry(t, `{}`)
	assert.Equal(t, "", normalize("x", missing).AnnotationScore)
}

func TestNormalizeOrganismDefault(t *testing.T) {
	e := decodeEntry(t, `{"organism": {"taxonId": 9606}}`)
	assert.Equal(t, "Homo sapiens", normalize("x", e).Organism)
}

func TestNormalizeEmptySectionsSerializeAsArrays(t *testing.T) {
	s := normalize("x", decodeEntry(t, `{}`))

	raw, err := json.Marshal(s)
	require.NoError(t, err)
	body := string(raw)

	for _, want := range []string{
		`"synonyms":[]`,
		`"alternative_protein_names":[]`,
		`"subsections":[]`,
		`"references":[]`,
		`"external_links":[]`,
		`"sites":[]`,
		`"variants":[]`,
		`"pdb_structures":[]`,
		`"reactome":[]`,
		`"signor":[]`,
	} {
		assert.True(t, strings.Contains(body, want), "document missing %s: %s", want, body)
	}
	assert.False(t, strings.Contains(body, "null"), "document contains null sections: %s", body)
}

func TestNormalizeDocumentFieldOrder(t *testing.T) {
	raw, err := json.Marshal(normalize("x", decodeEntry(t, `{}`)))
	require.NoError(t, err)
	body := string(raw)

	// The document lists structure before sequence.
	assert.Less(t, strings.Index(body, `"structure"`), strings.Index(body, `"sequence"`))
}

func TestMapEvidencesDeduplicatesByPubMedID(t *testing.T) {
	e := decodeEntry(t, `{
	  "comments": [
	    {"commentType": "FUNCTION", "texts": [
	      {"value": "First", "evidences": [
	        {"source": "PubMed", "id": "42"},
	        {"source": "PubMed", "id": "42"},
	        {"source": "Reactome", "id": "R-1"},
	        {"source": {"referenceNumber": 9}}
	      ]}
	    ]}
	  ],
	  "references": [
	    {"referenceNumber": 9, "citation": {"title": "Ninth",
	      "citationCrossReferences": [{"database": "PubMed", "id": "42"}]}}
	  ]
	}`)
	s := normalize("x", e)

	// Identical PubMed ids collapse whether they arrive as bare tags or as
	// numbered references; non-PubMed sources never resolve.
	assert.Equal(t, []domain.Citation{
		{PubMedID: "42", Title: "Ninth", URL: "https://pubmed.ncbi.nlm.nih.gov/42/"},
	}, s.Function.References)
}

func TestReferenceMapTitleDefaults(t *testing.T) {
	e := decodeEntry(t, `{
	  "references": [
	    {"referenceNumber": 1, "citation": {"citationCrossReferences": [{"database": "PubMed", "id": "5"}]}},
	    {"referenceNumber": 2, "citation": {"title": "", "citationCrossReferences": [{"database": "PubMed", "id": "6"}]}}
	  ]
	}`)
	m := buildReferenceMap(e)

	assert.Equal(t, "No title available", m.byNum[1].Title)
	assert.Equal(t, "", m.byNum[2].Title)
	assert.Equal(t, "https://pubmed.ncbi.nlm.nih.gov/5/", m.byID["5"].URL)
}
