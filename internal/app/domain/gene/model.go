// Package gene defines the normalized gene summary document served and
// cached by the service.
package gene

// Citation points at a PubMed record backing a statement.
type Citation struct {
	PubMedID string `json:"pubmed_id"`
	Title    string `json:"title"`
	URL      string `json:"url"`
}

// Identification names the gene and its protein products.
type Identification struct {
	PrimaryGene             string   `json:"primary_gene"`
	Synonyms                []string `json:"synonyms"`
	AlternativeProteinNames []string `json:"alternative_protein_names"`
	Length                  int      `json:"length"`
}

// FunctionSection is one titled block of curated function commentary.
type FunctionSection struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Function describes what the protein does.
type Function struct {
	GeneralFunction string            `json:"general_function"`
	Subsections     []FunctionSection `json:"subsections"`
	References      []Citation        `json:"references"`
}

// ExternalLink points at an external resource for the gene.
type ExternalLink struct {
	Database string `json:"database"`
	URL      string `json:"url"`
}

// Expression captures where and when the gene is expressed.
type Expression struct {
	TissueSpecificity  string         `json:"tissue_specificity"`
	DevelopmentalStage string         `json:"developmental_stage"`
	Induction          string         `json:"induction"`
	ExternalLinks      []ExternalLink `json:"external_links"`
}

// PTMSite is one post-translationally modified residue.
type PTMSite struct {
	Position   int        `json:"position"`
	Residue    string     `json:"residue"`
	Type       string     `json:"type"`
	References []Citation `json:"references"`
}

// PTM describes post-translational modification of the protein.
type PTM struct {
	Description   string         `json:"description"`
	Sites         []PTMSite      `json:"sites"`
	ExternalLinks []ExternalLink `json:"external_links"`
}

// Variant is one natural sequence variant. ClinVar and dbSNP identifiers are
// reserved fields; the upstream record does not carry them yet.
type Variant struct {
	Position             int        `json:"position"`
	From                 string     `json:"from"`
	To                   string     `json:"to"`
	Description          string     `json:"description"`
	Disease              string     `json:"disease"`
	ClinicalSignificance string     `json:"clinical_significance"`
	References           []Citation `json:"references"`
	ClinVarID            string     `json:"clinvar_id"`
	DbSNPID              string     `json:"dbsnp_id"`
}

// PDBStructure is one experimentally solved structure.
type PDBStructure struct {
	PDBID      string `json:"pdb_id"`
	Method     string `json:"method"`
	Resolution string `json:"resolution"`
	Link       string `json:"link"`
}

// Structure lists solved and predicted structures for the protein.
type Structure struct {
	PDBStructures []PDBStructure `json:"pdb_structures"`
	AlphaFoldLink string         `json:"alphafold_link"`
}

// Sequence carries the canonical protein sequence.
type Sequence struct {
	Length   int    `json:"length"`
	Sequence string `json:"sequence"`
}

// Pathway is one Reactome pathway membership.
type Pathway struct {
	PathwayID   string `json:"pathway_id"`
	PathwayName string `json:"pathway_name"`
	URL         string `json:"url"`
}

// SignorLink points at the gene's relation page in SIGNOR.
type SignorLink struct {
	SignorID string `json:"signor_id"`
	URL      string `json:"url"`
}

// Summary is the normalized gene summary document. Field order matches the
// served JSON; slice fields are always non-nil so empty sections serialize
// as empty arrays.
type Summary struct {
	GeneSymbol       string         `json:"gene_symbol"`
	UniProtAccession string         `json:"uniprot_accession"`
	EntryStatus      string         `json:"entry_status"`
	AnnotationScore  string         `json:"annotation_score"`
	Organism         string         `json:"organism"`
	Identification   Identification `json:"identification"`
	Function         Function       `json:"function"`
	Expression       Expression     `json:"expression"`
	PTM              PTM            `json:"ptm"`
	Variants         []Variant      `json:"variants"`
	Structure        Structure      `json:"structure"`
	Sequence         Sequence       `json:"sequence"`
	Reactome         []Pathway      `json:"reactome"`
	Signor           []SignorLink   `json:"signor"`
}
