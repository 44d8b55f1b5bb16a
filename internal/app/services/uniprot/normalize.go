package uniprot

import (
	"math"
	"sort"
	"strconv"
	"strings"

	domain "github.com/bioatlas/genesummary/internal/app/domain/gene"
)

// normalize flattens a selected protein record into the summary schema.
// Extraction is deterministic: upstream array order is preserved everywhere
// an order is not explicitly imposed, and every first-wins rule scans in
// upstream order.
func normalize(symbol string, e entry) domain.Summary {
	refs := buildReferenceMap(e)

	return domain.Summary{
		GeneSymbol:       strings.ToUpper(symbol),
		UniProtAccession: e.PrimaryAccession,
		EntryStatus:      e.EntryType,
		AnnotationScore:  e.AnnotationScore.String(),
		Organism:         organismName(e),
		Identification:   extractIdentification(e),
		Function:         extractFunction(e, refs),
		Expression:       extractExpression(e),
		PTM:              extractPTM(e, refs),
		Variants:         extractVariants(e, refs),
		Structure:        extractStructure(e),
		Sequence:         domain.Sequence{Length: e.Sequence.Length, Sequence: e.Sequence.Value},
		Reactome:         extractReactome(e),
		Signor:           extractSignorLinks(e),
	}
}

func organismName(e entry) string {
	if e.Organism.ScientificName != "" {
		return e.Organism.ScientificName
	}
	return "Homo sapiens"
}

func extractIdentification(e entry) domain.Identification {
	altNames := []string{}
	for _, alt := range e.ProteinDescription.AlternativeNames {
		if v := alt.FullName.Value; v != "" {
			altNames = append(altNames, v)
		}
	}

	primary := ""
	synonyms := []string{}
	for _, g := range e.Genes {
		if primary == "" {
			primary = g.GeneName.Value
		}
		for _, syn := range g.Synonyms {
			if syn.Value != "" {
				synonyms = append(synonyms, syn.Value)
			}
		}
	}

	return domain.Identification{
		PrimaryGene:             primary,
		Synonyms:                synonyms,
		AlternativeProteinNames: altNames,
		Length:                  e.Sequence.Length,
	}
}

func extractFunction(e entry, refs referenceMap) domain.Function {
	general := ""
	subsections := []domain.FunctionSection{}
	collected := []domain.Citation{}
	locations := []string{}
	seenNotes := make(map[string]bool)
	seenLocations := make(map[string]bool)

	for _, c := range e.Comments {
		switch c.CommentType {
		case "FUNCTION":
			for _, t := range c.Texts {
				if t.Value != "" {
					cleaned := cleanText(t.Value)
					if general == "" {
						general = cleaned
					} else if !seenNotes[cleaned] {
						subsections = append(subsections, domain.FunctionSection{Title: "Note", Content: cleaned})
						seenNotes[cleaned] = true
					}
				}
				collected = append(collected, refs.mapEvidences(t.Evidences)...)
			}
		case "SUBCELLULAR LOCATION":
			for _, loc := range c.SubcellularLocations {
				if v := loc.Location.Value; v != "" && !seenLocations[v] {
					seenLocations[v] = true
					locations = append(locations, v)
				}
			}
		}
	}

	if len(locations) > 0 {
		subsections = append(subsections, domain.FunctionSection{
			Title:   "Subcellular Location",
			Content: strings.Join(locations, ", "),
		})
	}

	unique := []domain.Citation{}
	seen := make(map[string]bool)
	for _, r := range collected {
		if r.PubMedID == "" || seen[r.PubMedID] {
			continue
		}
		seen[r.PubMedID] = true
		unique = append(unique, r)
	}

	return domain.Function{
		GeneralFunction: general,
		Subsections:     subsections,
		References:      unique,
	}
}

var expressionLinkPrefixes = map[string]string{
	"Bgee":            "https://bgee.org/?page=gene&gene_id=",
	"HPA":             "https://www.proteinatlas.org/",
	"ExpressionAtlas": "https://www.ebi.ac.uk/gxa/genes/",
}

func extractExpression(e entry) domain.Expression {
	var tissue, developmental, induction string

	for _, c := range e.Comments {
		first := ""
		for _, t := range c.Texts {
			if t.Value != "" {
				first = t.Value
				break
			}
		}
		if first == "" {
			continue
		}
		switch c.CommentType {
		case "TISSUE SPECIFICITY":
			tissue = cleanText(first)
		case "DEVELOPMENTAL STAGE":
			developmental = cleanText(first)
		case "INDUCTION":
			induction = cleanText(first)
		}
	}

	links := []domain.ExternalLink{}
	for _, x := range e.CrossReferences {
		prefix, ok := expressionLinkPrefixes[x.Database]
		if !ok {
			continue
		}
		links = append(links, domain.ExternalLink{Database: x.Database, URL: prefix + x.ID})
	}

	return domain.Expression{
		TissueSpecificity:  tissue,
		DevelopmentalStage: developmental,
		Induction:          induction,
		ExternalLinks:      links,
	}
}

func extractPTM(e entry, refs referenceMap) domain.PTM {
	description := ""
	for _, c := range e.Comments {
		if c.CommentType != "PTM" {
			continue
		}
		parts := []string{}
		for _, t := range c.Texts {
			if t.Value != "" {
				parts = append(parts, cleanText(t.Value))
			}
		}
		description = strings.Join(parts, " ")
		break
	}

	sites := []domain.PTMSite{}
	for _, f := range e.Features {
		if f.Type != "Modified residue" {
			continue
		}
		sites = append(sites, domain.PTMSite{
			Position:   f.Location.Start.Value,
			Residue:    residueOf(f.Description),
			Type:       f.Description,
			References: refs.mapEvidences(f.Evidences),
		})
	}
	sort.SliceStable(sites, func(i, j int) bool { return sites[i].Position < sites[j].Position })

	return domain.PTM{
		Description:   description,
		Sites:         sites,
		ExternalLinks: []domain.ExternalLink{},
	}
}

// residueOf keeps the residue name from a modified-residue description such
// as "Phosphoserine; by CK2".
func residueOf(description string) string {
	if i := strings.Index(description, ";"); i >= 0 {
		return description[:i]
	}
	return description
}

func extractVariants(e entry, refs referenceMap) []domain.Variant {
	variants := []domain.Variant{}
	for _, f := range e.Features {
		if f.Type != "Natural variant" {
			continue
		}

		desc := f.Description
		to := ""
		if len(f.AlternativeSequence.AlternativeSequences) > 0 {
			to = f.AlternativeSequence.AlternativeSequences[0]
		}
		disease := ""
		if i := strings.Index(desc, "(in"); i >= 0 {
			disease = strings.TrimSpace(desc[:i])
		}
		significance := "Unknown"
		if lower := strings.ToLower(desc); strings.Contains(lower, "pathogenic") || strings.Contains(lower, "disease") {
			significance = "Disease"
		}

		variants = append(variants, domain.Variant{
			Position:             f.Location.Start.Value,
			From:                 f.AlternativeSequence.OriginalSequence,
			To:                   to,
			Description:          desc,
			Disease:              disease,
			ClinicalSignificance: significance,
			References:           refs.mapEvidences(f.Evidences),
		})
	}
	sort.SliceStable(variants, func(i, j int) bool { return variants[i].Position < variants[j].Position })
	return variants
}

func extractStructure(e entry) domain.Structure {
	alphafold := ""
	if e.PrimaryAccession != "" {
		alphafold = "https://alphafold.ebi.ac.uk/entry/" + e.PrimaryAccession
	}

	type ranked struct {
		structure domain.PDBStructure
		rank      float64
	}
	list := []ranked{}
	for _, x := range e.CrossReferences {
		if x.Database != "PDB" {
			continue
		}
		method, resolution := "", ""
		for _, p := range x.Properties {
			switch p.Key {
			case "Method":
				method = p.Value
			case "Resolution":
				resolution = p.Value
			}
		}
		if method == "" {
			method = "X-ray"
		}
		if resolution == "" {
			resolution = "N/A"
		}
		list = append(list, ranked{
			structure: domain.PDBStructure{
				PDBID:      x.ID,
				Method:     method,
				Resolution: resolution,
				Link:       "https://www.rcsb.org/structure/" + x.ID,
			},
			rank: resolutionRank(resolution),
		})
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].rank < list[j].rank })

	structures := make([]domain.PDBStructure, 0, len(list))
	for _, r := range list {
		structures = append(structures, r.structure)
	}
	return domain.Structure{PDBStructures: structures, AlphaFoldLink: alphafold}
}

// resolutionRank parses the numeric token of a resolution like "2.50 A" so
// sharper structures sort first. Entries without a usable number sort last,
// keeping their upstream order.
func resolutionRank(resolution string) float64 {
	if resolution == "" || resolution == "N/A" {
		return math.Inf(1)
	}
	token := resolution
	if i := strings.Index(token, " "); i >= 0 {
		token = token[:i]
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(token), 64)
	if err != nil {
		return math.Inf(1)
	}
	return v
}

func extractReactome(e entry) []domain.Pathway {
	pathways := []domain.Pathway{}
	for _, x := range e.CrossReferences {
		if x.Database != "Reactome" {
			continue
		}
		name := ""
		for _, p := range x.Properties {
			if p.Key == "PathwayName" {
				name = p.Value
				break
			}
		}
		pathways = append(pathways, domain.Pathway{
			PathwayID:   x.ID,
			PathwayName: cleanText(name),
			URL:         "https://reactome.org/PathwayBrowser/#/" + x.ID,
		})
	}
	return pathways
}

func extractSignorLinks(e entry) []domain.SignorLink {
	links := []domain.SignorLink{}
	for _, x := range e.CrossReferences {
		if x.Database != "SIGNOR" || x.ID == "" {
			continue
		}
		links = append(links, domain.SignorLink{
			SignorID: x.ID,
			URL:      "https://signor.uniroma2.it/relation_result.php?id=" + x.ID,
		})
	}
	return links
}
