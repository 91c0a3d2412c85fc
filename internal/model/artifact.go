package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ArtifactCode is the numeric selector users pass on the command line to
// choose which artifact types to download.
type ArtifactCode int

// ArtifactType describes one entry of the artifact code table.
type ArtifactType struct {
	Code  ArtifactCode
	Label string

	// AliasOf is non-zero when this code selects the same label as another
	// code. Selecting an alias is accepted but reported.
	AliasOf ArtifactCode
}

// ReservedCode is not assigned to any artifact type.
const ReservedCode ArtifactCode = 16

// ArtifactTypes is the fixed code table, ordered by code.
//
// Code 18 used to carry a second "antiSMASH annotation" entry, which made it
// indistinguishable from 17. It is kept as an alias so existing invocations
// keep working.
var ArtifactTypes = []ArtifactType{
	{Code: 1, Label: "Processed contigs"},
	{Code: 2, Label: "Predicted CDS (aa)"},
	{Code: 3, Label: "Predicted ORF (nt)"},
	{Code: 4, Label: "Diamond annotation"},
	{Code: 5, Label: "Complete GO annotation"},
	{Code: 6, Label: "GO slim annotation"},
	{Code: 7, Label: "InterPro matches"},
	{Code: 8, Label: "KEGG orthologues annotation"},
	{Code: 9, Label: "Pfam annotation"},
	{Code: 10, Label: "Contigs encoding SSU rRNA"},
	{Code: 11, Label: "MAPseq SSU assignments"},
	{Code: 12, Label: "OTUs, counts and taxonomic assignments for SSU rRNA"},
	{Code: 13, Label: "Contigs encoding LSU rRNA"},
	{Code: 14, Label: "MAPseq LSU assignments"},
	{Code: 15, Label: "OTUs, counts and taxonomic assignments for LSU rRNA"},
	{Code: 17, Label: "antiSMASH annotation"},
	{Code: 18, Label: "antiSMASH annotation", AliasOf: 17},
	{Code: 19, Label: "Genome Properties annotation"},
	{Code: 20, Label: "KEGG pathway annotation"},
}

var (
	// ErrReservedCode is returned when the reserved code is selected.
	ErrReservedCode = errors.New("artifact code is reserved")

	// ErrUnknownCode is returned for codes outside the table.
	ErrUnknownCode = errors.New("unknown artifact code")
)

// LookupArtifact returns the table entry for code.
func LookupArtifact(code ArtifactCode) (ArtifactType, bool) {
	for _, t := range ArtifactTypes {
		if t.Code == code {
			return t, true
		}
	}

	return ArtifactType{}, false
}

// LabelSet is a set of artifact labels selected for download.
type LabelSet map[string]struct{}

// Contains reports whether label is selected.
func (s LabelSet) Contains(label string) bool {
	_, ok := s[label]

	return ok
}

// Labels returns the selected labels in sorted order.
func (s LabelSet) Labels() []string {
	out := make([]string, 0, len(s))
	for l := range s {
		out = append(out, l)
	}

	sort.Strings(out)

	return out
}

// String returns the labels joined with ", ".
func (s LabelSet) String() string {
	return strings.Join(s.Labels(), ", ")
}

// ParseArtifactCodes converts user supplied codes to the set of labels to
// download.
//
// Unknown and reserved codes are an error. Alias codes are accepted; for each
// one a warning message is returned so the caller can surface it. Duplicate
// selections collapse into one label.
//
// Example:
//
//	labels, warnings, err := ParseArtifactCodes([]int{1, 7, 18})
//	// labels: Processed contigs, InterPro matches, antiSMASH annotation
//	// warnings: ["code 18 is an alias of 17 (antiSMASH annotation)"]
func ParseArtifactCodes(codes []int) (LabelSet, []string, error) {
	labels := make(LabelSet, len(codes))

	var warnings []string

	for _, c := range codes {
		code := ArtifactCode(c)
		if code == ReservedCode {
			return nil, nil, fmt.Errorf("%w: %d", ErrReservedCode, c)
		}

		t, ok := LookupArtifact(code)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %d", ErrUnknownCode, c)
		}

		if t.AliasOf != 0 {
			warnings = append(warnings, fmt.Sprintf("code %d is an alias of %d (%s)", t.Code, t.AliasOf, t.Label))
		}

		labels[t.Label] = struct{}{}
	}

	return labels, warnings, nil
}

// ArtifactHelp renders the code table for command usage text.
func ArtifactHelp() string {
	var b strings.Builder

	for _, t := range ArtifactTypes {
		if t.AliasOf != 0 {
			fmt.Fprintf(&b, "%d: %s (alias of %d)\n", t.Code, t.Label, t.AliasOf)

			continue
		}

		fmt.Fprintf(&b, "%d: %s\n", t.Code, t.Label)
	}

	return b.String()
}
