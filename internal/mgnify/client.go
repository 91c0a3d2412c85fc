package mgnify

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	ihttp "github.com/handiism/mgnify-downloader/internal/http"
	"github.com/handiism/mgnify-downloader/internal/mgnify/dto"
	"github.com/handiism/mgnify-downloader/internal/model"
)

// maxLinkedPages bounds how many "next" links are followed when listing the
// members of a relationship.
const maxLinkedPages = 100

// Client reads analyses, samples and studies from the MGnify API.
//
// Example usage:
//
//	api := mgnify.NewClient(ihttp.NewClient(), config.DefaultAPIBase)
//
//	record, err := api.Analysis(ctx, "MGYA00585223")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(record.Analysis.AssemblyAccession, record.Sample.BiomeLineage)
type Client struct {
	http *ihttp.Client
	base string
}

// NewClient creates a Client for the API rooted at base, e.g.
// "https://www.ebi.ac.uk/metagenomics/api/v1".
func NewClient(httpClient *ihttp.Client, base string) *Client {
	return &Client{
		http: httpClient,
		base: strings.TrimRight(base, "/"),
	}
}

// Record is an analysis together with its linked sample and study.
type Record struct {
	Analysis *model.Analysis
	Sample   *model.Sample
	Study    *model.Study
}

// Analysis retrieves one analysis with its sample, study and downloads.
//
// The analysis is requested with include=sample,study so a single request
// usually suffices. Members that the document does not embed are fetched
// from their own endpoints:
//   - downloads from the relationship's related link
//   - a sample or study missing from "included" from /samples/{id} or /studies/{id}
//   - sample study accessions from the sample's studies link
//
// Any failure is returned as is; errors from the HTTP layer keep their
// ihttp.Kind.
func (c *Client) Analysis(ctx context.Context, id string) (*Record, error) {
	var doc dto.Document
	if err := c.http.GetJSON(ctx, c.url("analyses", id)+"?include=sample,study", &doc); err != nil {
		return nil, err
	}

	analysis, err := dto.ToAnalysis(&doc.Data)
	if err != nil {
		return nil, err
	}

	analysis.Downloads, err = c.downloads(ctx, &doc)
	if err != nil {
		return nil, fmt.Errorf("downloads of %s: %w", id, err)
	}

	record := &Record{Analysis: analysis}

	if analysis.SampleAccession != "" {
		record.Sample, err = c.sample(ctx, &doc, analysis.SampleAccession)
		if err != nil {
			return nil, fmt.Errorf("sample %s of %s: %w", analysis.SampleAccession, id, err)
		}
	}

	if analysis.StudyAccession != "" {
		record.Study, err = c.study(ctx, &doc, analysis.StudyAccession)
		if err != nil {
			return nil, fmt.Errorf("study %s of %s: %w", analysis.StudyAccession, id, err)
		}
	}

	return record, nil
}

// Page is one page of the analyses listing.
type Page struct {
	Number int
	Pages  int
	Count  int

	// Refs holds one entry per listed analysis that has an assembly.
	Refs []model.AssemblyRef
}

// AnalysesPage retrieves page number (1-based) of the analyses listing.
func (c *Client) AnalysesPage(ctx context.Context, number, size int) (*Page, error) {
	u := fmt.Sprintf("%s/analyses?page=%d&page_size=%d", c.base, number, size)

	var coll dto.Collection
	if err := c.http.GetJSON(ctx, u, &coll); err != nil {
		return nil, err
	}

	page := &Page{
		Number: coll.Meta.Pagination.Page,
		Pages:  coll.Meta.Pagination.Pages,
		Count:  coll.Meta.Pagination.Count,
	}

	if page.Number == 0 {
		page.Number = number
	}

	for i := range coll.Data {
		ref, err := dto.ToAssemblyRef(&coll.Data[i])
		if err != nil {
			return nil, err
		}

		if ref != nil {
			page.Refs = append(page.Refs, *ref)
		}
	}

	return page, nil
}

func (c *Client) downloads(ctx context.Context, doc *dto.Document) ([]model.Download, error) {
	rel := doc.Data.Relationship("downloads")

	ids, embedded, err := rel.Many()
	if err != nil {
		return nil, err
	}

	if embedded {
		downloads, complete, err := includedDownloads(doc, ids)
		if err != nil || complete {
			return downloads, err
		}
	}

	link := rel.Links.Related
	if link == "" {
		link = c.url("analyses", doc.Data.ID, "downloads")
	}

	resources, err := c.collect(ctx, link)
	if err != nil {
		return nil, err
	}

	downloads := make([]model.Download, 0, len(resources))

	for i := range resources {
		d, err := dto.ToDownload(&resources[i])
		if err != nil {
			return nil, err
		}

		downloads = append(downloads, d)
	}

	return downloads, nil
}

// includedDownloads resolves download identifiers against the included
// resources. It reports false when any of them is missing.
func includedDownloads(doc *dto.Document, ids []dto.Identifier) ([]model.Download, bool, error) {
	downloads := make([]model.Download, 0, len(ids))

	for _, ident := range ids {
		r := doc.Find(ident)
		if r == nil {
			return nil, false, nil
		}

		d, err := dto.ToDownload(r)
		if err != nil {
			return nil, false, err
		}

		downloads = append(downloads, d)
	}

	return downloads, true, nil
}

func (c *Client) sample(ctx context.Context, doc *dto.Document, id string) (*model.Sample, error) {
	r := doc.Find(dto.Identifier{Type: "samples", ID: id})
	if r == nil {
		var sdoc dto.Document
		if err := c.http.GetJSON(ctx, c.url("samples", id), &sdoc); err != nil {
			return nil, err
		}

		r = &sdoc.Data
	}

	sample, err := dto.ToSample(r)
	if err != nil {
		return nil, err
	}

	rel := r.Relationship("studies")
	if _, embedded, _ := rel.Many(); embedded || rel.Links.Related == "" {
		return sample, nil
	}

	studies, err := c.collect(ctx, rel.Links.Related)
	if err != nil {
		return nil, err
	}

	for _, s := range studies {
		sample.StudyAccessions = append(sample.StudyAccessions, s.ID)
	}

	return sample, nil
}

func (c *Client) study(ctx context.Context, doc *dto.Document, id string) (*model.Study, error) {
	r := doc.Find(dto.Identifier{Type: "studies", ID: id})
	if r == nil {
		var sdoc dto.Document
		if err := c.http.GetJSON(ctx, c.url("studies", id), &sdoc); err != nil {
			return nil, err
		}

		r = &sdoc.Data
	}

	return dto.ToStudy(r)
}

// collect follows a listing and its "next" links and returns every resource.
func (c *Client) collect(ctx context.Context, link string) ([]dto.Resource, error) {
	var out []dto.Resource

	for i := 0; link != "" && i < maxLinkedPages; i++ {
		var coll dto.Collection
		if err := c.http.GetJSON(ctx, link, &coll); err != nil {
			return nil, err
		}

		out = append(out, coll.Data...)
		link = coll.Links.Next
	}

	return out, nil
}

func (c *Client) url(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}

	return c.base + "/" + strings.Join(escaped, "/")
}
