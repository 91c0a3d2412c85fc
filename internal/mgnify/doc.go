// Package mgnify reads analysis records and analysis listings from the
// MGnify REST API.
//
// The API speaks JSON:API. Package dto holds the wire types and converts
// them to the records in package model; this package issues the requests
// and stitches related resources together.
//
// # Analysis Records
//
//	api := mgnify.NewClient(ihttp.NewClient(), config.DefaultAPIBase)
//	record, err := api.Analysis(ctx, "MGYA00585223")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, d := range record.Analysis.Downloads {
//	    fmt.Println(d.Label, d.URL)
//	}
//
// # Listing
//
// AnalysesPage reads one page of /analyses and keeps the analyses that are
// linked to an assembly:
//
//	page, err := api.AnalysesPage(ctx, 1, 1000)
//	fmt.Println(page.Pages, len(page.Refs))
package mgnify
