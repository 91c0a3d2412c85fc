// Package mgnifytest provides an in-process fake of the MGnify API for tests.
package mgnifytest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
)

// Study is a fake study.
type Study struct {
	ID       string
	Name     string
	Abstract string
}

// Sample is a fake sample. Metadata entries are key, value, unit.
type Sample struct {
	ID          string
	Name        string
	Description string
	Species     string
	Biome       string
	Studies     []string
	Metadata    [][3]string
}

// Download is a fake artifact. A download with Fail set answers 500. One
// with Truncate set declares twice the length of Body and drops the
// connection after sending it.
type Download struct {
	ID       string
	Label    string
	Body     string
	Fail     bool
	Truncate bool
}

// Analysis is a fake analysis record. With ListDownloadIDs set the
// downloads relationship carries identifiers that are not in included.
type Analysis struct {
	ID              string
	Assembly        string
	Sample          string
	Study           string
	Pipeline        string
	Completed       string
	Downloads       []Download
	ListDownloadIDs bool
}

// Listing is one entry of the /analyses listing. An empty AssemblyID is
// served as a null assembly relationship.
type Listing struct {
	AnalysisID   string
	AssemblyType string
	AssemblyID   string
}

// Server is a running fake API. Register data before starting requests.
type Server struct {
	*httptest.Server

	mu        sync.RWMutex
	analyses  map[string]Analysis
	samples   map[string]Sample
	studies   map[string]Study
	listing   []Listing
	failPages map[int]bool

	requests atomic.Int64
}

// NewServer starts a fake API. Call Close when done.
func NewServer() *Server {
	s := &Server{
		analyses:  make(map[string]Analysis),
		samples:   make(map[string]Sample),
		studies:   make(map[string]Study),
		failPages: make(map[int]bool),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /analyses", s.handleListing)
	mux.HandleFunc("GET /analyses/{id}", s.handleAnalysis)
	mux.HandleFunc("GET /analyses/{id}/downloads", s.handleDownloads)
	mux.HandleFunc("GET /samples/{id}", s.handleSample)
	mux.HandleFunc("GET /samples/{id}/studies", s.handleSampleStudies)
	mux.HandleFunc("GET /studies/{id}", s.handleStudy)
	mux.HandleFunc("GET /files/{analysis}/{id}", s.handleFile)

	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		mux.ServeHTTP(w, r)
	}))

	return s
}

// AddStudy registers studies.
func (s *Server) AddStudy(studies ...Study) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, st := range studies {
		s.studies[st.ID] = st
	}
}

// AddSample registers samples.
func (s *Server) AddSample(samples ...Sample) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sa := range samples {
		s.samples[sa.ID] = sa
	}
}

// AddAnalysis registers analyses.
func (s *Server) AddAnalysis(analyses ...Analysis) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range analyses {
		s.analyses[a.ID] = a
	}
}

// SetListing sets the entries served by /analyses.
func (s *Server) SetListing(entries ...Listing) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listing = entries
}

// FailPage makes listing page n answer 500.
func (s *Server) FailPage(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failPages[n] = true
}

// Requests returns how many requests the server has received.
func (s *Server) Requests() int64 {
	return s.requests.Load()
}

// FileURL is the URL a download is served at.
func (s *Server) FileURL(analysisID, downloadID string) string {
	return s.URL + "/files/" + analysisID + "/" + downloadID
}

func (s *Server) handleListing(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	if page < 1 {
		page = 1
	}

	if size < 1 {
		size = 25
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.failPages[page] {
		http.Error(w, "listing unavailable", http.StatusInternalServerError)

		return
	}

	pages := (len(s.listing) + size - 1) / size
	if pages == 0 {
		pages = 1
	}

	if page > pages {
		http.NotFound(w, r)

		return
	}

	start := (page - 1) * size
	end := min(start+size, len(s.listing))

	data := make([]any, 0, end-start)

	for _, l := range s.listing[start:end] {
		var assembly any
		if l.AssemblyID != "" {
			assembly = map[string]any{"type": l.AssemblyType, "id": l.AssemblyID}
		}

		data = append(data, map[string]any{
			"type": "analysis-jobs",
			"id":   l.AnalysisID,
			"relationships": map[string]any{
				"assembly": map[string]any{"data": assembly},
			},
		})
	}

	writeJSON(w, map[string]any{
		"data": data,
		"meta": map[string]any{
			"pagination": map[string]any{"page": page, "pages": pages, "count": len(s.listing)},
		},
	})
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.analyses[r.PathValue("id")]
	if !ok {
		http.NotFound(w, r)

		return
	}

	relationships := map[string]any{
		"assembly": map[string]any{"data": ident("assemblies", a.Assembly)},
		"sample":   map[string]any{"data": ident("samples", a.Sample)},
		"study":    map[string]any{"data": ident("studies", a.Study)},
		"downloads": map[string]any{
			"links": map[string]any{"related": s.URL + "/analyses/" + a.ID + "/downloads"},
		},
	}

	if a.ListDownloadIDs {
		ids := make([]any, 0, len(a.Downloads))
		for _, d := range a.Downloads {
			ids = append(ids, ident("analysis-downloads", d.ID))
		}

		relationships["downloads"].(map[string]any)["data"] = ids
	}

	var included []any

	if sa, ok := s.samples[a.Sample]; ok {
		included = append(included, s.sampleResource(sa))
	}

	if st, ok := s.studies[a.Study]; ok {
		included = append(included, studyResource(st))
	}

	writeJSON(w, map[string]any{
		"data": map[string]any{
			"type": "analysis-jobs",
			"id":   a.ID,
			"attributes": map[string]any{
				"accession":        a.ID,
				"pipeline-version": a.Pipeline,
				"complete-time":    a.Completed,
			},
			"relationships": relationships,
		},
		"included": included,
	})
}

func (s *Server) handleDownloads(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.analyses[r.PathValue("id")]
	if !ok {
		http.NotFound(w, r)

		return
	}

	data := make([]any, 0, len(a.Downloads))

	for _, d := range a.Downloads {
		data = append(data, map[string]any{
			"type": "analysis-downloads",
			"id":   d.ID,
			"attributes": map[string]any{
				"alias":       d.ID,
				"description": map[string]any{"label": d.Label, "description": d.Label},
			},
			"links": map[string]any{"self": s.FileURL(a.ID, d.ID)},
		})
	}

	writeJSON(w, map[string]any{"data": data, "links": map[string]any{"next": nil}})
}

func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sa, ok := s.samples[r.PathValue("id")]
	if !ok {
		http.NotFound(w, r)

		return
	}

	writeJSON(w, map[string]any{"data": s.sampleResource(sa)})
}

func (s *Server) handleSampleStudies(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sa, ok := s.samples[r.PathValue("id")]
	if !ok {
		http.NotFound(w, r)

		return
	}

	data := make([]any, 0, len(sa.Studies))

	for _, id := range sa.Studies {
		st, ok := s.studies[id]
		if !ok {
			st = Study{ID: id}
		}

		data = append(data, studyResource(st))
	}

	writeJSON(w, map[string]any{"data": data})
}

func (s *Server) handleStudy(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.studies[r.PathValue("id")]
	if !ok {
		http.NotFound(w, r)

		return
	}

	writeJSON(w, map[string]any{"data": studyResource(st)})
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.analyses[r.PathValue("analysis")]
	if !ok {
		http.NotFound(w, r)

		return
	}

	for _, d := range a.Downloads {
		if d.ID != r.PathValue("id") {
			continue
		}

		if d.Fail {
			http.Error(w, "storage unavailable", http.StatusInternalServerError)

			return
		}

		size := len(d.Body)
		if d.Truncate {
			size *= 2
		}

		w.Header().Set("Content-Length", strconv.Itoa(size))
		fmt.Fprint(w, d.Body)

		return
	}

	http.NotFound(w, r)
}

func (s *Server) sampleResource(sa Sample) map[string]any {
	metadata := make([]any, 0, len(sa.Metadata))
	for _, m := range sa.Metadata {
		var unit any
		if m[2] != "" {
			unit = m[2]
		}

		metadata = append(metadata, map[string]any{"key": m[0], "value": m[1], "unit": unit})
	}

	return map[string]any{
		"type": "samples",
		"id":   sa.ID,
		"attributes": map[string]any{
			"accession":       sa.ID,
			"sample-name":     sa.Name,
			"sample-alias":    nil,
			"sample-desc":     sa.Description,
			"species":         sa.Species,
			"latitude":        51.5,
			"longitude":       -0.12,
			"sample-metadata": metadata,
		},
		"relationships": map[string]any{
			"biome": map[string]any{"data": ident("biomes", sa.Biome)},
			"studies": map[string]any{
				"links": map[string]any{"related": s.URL + "/samples/" + sa.ID + "/studies"},
			},
		},
	}
}

func studyResource(st Study) map[string]any {
	return map[string]any{
		"type": "studies",
		"id":   st.ID,
		"attributes": map[string]any{
			"accession":      st.ID,
			"study-name":     st.Name,
			"study-abstract": st.Abstract,
			"samples-count":  1,
			"bioproject":     nil,
		},
	}
}

func ident(typ, id string) any {
	if id == "" {
		return nil
	}

	return map[string]any{"type": typ, "id": id}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/vnd.api+json")
	json.NewEncoder(w).Encode(v) //nolint:errcheck,errchkjson
}
