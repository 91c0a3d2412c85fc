package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/mgnify-downloader/internal/config"
	"github.com/handiism/mgnify-downloader/internal/mgnify/mgnifytest"
	"github.com/handiism/mgnify-downloader/internal/model"
	"github.com/handiism/mgnify-downloader/internal/output"
)

func newFakeAPI(t *testing.T) *mgnifytest.Server {
	t.Helper()

	srv := mgnifytest.NewServer()
	t.Cleanup(srv.Close)

	srv.AddStudy(mgnifytest.Study{ID: "MGYS1", Name: "Survey"})
	srv.AddSample(mgnifytest.Sample{ID: "ERS1", Studies: []string{"MGYS1"}})
	srv.AddAnalysis(mgnifytest.Analysis{
		ID: "MGYA1", Assembly: "ERZ1", Sample: "ERS1", Study: "MGYS1",
		Downloads: []mgnifytest.Download{{ID: "ERZ1_FASTA.fasta.gz", Label: "Processed contigs", Body: ">c\nA\n"}},
	})
	srv.SetListing(
		mgnifytest.Listing{AnalysisID: "MGYA1", AssemblyType: "assemblies", AssemblyID: "ERZ1"},
		mgnifytest.Listing{AnalysisID: "MGYA2", AssemblyType: "assemblies", AssemblyID: "ERZ2"},
		mgnifytest.Listing{AnalysisID: "MGYA3"},
	)

	t.Setenv(config.EnvAPIBase, srv.URL)

	return srv
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--env-file", ""))

	err := cmd.ExecuteContext(context.Background())

	return out.String(), err
}

func TestFetchCommand(t *testing.T) {
	newFakeAPI(t)

	dir := t.TempDir()
	input := filepath.Join(dir, "ids.txt")
	require.NoError(t, os.WriteFile(input, []byte("MGYA1\nMGYA2\n"), 0600))

	metricsFile := filepath.Join(dir, "fetch.prom")

	out, err := run(t, "fetch", "-i", input, "-d", "1", "-o", dir, "-w", "2", "--metrics-file", metricsFile)
	require.NoError(t, err)

	assert.Contains(t, out, "Analyses fetched")
	assert.Contains(t, out, "Failed analyses:")

	layout := output.NewLayout(dir, time.Now())

	data, err := os.ReadFile(layout.ArtifactPath("MGYA1", "ERZ1_FASTA.fasta.gz"))
	require.NoError(t, err)
	assert.Equal(t, ">c\nA\n", string(data))

	data, err = os.ReadFile(layout.ErrorFile())
	require.NoError(t, err)
	assert.Contains(t, string(data), "MGYA2 not found")

	data, err = os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `mgnify_downloader_analyses_total{outcome="ok"} 1`)
}

func TestFetchCommandErrors(t *testing.T) {
	newFakeAPI(t)

	dir := t.TempDir()
	input := filepath.Join(dir, "ids.txt")
	require.NoError(t, os.WriteFile(input, []byte("MGYA1\n"), 0600))

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{name: "reserved code", args: []string{"fetch", "-i", input, "-d", "16"}, wantErr: model.ErrReservedCode},
		{name: "unknown code", args: []string{"fetch", "-i", input, "-d", "21"}, wantErr: model.ErrUnknownCode},
		{name: "missing input flag", args: []string{"fetch", "-d", "1"}},
		{name: "unreadable input", args: []string{"fetch", "-i", filepath.Join(dir, "absent")}},
		{name: "non-numeric code", args: []string{"fetch", "-i", input, "-d", "1", "contigs"}},
		{name: "reserved code after -d", args: []string{"fetch", "-i", input, "-d", "1", "16"}, wantErr: model.ErrReservedCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, append(tt.args, "-o", t.TempDir())...)
			require.Error(t, err)

			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
			}
		})
	}
}

func TestFetchCommandCodeForms(t *testing.T) {
	srv := newFakeAPI(t)
	srv.AddAnalysis(mgnifytest.Analysis{
		ID: "MGYA4", Assembly: "ERZ4", Sample: "ERS1", Study: "MGYS1",
		Downloads: []mgnifytest.Download{
			{ID: "ERZ4_FASTA.fasta.gz", Label: "Processed contigs", Body: ">c\nA\n"},
			{ID: "ERZ4_IPR.tsv.gz", Label: "InterPro matches", Body: "ERZ4.1\tIPR000001\n"},
			{ID: "ERZ4_GO.csv", Label: "Complete GO annotation", Body: "GO:0000001\n"},
		},
	})

	for _, codes := range [][]string{{"-d", "1", "7"}, {"-d", "1,7"}, {"-d", "1", "-d", "7"}} {
		t.Run(codes[len(codes)-1], func(t *testing.T) {
			dir := t.TempDir()
			input := filepath.Join(dir, "ids.txt")
			require.NoError(t, os.WriteFile(input, []byte("MGYA4\n"), 0600))

			args := append([]string{"fetch", "-i", input, "-o", dir}, codes...)
			_, err := run(t, args...)
			require.NoError(t, err)

			layout := output.NewLayout(dir, time.Now())
			assert.FileExists(t, layout.ArtifactPath("MGYA4", "ERZ4_FASTA.fasta.gz"))
			assert.FileExists(t, layout.ArtifactPath("MGYA4", "ERZ4_IPR.tsv.gz"))
			assert.NoFileExists(t, layout.ArtifactPath("MGYA4", "ERZ4_GO.csv"))
		})
	}
}

func TestSaveConfig(t *testing.T) {
	srv := newFakeAPI(t)

	dir := t.TempDir()
	input := filepath.Join(dir, "ids.txt")
	require.NoError(t, os.WriteFile(input, []byte("MGYA1\n"), 0600))

	path := filepath.Join(dir, "settings.json")

	_, err := run(t, "fetch", "-i", input, "-o", dir, "-w", "2", "--save-config", path)
	require.NoError(t, err)

	saved, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, srv.URL, saved.APIBase)
	assert.Equal(t, 2, saved.MaxConcurrentAnalyses)
	assert.Equal(t, dir, saved.OutputRoot)
}

func TestListCommand(t *testing.T) {
	newFakeAPI(t)

	dir := t.TempDir()

	out, err := run(t, "list", "-p", "2", "--delay", "0", "-o", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Assemblies written")

	data, err := os.ReadFile(output.NewLayout(dir, time.Now()).AssemblyList())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"MGYA1, assemblies, ERZ1", "MGYA2, assemblies, ERZ2"},
		splitLines(string(data)))
}

func splitLines(s string) []string {
	var lines []string

	for _, l := range bytes.Split([]byte(s), []byte("\n")) {
		if len(l) > 0 {
			lines = append(lines, string(l))
		}
	}

	return lines
}
