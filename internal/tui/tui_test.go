package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/mgnify-downloader/internal/config"
	"github.com/handiism/mgnify-downloader/internal/download"
	"github.com/handiism/mgnify-downloader/internal/model"
)

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()

	next, _ := m.Update(msg)

	updated, ok := next.(Model)
	require.True(t, ok)

	return updated
}

func TestParseCodes(t *testing.T) {
	tests := []struct {
		in           string
		want         []string
		wantWarnings int
		wantErr      bool
	}{
		{in: "", want: []string{}},
		{in: "1 7", want: []string{"InterPro matches", "Processed contigs"}},
		{in: "1,7, 1", want: []string{"InterPro matches", "Processed contigs"}},
		{in: "17 18", want: []string{"antiSMASH annotation"}, wantWarnings: 1},
		{in: "16", wantErr: true},
		{in: "one", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			labels, warnings, err := parseCodes(tt.in)
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, labels.Labels())
			assert.Len(t, warnings, tt.wantWarnings)
		})
	}
}

func TestModel_Input(t *testing.T) {
	m := NewModel(config.DefaultSettings())
	assert.Equal(t, StateInput, m.state)
	assert.Contains(t, m.View(), "Analysis id file:")

	m.inputs[inputPath].SetValue("ids.txt")
	m.inputs[inputCodes].SetValue("16")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, StateInput, m.state)
	require.Error(t, m.inputErr)
	assert.True(t, errors.Is(m.inputErr, model.ErrReservedCode))

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, inputCodes, m.focus)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.True(t, m.verbose)

	m.inputs[inputCodes].SetValue("1 18")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, StateInitializing, m.state)
	assert.NoError(t, m.inputErr)
	require.Len(t, m.logs, 1)
	assert.Equal(t, download.LevelWarning, m.logs[0].Level)
	assert.Contains(t, m.logs[0].Message, "18")
}

func TestModel_Lifecycle(t *testing.T) {
	m := NewModel(config.DefaultSettings())
	m.state = StateInitializing

	m = update(t, m, InitDoneMsg{Err: errors.New("no such file")})
	assert.Equal(t, StateError, m.state)
	assert.Contains(t, m.View(), "no such file")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	assert.Equal(t, StateInput, m.state)
	assert.NoError(t, m.err)

	m.state = StateDownloading
	m = update(t, m, DownloadDoneMsg{Summary: &download.Summary{}})
	assert.Equal(t, StateComplete, m.state)
	assert.Contains(t, m.View(), "Fetch complete")
}

func TestModel_Logs(t *testing.T) {
	m := NewModel(config.DefaultSettings())

	m = update(t, m, ProgressMsg{Event: download.ProgressEvent{Message: "hidden", Level: download.LevelVerbose}})
	assert.Empty(t, m.logs)

	for range maxLogs + 5 {
		m = update(t, m, ProgressMsg{Event: download.ProgressEvent{Message: "Fetched MGYA1", Level: download.LevelSuccess}})
	}

	assert.Len(t, m.logs, maxLogs)
}
