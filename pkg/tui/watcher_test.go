package tui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chanSender chan tea.Msg

func (c chanSender) Send(msg tea.Msg) { c <- msg }

func TestWatchedFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"/d/fitness-activities.json", true},
		{"/d/trackline.db", true},
		{"/d/trackline.db-wal", true},
		{"/d/trackline.log", false},
		{"/d/.fitness-activities-123.tmp", false},
		{"/d/config.yaml", false},
	}
	for _, tt := range tests {
		t.Run(filepath.Base(tt.name), func(t *testing.T) {
			assert.Equal(t, tt.want, watchedFile(tt.name))
		})
	}
}

func TestWatcherSendsReload(t *testing.T) {
	dir := t.TempDir()
	sent := make(chanSender, 10)

	cleanup, err := StartWatcher(dir, sent)
	require.NoError(t, err)
	defer cleanup()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "trackline.log"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fitness-milestones.json"), []byte("[]"), 0o644))

	select {
	case msg := <-sent:
		assert.Equal(t, ReloadMsg{}, msg)
	case <-time.After(2 * time.Second):
		t.Fatal("no reload sent")
	}
}
