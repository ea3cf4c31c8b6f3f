package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/floatdesk/internal/config"
)

func TestSettingsForm_RoundTrip(t *testing.T) {
	cfg := config.DefaultConfig()
	f := newSettingsForm(cfg)

	edited := cloneConfig(cfg)
	require.NoError(t, f.apply(edited))
	assert.Empty(t, RenderDiff(cfg, edited))
	assert.Equal(t, []string{"cascade", "columns", "grid", "master-stack", "rows"}, f.arrangements)
}

func TestSettingsForm_AppliesAnswers(t *testing.T) {
	cfg := config.DefaultConfig()
	f := newSettingsForm(cfg)
	f.fSnapThreshold = "44"
	f.fCellHeight = "20"
	f.fActiveBorder = "33"
	f.fArrangement = "columns"
	f.fLogLevel = "debug"
	f.fAutosave = false

	edited := cloneConfig(cfg)
	require.NoError(t, f.apply(edited))
	assert.Equal(t, 44, edited.Window.SnapThreshold)
	assert.Equal(t, 20, edited.Terminal.CellHeight)
	assert.Equal(t, "33", edited.Theme.ActiveBorder)
	assert.Equal(t, "columns", edited.Tiling.Arrangement)
	assert.Equal(t, "debug", edited.Logging.Level)
	assert.False(t, edited.Store.Autosave)
	// The original is untouched.
	assert.Equal(t, 20, cfg.Window.SnapThreshold)
}

func TestSettingsForm_RejectsInvalid(t *testing.T) {
	cfg := config.DefaultConfig()

	f := newSettingsForm(cfg)
	f.fGap = "wide"
	assert.Error(t, f.apply(cloneConfig(cfg)))

	f = newSettingsForm(cfg)
	f.fDefaultHeight = "100"
	err := f.apply(cloneConfig(cfg))
	var verr *config.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "window.default_height", verr.Path)
}

func TestIntField(t *testing.T) {
	v := intField(1)
	assert.NoError(t, v("3"))
	assert.Error(t, v("0"))
	assert.Error(t, v("x"))
}
