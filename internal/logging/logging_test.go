package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	t.Setenv("CAPPLAN_ENV", "")
	var buf bytes.Buffer
	log := New(&buf, "store", "debug")

	log.Debug().Str("schedule_id", "abc").Msg("saved")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "store", line["component"])
	assert.Equal(t, "abc", line["schedule_id"])
	assert.Equal(t, "debug", line["level"])
}

func TestNewLevelFallback(t *testing.T) {
	t.Setenv("CAPPLAN_ENV", "")
	var buf bytes.Buffer
	log := New(&buf, "cli", "loud")

	log.Debug().Msg("hidden")
	assert.Empty(t, buf.String())
	log.Info().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}
