package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/hrims-stock/pkg/logger"
)

func TestNew_JSONConServiceYComponent(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "info", Service: "hrims-stock", Output: &buf})

	comp := l.Component("inventory")
	comp.Info().Str("item_id", "item-x").Msg("stock recibido")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hrims-stock", line["service"])
	assert.Equal(t, "inventory", line["component"])
	assert.Equal(t, "item-x", line["item_id"])
	assert.Equal(t, "info", line["level"])
}

func TestNew_NivelFiltra(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Level: "warn", Output: &buf})

	l.Info().Msg("descartado")
	assert.Zero(t, buf.Len())

	l.Warn().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestNew_NivelInvalidoUsaInfo(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Level: "verbose", Output: &buf})

	l.Info().Msg("hola")
	assert.Contains(t, buf.String(), "hola")
}
