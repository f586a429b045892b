package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseHeaders(t *testing.T) {
	got := parseHeaders(" api-key = abc ,broken, =x,y=,team=jobs")
	require.Equal(t, map[string]string{"api-key": "abc", "team": "jobs"}, got)
	require.Nil(t, parseHeaders(""))
	require.Nil(t, parseHeaders("nokey"))
}

func TestClampRatio(t *testing.T) {
	require.Equal(t, 0.0, clampRatio(-0.5))
	require.Equal(t, 1.0, clampRatio(3))
	require.Equal(t, 0.25, clampRatio(0.25))
}

func TestInitOTel_DisabledInstallsNothing(t *testing.T) {
	shutdown := InitOTel(context.Background(), nil, OtelConfig{Endpoint: "collector:4318"})
	require.NotNil(t, shutdown)
	require.NoError(t, shutdown(context.Background()))
	require.Nil(t, otelShutdown)
}
