package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetupWithoutExporters(t *testing.T) {
	tel, err := Setup(context.Background(), "test:telemetry", Config{})
	require.NoError(t, err)
	require.Nil(t, tel.TracerProvider)
	require.Nil(t, tel.MeterProvider)
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestOtlpHeaders(t *testing.T) {
	conn := OtlpConnConfig{
		HttpEndpoint: "http://localhost:4318",
		Headers:      map[string]string{"x-team": "traces"},
	}
	merged, err := conn.withHeaders(map[string]string{
		"x-team":      "shared",
		"x-api-token": "secret",
	})
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		"x-team":      "traces",
		"x-api-token": "secret",
	}, merged.Headers)
	require.Equal(t, map[string]string{"x-team": "traces"}, conn.Headers)

	merged, err = OtlpConnConfig{}.withHeaders(nil)
	require.NoError(t, err)
	require.Empty(t, merged.Headers)
	require.True(t, merged.empty())
}

func TestSetupForTestingOnce(t *testing.T) {
	first := SetupForTesting(t, "test:telemetry-once")
	defer first()

	second := SetupForTesting(t, "test:telemetry-once")
	second()
	require.True(t, setupTestEnvironments["test:telemetry-once"])
}
