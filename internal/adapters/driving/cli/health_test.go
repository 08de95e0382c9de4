package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbadmin/internal/core/domain"
)

func TestHealth_Live(t *testing.T) {
	setupTestServices(t)

	out, _, err := execute(t, "", "health")

	require.NoError(t, err)
	assert.Contains(t, out, "Backend: http://backend.test")
	assert.Contains(t, out, "Status: ok")
	assert.NotContains(t, out, simulatedNote)
}

func TestHealth_Simulated(t *testing.T) {
	ts := setupTestServices(t)
	ts.health.res = domain.Simulated(domain.Health{Status: "ok"})

	out, _, err := execute(t, "", "health")

	require.NoError(t, err)
	assert.Contains(t, out, simulatedNote)
}

func TestHealth_TransportFailure(t *testing.T) {
	ts := setupTestServices(t)
	ts.health.err = &domain.TransportError{Op: "GET /health", Cause: assert.AnError}

	_, _, err := execute(t, "", "health")

	require.Error(t, err)
	assert.True(t, domain.IsTransportFailure(err))
}
