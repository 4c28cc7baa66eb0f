package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdfbench/kdfbench/internal/harness"
	"github.com/kdfbench/kdfbench/internal/kdf"
	"github.com/kdfbench/kdfbench/internal/util"
)

func TestTuneReachesTarget(t *testing.T) {
	stdout, stderr, err := execute(t, NewTuneCommand(testConfig("text")),
		"--secret", "password", "--iter", "1", "--bits", "256", "--target", "1ns")
	require.NoError(t, err)

	assert.Equal(t, "1", strings.TrimSpace(stdout))
	assert.Contains(t, stderr, "after 1 rounds")
}

func TestTuneCapped(t *testing.T) {
	stdout, _, err := execute(t, NewTuneCommand(testConfig("json")),
		"--secret", "password", "--iter", "1", "--bits", "256",
		"--target", "1h", "--max-iterations", "4", "--backend", "platform")
	require.NoError(t, err)

	var tuned harness.TuneResult
	decodeJSON(t, stdout, &tuned)
	assert.True(t, tuned.Capped)
	assert.Equal(t, 4, tuned.Iterations)
	assert.Equal(t, kdf.KindPlatform, tuned.Backend)
	assert.Equal(t, 2, tuned.Rounds)
}

func TestTuneCappedReportsOnStderr(t *testing.T) {
	conf := testConfig("text")
	conf.Tune.MaxIterations = 2

	stdout, stderr, err := execute(t, NewTuneCommand(conf),
		"--secret", "password", "--iter", "1", "--bits", "256", "--target", "1h")
	require.NoError(t, err)
	assert.Equal(t, "2", strings.TrimSpace(stdout))
	assert.Contains(t, stderr, "capped at 2 iterations")
}

func TestTuneRejectsNonPositiveTarget(t *testing.T) {
	_, _, err := execute(t, NewTuneCommand(testConfig("text")),
		"--secret", "password", "--iter", "1", "--bits", "256", "--target", "0s")
	require.Error(t, err)
	assert.ErrorIs(t, err, kdf.ErrInvalidParameter)
	assert.Equal(t, util.ExitInvalidInput, util.ExitCode(err))
}
