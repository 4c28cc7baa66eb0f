package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdfbench/kdfbench/internal/kdf"
)

func TestAlgorithmsText(t *testing.T) {
	stdout, _, err := execute(t, NewAlgorithmsCommand(testConfig("text")))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, len(kdf.Algorithms())+1)
	assert.Equal(t, []string{"ALGORITHM", "SOFTWARE", "PLATFORM"}, strings.Fields(lines[0]))

	rows := map[string][]string{}
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		rows[fields[0]] = fields[1:]
	}
	assert.Equal(t, []string{"yes", "yes"}, rows["sha256"])
	assert.Equal(t, []string{"yes", "yes"}, rows["sha1"])
	assert.Equal(t, []string{"yes", "no"}, rows["sha3256"])
	assert.Equal(t, []string{"yes", "no"}, rows["sha224"])
}

func TestAlgorithmsJSON(t *testing.T) {
	stdout, _, err := execute(t, NewAlgorithmsCommand(testConfig("json")))
	require.NoError(t, err)

	var rows []algorithmSupport
	decodeJSON(t, stdout, &rows)
	require.Len(t, rows, len(kdf.Algorithms()))

	var platform int
	for _, row := range rows {
		assert.True(t, row.Software, "software backend covers the whole registry: %s", row.Algorithm)
		if row.Platform {
			platform++
		}
	}
	assert.Equal(t, 4, platform)
}
