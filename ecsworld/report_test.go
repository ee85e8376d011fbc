package ecsworld

import (
	"bytes"
	"errors"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReportParallelLogsErrors(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	flags := log.Flags()
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(flags)
	})

	reportParallel("SpawnerSystem", nil)
	assert.Empty(t, buf.String())

	reportParallel("SpawnerSystem", errors.New("body missing"))
	assert.Equal(t, "ecsworld: SpawnerSystem: body missing\n", buf.String())
}
