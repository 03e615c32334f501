package main_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fwojciec/jobcore"
	main "github.com/fwojciec/jobcore/cmd/jobcore"
	"github.com/fwojciec/jobcore/segment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints sections and metadata from stdin", func(t *testing.T) {
		t.Parallel()

		text := strings.Join([]string{
			"Senior Data Engineer",
			"Location: Berlin, Germany",
			"",
			"## Responsibilities",
			"- Build batch and streaming pipelines",
			"- Own the warehouse data model",
			"",
			"## Requirements",
			"- Strong SQL and Python",
			"- Experience with Airflow",
		}, "\n")
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdin:     strings.NewReader(text),
			Stdout:    stdout,
			Stderr:    stderr,
			Segmenter: segment.NewSegmenter(jobcore.DefaultThresholds()),
		}

		err := (&main.SegmentCmd{File: "-"}).Run(deps)

		require.NoError(t, err)
		output := stdout.String()
		assert.Contains(t, output, "[responsibilities]")
		assert.Contains(t, output, "- Build batch and streaming pipelines")
		assert.Contains(t, output, "Location:    Berlin, Germany")
		assert.Contains(t, output, "Quality:")
	})

	t.Run("rejects an empty document", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdin:  strings.NewReader("  \n"),
			Stdout: stdout,
			Stderr: stderr,
		}

		err := (&main.SegmentCmd{File: "-"}).Run(deps)

		assert.Equal(t, jobcore.EINVALID, jobcore.ErrorCode(err))
		assert.Contains(t, stderr.String(), "empty document")
	})
}
