package cmd

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plugdroid.dev/pkg/plugdroid/internal/munge"
)

func TestVersionCmd_Output(t *testing.T) {
	cmd := newVersionCmd()

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())

	output := out.String()
	assert.Contains(t, output, "plugdroid version")
	assert.Contains(t, output, fmt.Sprintf("munge store format\t %d", munge.CurrentVersion))
	assert.Contains(t, output, "go version\t go")
}
