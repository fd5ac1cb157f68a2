package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitError_MessageAndUnwrap(t *testing.T) {
	base := errors.New("boom")
	err := WrapExitError(ExitCommandError, "load model", base)
	assert.Equal(t, "load model: boom", err.Error())
	assert.ErrorIs(t, err, base)

	plain := NewExitError(ExitGateFailure, "2 quality gate(s) failed")
	assert.Equal(t, "2 quality gate(s) failed", plain.Error())
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitGateFailure, GetExitCode(NewExitError(ExitGateFailure, "gate")))
	assert.Equal(t, ExitCommandError, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitGateFailure,
		GetExitCode(fmt.Errorf("wrapped: %w", NewExitError(ExitGateFailure, "gate"))))
}

func TestOutputFormatter_EmitAddsTrailingNewline(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf}

	require.NoError(t, f.Emit("no newline"))
	assert.Equal(t, "no newline\n", buf.String())

	buf.Reset()
	require.NoError(t, f.Emit("has newline\n"))
	assert.Equal(t, "has newline\n", buf.String())
}

func TestOutputFormatter_VerboseLogGoesToErrWriter(t *testing.T) {
	var out, errOut bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &out, ErrWriter: &errOut, Verbose: true}

	f.VerboseLog("loaded %d nodes", 3)
	assert.Empty(t, out.String(), "diagnostics must not pollute stdout")
	assert.Equal(t, "loaded 3 nodes\n", errOut.String())
}

func TestOutputFormatter_VerboseLogSilentByDefault(t *testing.T) {
	var out bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &out}
	f.VerboseLog("should not appear")
	assert.Empty(t, out.String())
}

func TestOutputFormatter_EmitJSON(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}
	require.NoError(t, f.EmitJSON(map[string]string{"expr": "a<b"}))
	assert.Contains(t, buf.String(), `"expr": "a<b"`, "HTML escaping stays off")
}
