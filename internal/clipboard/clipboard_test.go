package clipboard

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOSC52_EmitsEscapePayload(t *testing.T) {
	var buf bytes.Buffer
	writer := &OSC52{Out: &buf}

	require.NoError(t, writer.Copy("abc-key"))
	// base64("abc-key") == "YWJjLWtleQ=="
	require.Equal(t, "\x1b]52;c;YWJjLWtleQ==\x07", buf.String())
}

func TestMemory_RecordsCopies(t *testing.T) {
	writer := &Memory{}
	require.NoError(t, writer.Copy("one"))
	require.NoError(t, writer.Copy("two"))
	require.Equal(t, []string{"one", "two"}, writer.Texts())
}
