package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCmd(t *testing.T) {
	out := filepath.Join(t.TempDir(), "order.png")
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"token", "ORD-ABC123", "-o", out})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		tokenOut = ""
	})

	require.NoError(t, rootCmd.Execute())
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, `{"orderId":"ORD-ABC123","verify":true}`, lines[0])

	png, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}
