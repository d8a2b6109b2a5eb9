package cli

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// execute runs the root command with args against a config file in a
// temporary directory and returns the output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	verboseFlag = false
	statusWidth = 64
	decodeJSON, decodeYAML, decodeWatch = false, false, false
	encodeName, encodeSize, encodeAttr, encodeUnits, encodeOutput, encodeModified = "", 0, "archive", 0, "", ""
	probeDevice, probeBaud, probeText, probeReply = "", 0, "AT\r", 256
	probeRepeat, probeEvery = 1, time.Second

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	cfg := filepath.Join(t.TempDir(), "config.toml")
	rootCmd.SetArgs(append([]string{"--config", cfg}, args...))
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCmd_Use(t *testing.T) {
	require.Equal(t, "firmproto", rootCmd.Use)
	require.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
	require.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
}
