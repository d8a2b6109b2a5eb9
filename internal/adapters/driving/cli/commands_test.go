package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/firmproto/internal/adapters/driven/emulated"
	"github.com/custodia-labs/firmproto/internal/core/ports/driven"
	"github.com/custodia-labs/firmproto/internal/protocols/file"
)

func TestStatusCmd(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains []string
	}{
		{
			name:     "success",
			args:     []string{"status", "0"},
			contains: []string{"success", "code:     0"},
		},
		{
			name:     "not found on 32-bit provider",
			args:     []string{"status", "--width", "32", "0x8000000E"},
			contains: []string{"error", "not found", "code:     14", "32-bit:   0x8000000e"},
		},
		{
			name:     "delete failure warning",
			args:     []string{"status", "2"},
			contains: []string{"warning", "delete failure"},
		},
		{
			name:     "unknown error code keeps its number",
			args:     []string{"status", "--width", "32", "0x80000063"},
			contains: []string{"unknown code 99"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestStatusCmd_RejectsBadInput(t *testing.T) {
	_, err := execute(t, "status", "banana")
	assert.Error(t, err)

	_, err = execute(t, "status", "--width", "16", "1")
	assert.Error(t, err)

	_, err = execute(t, "status", "--width", "32", "0x100000000")
	assert.Error(t, err)
}

func TestGuidCmd_List(t *testing.T) {
	out, err := execute(t, "guid")
	require.NoError(t, err)
	assert.Contains(t, out, "file-info")
	assert.Contains(t, out, "09576e92-6d3f-11d2-8e39-00a0c969723b")
	assert.Contains(t, out, "simple-pointer")
}

func TestGuidCmd_ShowsWireBytes(t *testing.T) {
	out, err := execute(t, "guid", "09576E92-6D3F-11D2-8E39-00A0C969723B")
	require.NoError(t, err)
	assert.Contains(t, out, "bytes: 926e57093f6dd2118e3900a0c969723b")
	assert.Contains(t, out, "name:  file-info")

	_, err = execute(t, "guid", "not-a-guid")
	assert.Error(t, err)
}

func TestEncodeThenDecodeInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "info.bin")

	out, err := execute(t, "encode", "info", "--name", "bootx64.efi", "--size", "4096",
		"--attr", "read-only,archive", "--modified", "2024-03-01T12:30:00Z", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 104 bytes")

	out, err = execute(t, "decode", "info", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"bootx64.efi"`)
	assert.Contains(t, out, "size:       4096")
	assert.Contains(t, out, "read-only|archive")
	assert.Contains(t, out, "2024-03-01T12:30:00Z")

	out, err = execute(t, "decode", "info", "--json", path)
	require.NoError(t, err)
	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, "bootx64.efi", v["file_name"])
	assert.Nil(t, v["create_time"])
}

func TestEncodeInfo_FixedCapacity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "info.bin")

	_, err := execute(t, "encode", "info", "--name", "a", "--units", "16", "-o", path)
	require.NoError(t, err)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, b, file.InfoHeaderSize+32)

	info, err := file.DecodeInfo(b)
	require.NoError(t, err)
	assert.Equal(t, "a", info.FileName)

	_, err = execute(t, "encode", "info", "--name", "too-long", "--units", "4", "-o", path)
	assert.Error(t, err)
}

func TestDecodeInfo_RejectsTruncatedDump(t *testing.T) {
	info := file.Info{FileName: "kernel"}
	b, err := info.MarshalBinary()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "short.bin")
	require.NoError(t, os.WriteFile(path, b[:len(b)-4], 0600))

	_, err = execute(t, "decode", "info", path)
	assert.Error(t, err)
}

func TestDecodeSysinfoAndLabel(t *testing.T) {
	dir := t.TempDir()
	si := file.SystemInfo{VolumeSize: 1 << 20, FreeSpace: 1000, BlockSize: 512, VolumeLabel: "ESP"}
	b, err := si.MarshalBinary()
	require.NoError(t, err)
	siPath := filepath.Join(dir, "si.bin")
	require.NoError(t, os.WriteFile(siPath, b, 0600))

	out, err := execute(t, "decode", "sysinfo", siPath)
	require.NoError(t, err)
	assert.Contains(t, out, `"ESP"`)
	assert.Contains(t, out, "free:       1000")

	l := file.SystemVolumeLabel{VolumeLabel: "ESP"}
	b, err = l.MarshalBinary()
	require.NoError(t, err)
	lPath := filepath.Join(dir, "label.bin")
	require.NoError(t, os.WriteFile(lPath, b, 0600))

	out, err = execute(t, "decode", "label", "--json", lPath)
	require.NoError(t, err)
	assert.Contains(t, out, `"volume_label": "ESP"`)

	out, err = execute(t, "decode", "sysinfo", "--yaml", siPath)
	require.NoError(t, err)
	var v map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &v))
	assert.Equal(t, "ESP", v["volume_label"])
	assert.Equal(t, 512, v["block_size"])

	_, err = execute(t, "decode", "label", "--json", "--yaml", lPath)
	assert.Error(t, err)
}

func TestSelftestCmd(t *testing.T) {
	out, err := execute(t, "selftest")
	require.NoError(t, err)
	assert.Contains(t, out, "PASS revision gating")
	assert.NotContains(t, out, "FAIL")
	assert.Contains(t, out, "scenarios passed")
}

func TestSerialProbeCmd(t *testing.T) {
	dev := emulated.NewSerial(emulated.SerialConfig{})
	dev.Feed([]byte("OK\r\n"))

	original := openSerial
	openSerial = func(device string) (driven.SerialIO, func() error, error) {
		assert.Equal(t, "/dev/ttyTEST", device)
		return dev, func() error { return nil }, nil
	}
	defer func() { openSerial = original }()

	out, err := execute(t, "serial", "probe", "--device", "/dev/ttyTEST", "--baud", "9600", "--reply", "16")
	require.NoError(t, err)
	assert.Contains(t, out, "9600 baud")
	assert.Contains(t, out, "device type:")
	assert.Contains(t, out, `reply (4 bytes): "OK\r\n"`)
	assert.Equal(t, "AT\r", string(dev.Sent()))
}

func TestSerialProbeCmd_Repeat(t *testing.T) {
	dev := emulated.NewSerial(emulated.SerialConfig{})
	dev.Feed([]byte("OK"))

	original := openSerial
	openSerial = func(string) (driven.SerialIO, func() error, error) {
		return dev, func() error { return nil }, nil
	}
	defer func() { openSerial = original }()

	out, err := execute(t, "serial", "probe", "--repeat", "2", "--interval", "1ms")
	require.NoError(t, err)
	assert.Contains(t, out, `reply (2 bytes): "OK"`)
	assert.Contains(t, out, "no reply")
	assert.Equal(t, "AT\rAT\r", string(dev.Sent()))

	_, err = execute(t, "serial", "probe", "--repeat", "0")
	assert.Error(t, err)
}

func TestConfigCmd_ShowAndInit(t *testing.T) {
	out, err := execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "[emulator]")
	assert.Contains(t, out, "[serial]")

	out, err = execute(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote ")
	_, statErr := os.Stat(configStore.Path())
	assert.NoError(t, statErr)
}
