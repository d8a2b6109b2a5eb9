package cli

import (
	"encoding/hex"
	"sort"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/firmproto/internal/abi"
	"github.com/custodia-labs/firmproto/internal/core/domain"
	"github.com/custodia-labs/firmproto/internal/protocols/file"
	"github.com/custodia-labs/firmproto/internal/protocols/pointer"
	"github.com/custodia-labs/firmproto/internal/protocols/serial"
)

// knownGuids names the GUIDs this tool understands.
var knownGuids = map[string]domain.Guid{
	"file-info":                file.InfoID,
	"file-system-info":         file.SystemInfoID,
	"file-system-volume-label": file.SystemVolumeLabelID,
	"serial-io":                serial.ProtocolGUID,
	"serial-terminal":          serial.TerminalDeviceTypeGUID,
	"simple-pointer":           pointer.ProtocolGUID,
}

var guidCmd = &cobra.Command{
	Use:   "guid [name|guid]",
	Short: "List known GUIDs or show the wire bytes of one",
	Long: `Without arguments, list the GUIDs of the supported protocols and info
records. With a name or a GUID in registry form, print it together with its
16 wire bytes (first three fields little-endian).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGuid,
}

func init() {
	rootCmd.AddCommand(guidCmd)
}

func runGuid(cmd *cobra.Command, args []string) error {
	p := newPalette(cmd.OutOrStdout())
	if len(args) == 0 {
		names := make([]string, 0, len(knownGuids))
		for name := range knownGuids {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			cmd.Printf("%-26s %s\n", p.Title(name), knownGuids[name])
		}
		return nil
	}

	g, ok := knownGuids[args[0]]
	if !ok {
		var err error
		g, err = abi.ParseGuid(args[0])
		if err != nil {
			return err
		}
	}
	b := g.Bytes()
	cmd.Printf("guid:  %s\n", abi.FormatGuid(g))
	cmd.Printf("bytes: %s\n", hex.EncodeToString(b[:]))
	for name, known := range knownGuids {
		if known == g {
			cmd.Printf("name:  %s\n", name)
		}
	}
	return nil
}
