package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/firmproto/internal/protocols/file"
	"github.com/custodia-labs/firmproto/internal/protocols/serial"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("firmproto version %s\n", version)
		cmd.Printf("file protocol up to revision %s, serial I/O up to revision %s\n",
			file.LatestRevision, serial.Revision1p1)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
