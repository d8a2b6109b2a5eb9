package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/firmproto/internal/conformance"
)

var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Run the conformance scenarios against the emulated provider",
	Long: `Run every conformance scenario through the safe wrappers against the
emulated file, serial and pointer providers. The emulated volume is built
from the [emulator] section of the config file.`,
	Args: cobra.NoArgs,
	RunE: runSelftest,
}

func init() {
	rootCmd.AddCommand(selftestCmd)
}

func runSelftest(cmd *cobra.Command, _ []string) error {
	cfg := configStore.Config()
	p := newPalette(cmd.OutOrStdout())

	results := conformance.Run(cfg.VolumeConfig())
	failed := 0
	for _, r := range results {
		if r.Passed() {
			cmd.Printf("%s %s %s\n", p.OK("PASS"), r.Name, p.Muted(r.Duration.String()))
			continue
		}
		failed++
		cmd.Printf("%s %s: %v\n", p.Failure("FAIL"), r.Name, r.Err)
	}
	cmd.Printf("%d/%d scenarios passed\n", len(results)-failed, len(results))
	if failed > 0 {
		return fmt.Errorf("%d scenarios failed", failed)
	}
	return nil
}
