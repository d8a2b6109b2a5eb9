package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/firmproto/internal/core/domain"
)

var statusWidth int

var statusCmd = &cobra.Command{
	Use:   "status <code>",
	Short: "Translate a raw status value",
	Long: `Translate a raw status value as returned by a call table slot.

The value may be decimal or hex (0x...). Use --width 32 for values taken from
a 32-bit provider, whose error bit is bit 31.`,
	Args: cobra.ExactArgs(1),
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().IntVar(&statusWidth, "width", 64, "status width of the provider (32 or 64)")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	raw, err := strconv.ParseUint(args[0], 0, 64)
	if err != nil {
		return fmt.Errorf("invalid status %q: %w", args[0], err)
	}

	var s domain.Status
	switch statusWidth {
	case 32:
		if raw > 0xFFFFFFFF {
			return fmt.Errorf("status %#x does not fit in 32 bits", raw)
		}
		s = domain.StatusFrom32(uint32(raw))
	case 64:
		s = domain.Status(raw)
	default:
		return errors.New("--width must be 32 or 64")
	}

	p := newPalette(cmd.OutOrStdout())
	w, err := domain.Check(s)
	switch {
	case err != nil:
		cmd.Printf("%s %s\n", p.Failure("error"), s)
		var de *domain.Error
		if errors.As(err, &de) {
			cmd.Printf("  kind:     %s\n", de.Kind)
		}
	case !w.IsZero():
		cmd.Printf("%s %s\n", p.Warning("warning"), s)
		if w.Reserved() {
			cmd.Printf("  %s\n", p.Muted("reserved warning band"))
		}
	default:
		cmd.Printf("%s\n", p.OK("success"))
	}
	cmd.Printf("  code:     %d\n", s.Code())
	cmd.Printf("  native:   %#x\n", uint64(s))
	cmd.Printf("  32-bit:   %#08x\n", s.To32())
	return nil
}
