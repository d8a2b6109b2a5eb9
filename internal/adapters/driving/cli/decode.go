package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/firmproto/internal/abi"
	"github.com/custodia-labs/firmproto/internal/protocols/file"
)

var (
	decodeJSON  bool
	decodeYAML  bool
	decodeWatch bool
)

var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Decode an exact-layout record from a binary dump",
	Long: `Decode a record captured from a provider. The declared size field is
checked against the dump and the text is read only up to its terminator
within that size, so a truncated or lying dump is reported, never overrun.`,
}

var decodeInfoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Decode a file Info record",
	Args:  cobra.ExactArgs(1),
	RunE:  watching(runDecodeInfo),
}

var decodeSysinfoCmd = &cobra.Command{
	Use:   "sysinfo <file>",
	Short: "Decode a file SystemInfo record",
	Args:  cobra.ExactArgs(1),
	RunE:  watching(runDecodeSysinfo),
}

var decodeLabelCmd = &cobra.Command{
	Use:   "label <file>",
	Short: "Decode a SystemVolumeLabel record",
	Args:  cobra.ExactArgs(1),
	RunE:  watching(runDecodeLabel),
}

func init() {
	decodeCmd.PersistentFlags().BoolVar(&decodeJSON, "json", false, "output as JSON")
	decodeCmd.PersistentFlags().BoolVar(&decodeYAML, "yaml", false, "output as YAML")
	decodeCmd.PersistentFlags().BoolVar(&decodeWatch, "watch", false, "decode again whenever the dump changes")
	decodeCmd.AddCommand(decodeInfoCmd)
	decodeCmd.AddCommand(decodeSysinfoCmd)
	decodeCmd.AddCommand(decodeLabelCmd)
	rootCmd.AddCommand(decodeCmd)
}

// infoView is the printable form of file.Info.
type infoView struct {
	FileName         string     `json:"file_name" yaml:"file_name"`
	FileSize         uint64     `json:"file_size" yaml:"file_size"`
	PhysicalSize     uint64     `json:"physical_size" yaml:"physical_size"`
	Attribute        string     `json:"attribute" yaml:"attribute"`
	CreateTime       *time.Time `json:"create_time,omitempty" yaml:"create_time,omitempty"`
	LastAccessTime   *time.Time `json:"last_access_time,omitempty" yaml:"last_access_time,omitempty"`
	ModificationTime *time.Time `json:"modification_time,omitempty" yaml:"modification_time,omitempty"`
}

// watching runs a decode once, then again on every change to the dump
// when --watch is set. Decode failures while watching are reported and the
// watch goes on, since a dump is often caught half written.
func watching(run func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if !decodeWatch {
			return run(cmd, args)
		}
		if err := run(cmd, args); err != nil {
			cmd.PrintErrln("error:", err)
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return watchFile(ctx, args[0], func() error {
			cmd.Println("---")
			if err := run(cmd, args); err != nil {
				cmd.PrintErrln("error:", err)
			}
			return nil
		})
	}
}

func runDecodeInfo(cmd *cobra.Command, args []string) error {
	buf, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	info, err := file.DecodeInfo(buf)
	if err != nil {
		return fmt.Errorf("decode info: %w", err)
	}
	v := infoView{
		FileName:         info.FileName,
		FileSize:         info.FileSize,
		PhysicalSize:     info.PhysicalSize,
		Attribute:        info.Attribute.String(),
		CreateTime:       goTime(info.CreateTime),
		LastAccessTime:   goTime(info.LastAccessTime),
		ModificationTime: goTime(info.ModificationTime),
	}
	if ok, err := printStructured(cmd, v); ok {
		return err
	}
	p := newPalette(cmd.OutOrStdout())
	cmd.Printf("%s %q\n", p.Title("file"), v.FileName)
	cmd.Printf("  size:       %d\n", v.FileSize)
	cmd.Printf("  physical:   %d\n", v.PhysicalSize)
	cmd.Printf("  attributes: %s\n", v.Attribute)
	printTime(cmd, p, "created", v.CreateTime)
	printTime(cmd, p, "accessed", v.LastAccessTime)
	printTime(cmd, p, "modified", v.ModificationTime)
	return nil
}

func runDecodeSysinfo(cmd *cobra.Command, args []string) error {
	buf, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	si, err := file.DecodeSystemInfo(buf)
	if err != nil {
		return fmt.Errorf("decode sysinfo: %w", err)
	}
	if ok, err := printStructured(cmd, map[string]any{
		"read_only":    si.ReadOnly,
		"volume_size":  si.VolumeSize,
		"free_space":   si.FreeSpace,
		"block_size":   si.BlockSize,
		"volume_label": si.VolumeLabel,
	}); ok {
		return err
	}
	p := newPalette(cmd.OutOrStdout())
	cmd.Printf("%s %q\n", p.Title("volume"), si.VolumeLabel)
	cmd.Printf("  read-only:  %t\n", si.ReadOnly)
	cmd.Printf("  size:       %d\n", si.VolumeSize)
	cmd.Printf("  free:       %d\n", si.FreeSpace)
	cmd.Printf("  block size: %d\n", si.BlockSize)
	return nil
}

func runDecodeLabel(cmd *cobra.Command, args []string) error {
	buf, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	var l file.SystemVolumeLabel
	if err := l.UnmarshalBinary(buf); err != nil {
		return fmt.Errorf("decode label: %w", err)
	}
	if ok, err := printStructured(cmd, map[string]string{"volume_label": l.VolumeLabel}); ok {
		return err
	}
	cmd.Printf("%q\n", l.VolumeLabel)
	return nil
}

func goTime(t abi.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	gt := t.GoTime()
	return &gt
}

func printTime(cmd *cobra.Command, p *palette, label string, t *time.Time) {
	if t == nil {
		cmd.Printf("  %-11s %s\n", label+":", p.Muted("unset"))
		return
	}
	cmd.Printf("  %-11s %s\n", label+":", t.Format(time.RFC3339))
}

// printStructured writes v as JSON or YAML when either was requested and
// reports whether it did.
func printStructured(cmd *cobra.Command, v any) (bool, error) {
	switch {
	case decodeJSON && decodeYAML:
		return true, errors.New("--json and --yaml cannot be combined")
	case decodeJSON:
		return true, printJSON(cmd, v)
	case decodeYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return true, err
		}
		cmd.Print(string(data))
		return true, nil
	}
	return false, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(data))
	return nil
}
