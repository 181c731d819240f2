package main

import (
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <dump>",
		Short: "Validate a dump header and report basic metadata",
		Long: `The info command validates a minidump file and displays basic metadata
including capture time, stream directory contents, and system information.

Example:
  dmpctl info crash.dmp
  dmpctl info crash.dmp --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args)
		},
	}
	return cmd
}

func runInfo(args []string) error {
	dumpPath := args[0]

	d, err := openDump(dumpPath)
	if err != nil {
		return err
	}
	defer d.Close()

	info := d.Info()

	if jsonOut {
		out := map[string]interface{}{
			"file":        dumpPath,
			"version":     info.Version,
			"streamCount": info.StreamCount,
			"captureTime": d.CaptureTime(),
			"flags":       info.Flags,
		}
		if si := d.SystemInfo(); si != nil {
			out["systemInfo"] = si
		}
		return printJSON(out)
	}

	printInfo("\nDump Information:\n")
	printInfo("  File: %s\n", dumpPath)
	if stat, err := os.Stat(dumpPath); err == nil {
		printInfo("  Size: %d bytes\n", stat.Size())
	}
	printInfo("  Version: 0x%08X\n", info.Version)
	printInfo("  Captured: %s\n", d.CaptureTime().Format("2006-01-02 15:04:05 MST"))
	printInfo("  Flags: 0x%016X\n", info.Flags)

	if si := d.SystemInfo(); si != nil {
		printInfo("\nSystem:\n")
		printInfo("  Architecture: %s\n", si.Arch())
		printInfo("  OS Version: %d.%d.%d\n", si.MajorVersion, si.MinorVersion, si.BuildNumber)
		if si.CSDVersion != "" {
			printInfo("  Service Pack: %s\n", si.CSDVersion)
		}
		printInfo("  Processors: %d\n", si.NumberOfProcessors)
	}

	printInfo("\nStreams (%d):\n", info.StreamCount)
	for _, s := range d.Streams() {
		status := "ok"
		switch {
		case s.Err != nil:
			status = "decode failed: " + s.Err.Error()
		case !s.Kind.Known():
			status = "not decoded"
		}
		printInfo("  %-28s size=%-8d rva=0x%08X  %s\n", s.Kind, s.Location.DataSize, s.Location.RVA, status)
	}
	return nil
}
