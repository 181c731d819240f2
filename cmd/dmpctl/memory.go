package main

import (
	"github.com/spf13/cobra"
)

var memoryShowInfo bool

func init() {
	cmd := newMemoryCmd()
	cmd.Flags().BoolVar(&memoryShowInfo, "info", false, "Show virtual memory metadata instead of captured ranges")
	rootCmd.AddCommand(cmd)
}

func newMemoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memory <dump>",
		Short: "List captured memory regions",
		Long: `The memory command lists the memory regions captured in the dump. With
--info it lists the virtual memory metadata records (state, protection, type)
instead of the captured byte ranges.

Example:
  dmpctl memory crash.dmp
  dmpctl memory crash.dmp --info
  dmpctl memory crash.dmp --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMemory(args)
		},
	}
	return cmd
}

func runMemory(args []string) error {
	d, err := openDump(args[0])
	if err != nil {
		return err
	}
	defer d.Close()

	if memoryShowInfo {
		infos, err := d.MemoryInfo()
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(infos)
		}
		printInfo("Memory regions (%d):\n", len(infos))
		for _, mi := range infos {
			printInfo("  0x%016X  %-10d  %-11s %-11s protect=0x%X\n",
				mi.Base, mi.RegionSize, mi.StateString(), mi.TypeString(), mi.Protect)
		}
		return nil
	}

	ranges, err := d.MemoryRanges()
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(ranges)
	}
	printInfo("Captured ranges (%d):\n", len(ranges))
	var total uint64
	for _, r := range ranges {
		total += r.Size
		printInfo("  0x%016X..0x%016X  %d bytes\n", r.Base, r.End(), r.Size)
	}
	printInfo("Total captured: %d bytes\n", total)
	return nil
}
