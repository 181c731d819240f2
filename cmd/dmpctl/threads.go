package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/dumpkit/pkg/types"
)

func init() {
	rootCmd.AddCommand(newThreadsCmd())
}

func newThreadsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "threads <dump>",
		Short: "List captured threads",
		Long: `The threads command lists every thread captured in the dump, with its
stack range and, when decodable, the instruction and stack pointers.

Example:
  dmpctl threads crash.dmp
  dmpctl threads crash.dmp --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runThreads(args)
		},
	}
	return cmd
}

func runThreads(args []string) error {
	d, err := openDump(args[0])
	if err != nil {
		return err
	}
	defer d.Close()

	threads, err := d.Threads()
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(threads)
	}

	printInfo("Threads (%d):\n", len(threads))
	for _, t := range threads {
		printInfo("  tid=%-8d teb=0x%016X stack=[0x%X..0x%X)", t.ID, t.TEB, t.Stack.Base, t.Stack.End())
		switch {
		case t.Context.X64 != nil:
			printInfo("  rip=0x%016X rsp=0x%016X", t.Context.X64.Rip, t.Context.X64.Rsp)
		case t.Context.X86 != nil:
			printInfo("  eip=0x%08X esp=0x%08X", t.Context.X86.Eip, t.Context.X86.Esp)
		case t.Context.Arch == types.ArchUnknown && len(t.Context.Raw) > 0:
			printInfo("  context=%d raw bytes", len(t.Context.Raw))
		}
		printInfo("\n")
		if verbose {
			printInfo("    suspend=%d priority=%d/%d\n", t.SuspendCount, t.PriorityClass, t.Priority)
		}
	}
	return nil
}
