package main

import (
	"github.com/spf13/cobra"
)

var handlesType string

func init() {
	cmd := newHandlesCmd()
	cmd.Flags().StringVar(&handlesType, "type", "", "Show only handles of this type (e.g. File, Mutant)")
	rootCmd.AddCommand(cmd)
}

func newHandlesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "handles <dump>",
		Short: "List open handles captured in the dump",
		Long: `The handles command lists the OS handles that were open in the captured
process, with type and object names where the dump recorded them.

Example:
  dmpctl handles crash.dmp
  dmpctl handles crash.dmp --type File
  dmpctl handles crash.dmp --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHandles(args)
		},
	}
	return cmd
}

func runHandles(args []string) error {
	d, err := openDump(args[0])
	if err != nil {
		return err
	}
	defer d.Close()

	handles, err := d.Handles()
	if err != nil {
		return err
	}

	if handlesType != "" {
		filtered := handles[:0:0]
		for _, h := range handles {
			if h.TypeName == handlesType {
				filtered = append(filtered, h)
			}
		}
		handles = filtered
	}

	if jsonOut {
		return printJSON(handles)
	}

	printInfo("Handles (%d):\n", len(handles))
	for _, h := range handles {
		printInfo("  0x%-8X %-16s %s\n", h.Value, h.TypeName, h.ObjectName)
		if verbose {
			printInfo("    access=0x%08X attrs=0x%X handles=%d pointers=%d\n",
				h.GrantedAccess, h.Attributes, h.HandleCount, h.PointerCount)
		}
	}
	return nil
}
