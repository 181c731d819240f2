package main

import (
	"github.com/spf13/cobra"
)

var modulesFullPath bool

func init() {
	cmd := newModulesCmd()
	cmd.Flags().BoolVar(&modulesFullPath, "full-path", false, "Show full image paths")
	rootCmd.AddCommand(cmd)
}

func newModulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "modules <dump>",
		Short: "List loaded modules",
		Long: `The modules command lists every module loaded in the captured process,
with base address, size, and image path.

Example:
  dmpctl modules crash.dmp
  dmpctl modules crash.dmp --full-path
  dmpctl modules crash.dmp --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModules(args)
		},
	}
	return cmd
}

func runModules(args []string) error {
	d, err := openDump(args[0])
	if err != nil {
		return err
	}
	defer d.Close()

	mods, err := d.Modules()
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(mods)
	}

	printInfo("Modules (%d):\n", len(mods))
	for _, m := range mods {
		name := m.Name()
		if modulesFullPath {
			name = m.Path
		}
		printInfo("  0x%016X  %-10d  %s\n", m.Base, m.Size, name)
		if verbose {
			printInfo("    checksum=0x%08X timestamp=%d version=%d.%d.%d.%d\n",
				m.Checksum, m.TimeDateStamp,
				m.VersionInfo.FileVersionMS>>16, m.VersionInfo.FileVersionMS&0xFFFF,
				m.VersionInfo.FileVersionLS>>16, m.VersionInfo.FileVersionLS&0xFFFF)
		}
	}
	return nil
}
