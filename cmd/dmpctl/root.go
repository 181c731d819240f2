package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/dumpkit/pkg/dump"
	"github.com/joshuapare/dumpkit/pkg/types"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	jsonOut bool
)

var rootCmd = &cobra.Command{
	Use:   "dmpctl",
	Short: "Inspect user-mode Windows minidump (.dmp) files",
	Long: `dmpctl is a tool for inspecting user-mode Windows minidump files.
It decodes the stream directory and displays loaded modules, threads, open
handles, memory regions, system information, and the triggering exception.`,
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openDump opens the dump at path with default limits.
func openDump(path string) (*dump.Dump, error) {
	printVerbose("Opening dump: %s\n", path)
	d, err := dump.Open(path, types.OpenOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to open dump: %w", err)
	}
	return d, nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
