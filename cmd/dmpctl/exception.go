package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newExceptionCmd())
}

func newExceptionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exception <dump>",
		Short: "Show the exception that triggered the dump",
		Long: `The exception command shows the exception record captured in the dump:
code, faulting address, thread, parameters, and the register context. It also
resolves the faulting address against the module list when possible.

Example:
  dmpctl exception crash.dmp
  dmpctl exception crash.dmp --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runException(args)
		},
	}
	return cmd
}

func runException(args []string) error {
	d, err := openDump(args[0])
	if err != nil {
		return err
	}
	defer d.Close()

	exc := d.Exception()
	if exc == nil {
		printInfo("No exception stream present.\n")
		return nil
	}

	if jsonOut {
		return printJSON(exc)
	}

	printInfo("Exception:\n")
	printInfo("  Code: 0x%08X\n", exc.Code)
	printInfo("  Address: 0x%016X", exc.Address)
	if m, ok := d.ModuleAt(exc.Address); ok {
		printInfo("  (%s+0x%X)", m.Name(), exc.Address-m.Base)
	}
	printInfo("\n")
	printInfo("  Thread: %d\n", exc.ThreadID)
	for i, p := range exc.Parameters {
		printInfo("  Parameter[%d]: 0x%016X\n", i, p)
	}

	switch {
	case exc.Context.X64 != nil:
		c := exc.Context.X64
		printInfo("\nRegisters (x64):\n")
		printInfo("  rip=0x%016X rsp=0x%016X rbp=0x%016X\n", c.Rip, c.Rsp, c.Rbp)
		printInfo("  rax=0x%016X rbx=0x%016X rcx=0x%016X rdx=0x%016X\n", c.Rax, c.Rbx, c.Rcx, c.Rdx)
		printInfo("  rsi=0x%016X rdi=0x%016X r8=0x%016X  r9=0x%016X\n", c.Rsi, c.Rdi, c.R8, c.R9)
		printInfo("  eflags=0x%08X\n", c.EFlags)
	case exc.Context.X86 != nil:
		c := exc.Context.X86
		printInfo("\nRegisters (x86):\n")
		printInfo("  eip=0x%08X esp=0x%08X ebp=0x%08X\n", c.Eip, c.Esp, c.Ebp)
		printInfo("  eax=0x%08X ebx=0x%08X ecx=0x%08X edx=0x%08X\n", c.Eax, c.Ebx, c.Ecx, c.Edx)
		printInfo("  eflags=0x%08X\n", c.EFlags)
	case len(exc.Context.Raw) > 0:
		printInfo("\nRegisters: %d raw bytes (unknown architecture)\n", len(exc.Context.Raw))
	}
	return nil
}
