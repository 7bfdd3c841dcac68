// Package cli implements the sharptask command line: parsing global flags,
// loading configuration, and dispatching the push, pull and print-config
// commands.
package cli

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"sharptask/internal/sync"
)

const minArgs = 2

// Run is the main entry point. Returns exit code.
func Run(_ io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string) int {
	if len(args) < minArgs {
		printUsage(out)

		return 0
	}

	flags, err := parseGlobalFlags(args[1:])
	if errors.Is(err, flag.ErrHelp) {
		printUsage(out)

		return 0
	}

	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	if len(flags.remaining) == 0 {
		printUsage(out)

		return 0
	}

	cfg, err := sync.LoadConfig(sync.LoadConfigInput{
		ConfigPath:       flags.configPath,
		VaultOverride:    flags.vaultDir,
		TaskDBOverride:   flags.taskDB,
		TimezoneOverride: flags.timezone,
		Env:              env,
	})
	if err != nil {
		fprintln(errOut, "error:", err)
		printUsage(errOut)

		return 1
	}

	cmd := flags.remaining[0]

	ioCtx := NewIO(out, errOut)

	var cmdErr error

	switch cmd {
	case "push":
		cmdErr = cmdSync(ioCtx, cfg, directionPush, flags.file)
	case "pull":
		cmdErr = cmdSync(ioCtx, cfg, directionPull, flags.file)
	case "print-config":
		cmdErr = cmdPrintConfig(ioCtx, cfg)
	case "help":
		printUsage(out)

		return 0
	default:
		fprintln(errOut, "error: unknown command:", cmd)
		printUsage(errOut)

		return 1
	}

	// Fatal error
	if cmdErr != nil {
		fprintln(errOut, "error:", cmdErr)

		return 1
	}

	// Finish handles warnings and exit code
	return ioCtx.Finish()
}

type globalFlags struct {
	configPath string
	file       string
	vaultDir   string
	taskDB     string
	timezone   string
	remaining  []string
}

func parseGlobalFlags(args []string) (globalFlags, error) {
	var flags globalFlags

	flagSet := flag.NewFlagSet("sharptask", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.SetInterspersed(false)

	flagSet.StringVarP(&flags.configPath, "config", "c", "", "Use specified config file")
	flagSet.StringVarP(&flags.file, "file", "f", "", "Process a single markdown file")
	flagSet.StringVarP(&flags.vaultDir, "vault", "v", "", "Vault directory to scan")
	flagSet.StringVar(&flags.taskDB, "task-db", "", "Path to the task database")
	flagSet.StringVar(&flags.timezone, "tz", "", "Time zone for calendar dates")

	err := flagSet.Parse(args)
	if err != nil {
		return globalFlags{}, fmt.Errorf("parse flags: %w", err)
	}

	flags.remaining = flagSet.Args()

	return flags, nil
}

func cmdPrintConfig(o *IO, cfg sync.Config) error {
	formatted, err := sync.FormatConfig(cfg)
	if err != nil {
		return err
	}

	o.Println(formatted)

	// Print sources
	o.Println("")
	o.Println("# Sources:")

	if cfg.Sources.Global != "" {
		o.Println("#   global:", cfg.Sources.Global)
	}

	if cfg.Sources.Explicit != "" {
		o.Println("#   explicit:", cfg.Sources.Explicit)
	}

	if cfg.Sources.Global == "" && cfg.Sources.Explicit == "" {
		o.Println("#   (using defaults only)")
	}

	return nil
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printUsage(writer io.Writer) {
	fprintln(writer, `sharptask - sync markdown checkbox tasks with a task database

Usage: sharptask [options] <command>

Options:
  -c, --config <file>  Use specified config file
  -f, --file <file>    Process a single markdown file
  -v, --vault <dir>    Vault directory to scan for markdown files
      --task-db <file> Path to the task database
      --tz <zone>      Time zone for calendar dates (e.g. America/Chicago)

Commands:
  push                 Text wins: create or update database records from task lines
  pull                 Database wins: rewrite task lines from database records
  print-config         Show resolved configuration`)
}
