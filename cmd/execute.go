package cmd

import (
	"errors"
	"fmt"
	"io"
	"kaso/common"
	"kaso/report"
	"os"
	"path/filepath"

	"github.com/ComedicChimera/olive"
	"github.com/mattn/go-isatty"
)

// Execute runs the main `kaso` application.
func Execute() {
	cl, err := parseCommandLine(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "usage error: %s\n", err)
		os.Exit(2)
	}

	switch cl.subcommand {
	case "repl", "run":
		execSessionCommand(cl)
	case "version":
		fmt.Printf("kaso version %s\n", common.KasoVersion)
	}
}

// newCLI builds the argument parser for `kaso`.  The session options are given
// to the top-level command so that they apply whether or not a subcommand is
// named.
func newCLI() *olive.Command {
	cli := olive.NewCLI("kaso", "kaso is an interactive JIT compiler for the Kaso language", true)
	cli.RequiresSubcommand = false

	cli.AddSelectorArg("loglevel", "ll", "the session log level", false, []string{"silent", "error", "warn", "verbose"})
	cli.AddFlag("quiet", "q", "do not echo generated code and evaluation results")
	cli.AddFlag("no-opt", "no", "disable optimization of generated code")
	cli.AddFlag("dump-ast", "a", "dump the syntax tree of every top-level construct")
	cli.AddStringArg("config", "c", "the path to the configuration file", false)

	cli.AddSubcommand("repl", "start an interactive session (default)", true)

	runCmd := cli.AddSubcommand("run", "run a source file", true)
	runCmd.AddPrimaryArg("file", "the path to the source file to run", true)

	cli.AddSubcommand("version", "print the kaso version", false)

	return cli
}

// commandLine is the processed command line.
type commandLine struct {
	// The subcommand to run: `repl` if none was given.
	subcommand string

	// The source file of `run`.
	srcPath string

	// The log level given on the command-line, empty if none was.
	logLevelName string

	// The configuration file.
	configPath string

	quiet, noOpt, dumpAST bool
}

// parseCommandLine parses the command-line arguments including the
// application name.
func parseCommandLine(args []string) (*commandLine, error) {
	result, err := olive.ParseArgs(newCLI(), args)
	if err != nil {
		return nil, err
	}

	cl := &commandLine{
		subcommand: "repl",
		configPath: DefaultConfigPath(),
		quiet:      result.HasFlag("quiet"),
		noOpt:      result.HasFlag("no-opt"),
		dumpAST:    result.HasFlag("dump-ast"),
	}

	if llArg, ok := result.Arguments["loglevel"]; ok {
		cl.logLevelName = llArg.(string)
	}

	if pathArg, ok := result.Arguments["config"]; ok {
		cl.configPath = pathArg.(string)
	}

	if subcmdName, subResult, ok := result.Subcommand(); ok {
		cl.subcommand = subcmdName

		if path, ok := subResult.PrimaryArg(); ok {
			cl.srcPath = path
		}
	}

	return cl, nil
}

// execSessionCommand executes a session reading either from the console or, if
// a source file was given, from that file.
func execSessionCommand(cl *commandLine) {
	conf, err := LoadConfig(cl.configPath)
	if err != nil {
		initReporter(DefaultConfig(), cl.logLevelName)
		report.ReportFatal("failed to load configuration: %s", err)
	}

	if cl.quiet {
		conf.Verbose = false
	}

	if cl.noOpt {
		conf.Optimize = false
	}

	if cl.dumpAST {
		conf.DumpAST = true
	}

	initReporter(conf, cl.logLevelName)

	opts := SessionOptions{
		Verbose:  conf.Verbose,
		Optimize: conf.Optimize,
		DumpAST:  conf.DumpAST,
		Prompt:   conf.Prompt,
		Echo:     os.Stderr,
		Output:   os.Stdout,
		Reporter: report.Default(),
	}

	var in io.Reader
	if cl.srcPath == "" {
		con := openConsole(conf)
		defer con.close()

		in = con.in
		opts.PromptOut = con.promptOut
		opts.ReprPath = common.StdinReprPath
	} else {
		f, err := os.Open(cl.srcPath)
		if err != nil {
			report.ReportFatal("failed to open source file: %s", err)
		}
		defer f.Close()

		in = f
		opts.ReprPath = filepath.Base(cl.srcPath)

		if filepath.Ext(cl.srcPath) != common.SrcFileExtension {
			report.Default().ReportCompileWarning(
				opts.ReprPath, nil, nil,
				"source file does not have the `%s` extension", common.SrcFileExtension,
			)
		}
	}

	report.Default().ReportInfo("Session", "kaso %s (optimize: %t)", common.KasoVersion, conf.Optimize)

	if err := NewSession(in, opts).Run(); err != nil {
		var ie *report.InternalError
		if errors.As(err, &ie) {
			report.ReportICE("%s", ie.Message)
		}

		report.ReportFatal("failed to read input: %s", err)
	}

	if cl.srcPath != "" && report.Default().AnyErrors() {
		os.Exit(1)
	}
}

// initReporter initializes the global reporter.  The log level given on the
// command-line takes precedence over the configured log level.  Colour is only
// used when standard error is a terminal.
func initReporter(conf *Config, logLevelName string) {
	if logLevelName == "" {
		logLevelName = conf.LogLevel
	}

	logLevel, ok := report.LogLevelFromName(logLevelName)
	if !ok {
		logLevel = report.LogLevelVerbose
	}

	colored := conf.Colour && isatty.IsTerminal(os.Stderr.Fd())
	report.InitReporter(logLevel, colored)
}
