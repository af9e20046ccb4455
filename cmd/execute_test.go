package cmd

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseCommandLine(t *testing.T) {
	defaultConfig := DefaultConfigPath()

	tests := []struct {
		args []string
		want commandLine
	}{
		{
			[]string{"kaso"},
			commandLine{subcommand: "repl", configPath: defaultConfig},
		},
		{
			[]string{"kaso", "-q"},
			commandLine{subcommand: "repl", configPath: defaultConfig, quiet: true},
		},
		{
			[]string{"kaso", "repl", "-q", "-no"},
			commandLine{subcommand: "repl", configPath: defaultConfig, quiet: true, noOpt: true},
		},
		{
			[]string{"kaso", "run", "prog.kaso", "-a", "-c=kaso.toml", "-ll=warn"},
			commandLine{
				subcommand:   "run",
				srcPath:      "prog.kaso",
				logLevelName: "warn",
				configPath:   "kaso.toml",
				dumpAST:      true,
			},
		},
		{
			[]string{"kaso", "version"},
			commandLine{subcommand: "version", configPath: defaultConfig},
		},
	}

	for _, test := range tests {
		got, err := parseCommandLine(test.args)
		if err != nil {
			t.Errorf("parseCommandLine(%q): %v", test.args, err)
			continue
		}

		if diff := cmp.Diff(test.want, *got, cmp.AllowUnexported(commandLine{})); diff != "" {
			t.Errorf("parseCommandLine(%q) (-want +got):\n%s", test.args, diff)
		}
	}
}

func TestParseCommandLineErrors(t *testing.T) {
	tests := [][]string{
		{"kaso", "bogus"},
		{"kaso", "run"},
		{"kaso", "-ll=loud"},
		{"kaso", "--unknown"},
		{"kaso", "-q", "repl"},
	}

	for _, args := range tests {
		if _, err := parseCommandLine(args); err == nil {
			t.Errorf("parseCommandLine(%q) succeeded", args)
		}
	}
}
