package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Simulate SimulateCmd      `cmd:"" help:"Run batches of matches between built-in bots"`
	Serve    ServeCmd         `cmd:"" help:"Host matches for remote bots over websockets"`
	Replay   ReplayCmd        `cmd:"" help:"Summarize a saved match history"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("kittenforbots"),
		kong.Description("Exploding-kitten match engine for bot-vs-bot play"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

// setupLogger configures the process logger. Debug mode turns on per-event
// logging, which is very chatty during big simulation runs.
func setupLogger(debug bool) *log.Logger {
	opts := log.Options{ReportTimestamp: true}
	if debug {
		opts.Level = log.DebugLevel
		opts.ReportCaller = true
	}
	return log.NewWithOptions(os.Stderr, opts)
}
