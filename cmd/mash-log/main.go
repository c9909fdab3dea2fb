// Command mash-log reads the channel event files written by a protocol
// logger, for example the one mash-echo opens with -protocol-log.
//
//	mash-log view [-layer l] [-direction d] [-category c] [-principal p] FILE
//	mash-log filter -o OUT [selectors] FILE
//	mash-log stats FILE
//	mash-log export [-format jsonl|csv] [-o OUT] FILE
//
// Layers are transport, handshake, auth and channel. A typical session
// after a failed pairing:
//
//	mash-log view -layer auth -category error server.mlog
//	mash-log filter -principal inverter -o inverter.mlog server.mlog
//	mash-log stats inverter.mlog
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mash-protocol/mash-channel/cmd/mash-log/commands"
)

// command is one mash-log subcommand. setup registers its flags and
// returns the function that runs it against the event file.
type command struct {
	name    string
	summary string
	setup   func(fs *flag.FlagSet) func(path string) error
}

var commandList = []command{
	{"view", "print events one block per event", viewCommand},
	{"filter", "copy matching events to a new file", filterCommand},
	{"stats", "summarize connections, layers and categories", statsCommand},
	{"export", "convert events to JSON lines or CSV", exportCommand},
}

var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "mash-log: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stderr io.Writer) error {
	if len(args) == 0 {
		printUsage(stderr)
		return errUsage
	}
	name, rest := args[0], args[1:]
	if name == "help" || name == "-h" || name == "-help" || name == "--help" {
		printUsage(os.Stdout)
		return nil
	}
	for _, c := range commandList {
		if c.name != name {
			continue
		}
		fs := flag.NewFlagSet("mash-log "+c.name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		exec := c.setup(fs)
		if err := fs.Parse(rest); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil
			}
			return errUsage
		}
		if fs.NArg() != 1 {
			fmt.Fprintf(stderr, "mash-log %s: expected one event file\n", c.name)
			fs.Usage()
			return errUsage
		}
		return exec(fs.Arg(0))
	}
	fmt.Fprintf(stderr, "mash-log: unknown command %q\n", name)
	printUsage(stderr)
	return errUsage
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: mash-log <command> [flags] FILE")
	fmt.Fprintln(w)
	for _, c := range commandList {
		fmt.Fprintf(w, "  %-8s %s\n", c.name, c.summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, `Run "mash-log <command> -h" for the flags of a command.`)
}

const (
	layerHelp     = "only this layer: transport, handshake, auth, channel"
	directionHelp = "only this direction: in, out"
	categoryHelp  = "only this category: data, interest, state, error"
)

func viewCommand(fs *flag.FlagSet) func(string) error {
	layer := fs.String("layer", "", layerHelp)
	direction := fs.String("direction", "", directionHelp)
	category := fs.String("category", "", categoryHelp)
	principal := fs.String("principal", "", "only events of this peer principal")

	return func(path string) error {
		filter := commands.ViewFilter{Principal: *principal}
		if *layer != "" {
			l, err := commands.ParseLayerFlag(*layer)
			if err != nil {
				return err
			}
			filter.Layer = &l
		}
		if *direction != "" {
			d, err := commands.ParseDirectionFlag(*direction)
			if err != nil {
				return err
			}
			filter.Direction = &d
		}
		if *category != "" {
			c, err := commands.ParseCategoryFlag(*category)
			if err != nil {
				return err
			}
			filter.Category = &c
		}
		return commands.RunView(path, filter, os.Stdout)
	}
}

func filterCommand(fs *flag.FlagSet) func(string) error {
	var opts commands.FilterOptions
	fs.StringVar(&opts.Output, "o", "", "file receiving the matching events (required)")
	fs.StringVar(&opts.ConnID, "conn-id", "", "only this connection id")
	fs.StringVar(&opts.Principal, "principal", "", "only events of this peer principal")
	fs.StringVar(&opts.Protocol, "protocol", "", "only this security protocol: PLAINTEXT, NOISE")
	fs.StringVar(&opts.TimeStart, "time-start", "", "drop events before this RFC 3339 time")
	fs.StringVar(&opts.TimeEnd, "time-end", "", "drop events at or after this RFC 3339 time")
	fs.StringVar(&opts.Layer, "layer", "", layerHelp)
	fs.StringVar(&opts.Direction, "direction", "", directionHelp)
	fs.StringVar(&opts.Category, "category", "", categoryHelp)

	return func(path string) error {
		if opts.Output == "" {
			return errors.New("filter needs an output file (-o)")
		}
		opts.Protocol = strings.ToUpper(opts.Protocol)
		return commands.RunFilter(path, opts, os.Stdout)
	}
}

func statsCommand(*flag.FlagSet) func(string) error {
	return func(path string) error {
		return commands.RunStats(path, os.Stdout)
	}
}

func exportCommand(fs *flag.FlagSet) func(string) error {
	format := fs.String("format", "jsonl", "output format: jsonl, csv")
	output := fs.String("o", "", "output file (default stdout)")

	return func(path string) error {
		return commands.RunExport(path, *format, *output)
	}
}
