// Command kvscope inspects and edits a pebble store from the command line.
//
//	kvscope -path ./data stats
//	kvscope -path ./data -tree users range user_ user_~
//	kvscope -path ./data -format csv -file dump.csv export
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/eigerco/kvscope/internal/query"
	"github.com/eigerco/kvscope/internal/service"
	"github.com/eigerco/kvscope/pkg/log"
)

const usage = `usage: kvscope [flags] <command> [args]

commands:
  stats                   size, key and tree counts
  trees                   list trees
  create-tree NAME        create a tree
  drop-tree NAME          remove a tree and its entries
  get KEY                 print one entry
  set KEY VALUE           store VALUE under KEY
  remove KEY              delete KEY
  range [FROM [TO]]       entries with FROM <= key < TO
  prefix PREFIX           entries starting with PREFIX
  export                  write the tree to -file in -format
  import                  read -file in -format into the tree

flags:
`

func main() {
	if err := mainImpl(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "kvscope: %v\n", err)
		os.Exit(1)
	}
}

type config struct {
	path     string
	tree     string
	format   string
	file     string
	logLevel string
	logType  string
	limit    int
	reverse  bool
}

func mainImpl(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("kvscope", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}

	var cfg config
	fs.StringVar(&cfg.path, "path", "", "Store directory (required)")
	fs.StringVar(&cfg.tree, "tree", "", "Tree name, default tree when empty")
	fs.StringVar(&cfg.format, "format", "json", "Transfer format: json, csv, xml or yaml")
	fs.StringVar(&cfg.file, "file", "", "File to export to or import from")
	fs.StringVar(&cfg.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.logType, "log-type", "console", "Log output (console, json)")
	fs.IntVar(&cfg.limit, "limit", -1, "Maximum entries returned by range and prefix, negative for no limit")
	fs.BoolVar(&cfg.reverse, "reverse", false, "Walk ranges in descending key order")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if cfg.path == "" {
		return fmt.Errorf("-path is required")
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("missing command")
	}

	level, err := log.ParseLogLevel(cfg.logLevel)
	if err != nil {
		return err
	}
	logType, err := log.ParseLoggerType(cfg.logType)
	if err != nil {
		return err
	}
	log.Init(log.Options{LogLevel: level, Type: logType, Out: os.Stderr})

	svc, err := service.New(service.Options{})
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			log.Root.Error().Err(err).Msg("closing store")
		}
	}()

	id, err := svc.AddConnection("cli", cfg.path)
	if err != nil {
		return err
	}

	return run(svc, id, cfg, fs.Args(), stdout)
}

func run(svc *service.Service, id string, cfg config, args []string, out io.Writer) error {
	cmd, args := args[0], args[1:]
	want := func(n int) error {
		if len(args) != n {
			return fmt.Errorf("%s: expected %d argument(s), got %d", cmd, n, len(args))
		}
		return nil
	}

	switch cmd {
	case "stats":
		stats, err := svc.GetStats(id)
		if err != nil {
			return err
		}
		return printJSON(out, stats)
	case "trees":
		trees, err := svc.ListTrees(id)
		if err != nil {
			return err
		}
		for _, name := range trees {
			fmt.Fprintln(out, name)
		}
		return nil
	case "create-tree":
		if err := want(1); err != nil {
			return err
		}
		return svc.CreateTree(id, args[0])
	case "drop-tree":
		if err := want(1); err != nil {
			return err
		}
		return svc.RemoveTree(id, args[0])
	case "get":
		if err := want(1); err != nil {
			return err
		}
		kv, err := svc.Get(id, cfg.tree, []byte(args[0]))
		if err != nil {
			return err
		}
		if kv == nil {
			return fmt.Errorf("key %q not found", args[0])
		}
		printEntry(out, *kv)
		return nil
	case "set":
		if err := want(2); err != nil {
			return err
		}
		_, err := svc.Set(id, cfg.tree, []byte(args[0]), []byte(args[1]))
		return err
	case "remove":
		if err := want(1); err != nil {
			return err
		}
		_, err := svc.Remove(id, cfg.tree, []byte(args[0]))
		return err
	case "range":
		if len(args) > 2 {
			return fmt.Errorf("range: expected at most 2 arguments, got %d", len(args))
		}
		q := query.RangeQuery{Limit: query.Limit(cfg.limit), Reverse: cfg.reverse}
		if len(args) > 0 {
			q.From = []byte(args[0])
		}
		if len(args) > 1 {
			q.To = []byte(args[1])
		}
		result, err := svc.RangeQuery(id, cfg.tree, q)
		if err != nil {
			return err
		}
		printResult(out, result)
		return nil
	case "prefix":
		if err := want(1); err != nil {
			return err
		}
		result, err := svc.PrefixQuery(id, cfg.tree, query.PrefixQuery{Prefix: []byte(args[0]), Limit: query.Limit(cfg.limit)})
		if err != nil {
			return err
		}
		printResult(out, result)
		return nil
	case "export":
		if cfg.file == "" {
			return fmt.Errorf("export: -file is required")
		}
		summary, err := svc.ExportData(id, cfg.tree, cfg.format, cfg.file)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, summary)
		return nil
	case "import":
		if cfg.file == "" {
			return fmt.Errorf("import: -file is required")
		}
		n, err := svc.ImportFromPath(id, cfg.tree, cfg.format, cfg.file)
		if err != nil {
			return fmt.Errorf("imported %d records before failing: %w", n, err)
		}
		fmt.Fprintf(out, "imported %d records from %s\n", n, cfg.file)
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func printEntry(out io.Writer, kv query.KeyValue) {
	fmt.Fprintf(out, "%s\t%s\t%s\n", strconv.Quote(string(kv.Key)), strconv.Quote(string(kv.Value)), kv.ValueType)
}

func printResult(out io.Writer, result query.Result) {
	for _, kv := range result.Entries {
		printEntry(out, kv)
	}
	fmt.Fprintf(out, "# %d shown, %d in tree, more: %t\n", len(result.Entries), result.TotalCount, result.HasMore)
}

func printJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%s\n", data)
	return err
}
