package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dessert-wasm/dessert-graphql-parser-core/internal/config"
	"github.com/dessert-wasm/dessert-graphql-parser-core/internal/document"
	"github.com/dessert-wasm/dessert-graphql-parser-core/internal/eventbus"
	"github.com/dessert-wasm/dessert-graphql-parser-core/internal/grammar"
	"github.com/dessert-wasm/dessert-graphql-parser-core/internal/logging"
	"github.com/dessert-wasm/dessert-graphql-parser-core/internal/otel"
	"github.com/dessert-wasm/dessert-graphql-parser-core/internal/render"
	"github.com/dessert-wasm/dessert-graphql-parser-core/internal/server"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const rootUsage = `dessert: GraphQL document to normalized AST

USAGE:
  dessert <command> [flags]

COMMANDS:
  parse            Parse a document and print its normalized AST
  tree             Print the raw parse tree of a document
  serve            Run the HTTP parse endpoint
  help             Show help for any command

Flag defaults can be set through DESSERT_* environment variables.
`

const parseUsage = `parse [FLAGS] [file]
Reads the document from file, or stdin when no file is given.
Exits non-zero when the document does not parse.

FLAGS:
  -format <json|yaml|protojson>  Output format (default: json)
  -pretty                        Indent json and protojson output
  -max-depth N                   Maximum document nesting (default: 128)
`

const treeUsage = `tree [FLAGS] [file]
Reads the document from file, or stdin when no file is given.

FLAGS:
  -max-depth N                   Maximum document nesting (default: 128)
`

const serveUsage = `serve FLAGS:
  -addr <addr>                  HTTP listen address (default: :8080)
  -pretty                       Pretty-print JSON responses
  -timeout <duration>           Per-request timeout, e.g. 10s (default: 10s)
  -max-body-bytes N             Request body limit, 0 for none (default: 1048576)
  -max-depth N                  Maximum document nesting (default: 128)
  -cors <origin>                Allowed CORS origin. Repeatable; * allows any
  -otel.endpoint <addr>         OTLP collector endpoint
  -otel.service <name>          OpenTelemetry service name (default: dessert)
`

var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// errNotParsed is returned after a failure sentinel has been printed.
var errNotParsed = errors.New("document did not parse")

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	global := flag.NewFlagSet("dessert", flag.ContinueOnError)
	global.SetOutput(new(bytes.Buffer)) // silence automatic output
	if err := global.Parse(args); err != nil {
		fmt.Fprint(stderr, rootUsage)
		return err
	}
	remaining := global.Args()
	if len(remaining) == 0 {
		fmt.Fprint(stderr, rootUsage)
		return fmt.Errorf("missing command")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	cmd := remaining[0]
	cmdArgs := remaining[1:]
	switch cmd {
	case "parse":
		return cmdParse(cfg, cmdArgs)
	case "tree":
		return cmdTree(cfg, cmdArgs)
	case "serve":
		return cmdServe(cfg, cmdArgs)
	case "help":
		return cmdHelp(cmdArgs)
	default:
		fmt.Fprint(stderr, rootUsage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdHelp(args []string) error {
	if len(args) == 0 {
		fmt.Fprint(stdout, rootUsage)
		return nil
	}
	switch args[0] {
	case "parse":
		fmt.Fprint(stdout, parseUsage)
	case "tree":
		fmt.Fprint(stdout, treeUsage)
	case "serve":
		fmt.Fprint(stdout, serveUsage)
	default:
		return fmt.Errorf("unknown help topic %q", args[0])
	}
	return nil
}

type stringListFlag []string

func (s *stringListFlag) String() string { return "" }

func (s *stringListFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.NewWithSyncer(zapcore.AddSync(stderr), cfg.LogPretty, level), nil
}

// readSource returns the document named by args, or stdin, with the name
// used in diagnostics.
func readSource(args []string) (string, string, error) {
	switch len(args) {
	case 0:
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), "stdin", nil
	case 1:
		b, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", err
		}
		return string(b), args[0], nil
	default:
		return "", "", fmt.Errorf("expected at most one file, got %d", len(args))
	}
}

func cmdParse(cfg *config.Config, args []string) error {
	format := string(render.JSON)
	pretty := cfg.Pretty
	maxDepth := cfg.MaxDepth

	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&format, "format", format, "Output format")
	fs.BoolVar(&pretty, "pretty", pretty, "Indent output")
	fs.IntVar(&maxDepth, "max-depth", maxDepth, "Maximum document nesting")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(stderr, parseUsage)
		return err
	}
	f, err := render.ParseFormat(format)
	if err != nil {
		fmt.Fprint(stderr, parseUsage)
		return err
	}
	if maxDepth < 1 {
		return fmt.Errorf("-max-depth must be positive")
	}
	src, name, err := readSource(fs.Args())
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	p := document.New(
		document.WithLogger(logger),
		document.WithMaxDepth(maxDepth),
		document.WithSourceName(name),
	)
	ast, err := p.Parse(context.Background(), src)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	if err := render.Write(stdout, ast, f, pretty); err != nil {
		return err
	}
	if document.IsFailure(ast) {
		return errNotParsed
	}
	return nil
}

func cmdTree(cfg *config.Config, args []string) error {
	maxDepth := cfg.MaxDepth
	fs := flag.NewFlagSet("tree", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.IntVar(&maxDepth, "max-depth", maxDepth, "Maximum document nesting")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(stderr, treeUsage)
		return err
	}
	src, name, err := readSource(fs.Args())
	if err != nil {
		return err
	}
	tree, err := grammar.Parse(src, grammar.WithMaxDepth(maxDepth), grammar.WithSourceName(name))
	if err != nil {
		return err
	}
	return grammar.Dump(stdout, tree)
}

func cmdServe(cfg *config.Config, args []string) error {
	addr := cfg.Addr
	pretty := cfg.Pretty
	timeout := cfg.Timeout
	maxBody := cfg.MaxBodyBytes
	maxDepth := cfg.MaxDepth
	otelEndpoint := cfg.OTelEndpoint
	otelService := cfg.OTelService
	var cors stringListFlag

	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&addr, "addr", addr, "HTTP listen address")
	fs.BoolVar(&pretty, "pretty", pretty, "Pretty-print JSON responses")
	fs.DurationVar(&timeout, "timeout", timeout, "Per-request timeout")
	fs.Int64Var(&maxBody, "max-body-bytes", maxBody, "Request body limit")
	fs.IntVar(&maxDepth, "max-depth", maxDepth, "Maximum document nesting")
	fs.Var(&cors, "cors", "Allowed CORS origin")
	fs.StringVar(&otelEndpoint, "otel.endpoint", otelEndpoint, "OTLP collector endpoint")
	fs.StringVar(&otelService, "otel.service", otelService, "OpenTelemetry service name")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(stderr, serveUsage)
		return err
	}
	if len(cors) == 0 {
		cors = cfg.CORSOrigins
	}
	if maxDepth < 1 {
		return fmt.Errorf("-max-depth must be positive")
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	eventbus.Use(eventbus.New())
	shutdown, err := otel.Setup(otelEndpoint, otelService)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	var sopts []server.Option
	if pretty {
		sopts = append(sopts, server.WithPretty())
	}
	sopts = append(sopts,
		server.WithTimeout(timeout),
		server.WithMaxBodyBytes(maxBody),
		server.WithLogger(logger),
	)
	if len(cors) > 0 {
		sopts = append(sopts, server.WithCORS(cors...))
	}
	parser := document.New(document.WithLogger(logger), document.WithMaxDepth(maxDepth))
	h, err := server.New(parser, sopts...)
	if err != nil {
		return fmt.Errorf("server init: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/parse", h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	logger.Info("parse server listening", zap.String("addr", addr))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(sctx)
}
