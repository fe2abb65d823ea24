/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"promptarchitect/internal/config"
	"promptarchitect/internal/crash"
	"promptarchitect/internal/export"
	"promptarchitect/internal/ideas"
	applog "promptarchitect/internal/log"
	"promptarchitect/internal/server"
	"promptarchitect/internal/session"
	"promptarchitect/internal/telemetry"
	"promptarchitect/internal/version"
)

// errUsage marks bad invocations; they exit with code 2.
var errUsage = errors.New("usage")

type app struct {
	cfg     config.AppConfig
	store   *session.Store
	metrics *telemetry.Metrics
	log     *slog.Logger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	// clipboard replaces the system clipboard, mainly for tests.
	clipboard func(string) error
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Prompt Architect - organize video concept notes into a generator-ready prompt")
	fmt.Fprintf(w, "Version: %s\n", version.String())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  promptarchitect version|-v|--version          Show version")
	fmt.Fprintln(w, "  promptarchitect extract [-summary] <file|->   Print characters and beats found in notes")
	fmt.Fprintln(w, "  promptarchitect build [flags]                 Build a prompt document from notes and field values")
	fmt.Fprintln(w, "        -notes <file|->  -set slice.field=value  -out <file>  -pdf <file>")
	fmt.Fprintln(w, "        -bundle <dir> -preset generate|review  -copy")
	fmt.Fprintln(w, "  promptarchitect serve [-addr host:port]       Serve the session over HTTP with live preview")
	fmt.Fprintln(w, "  promptarchitect token set <value>|clear|show  Manage the server bearer token in the OS keychain")
	fmt.Fprintln(w, "  promptarchitect config path|init              Show or create the user config file")
}

func main() {
	_ = config.LoadDotEnv(".env")
	cfg, cfgErr := config.Load()
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})
	l := applog.WithComponent("cli")
	if cfgErr != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", cfgErr))
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}
	initTelemetry(cfg)

	a, err := newApp(cfg, l)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}
	defer crash.Recover(a.store)

	l.Debug("start", slog.Int("args", len(os.Args)))
	code := a.run(os.Args[1:])

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	telemetry.Flush(ctx)
	cancel()
	_ = applog.Close()
	if code != 0 {
		os.Exit(code)
	}
}

// initTelemetry honours the config file opt-in in addition to the environment.
func initTelemetry(cfg config.AppConfig) {
	tc := telemetry.FromEnv()
	tc.OptIn = tc.OptIn || cfg.General.TelemetryOptIn
	telemetry.SetDefault(telemetry.NewSender(tc))
}

func newApp(cfg config.AppConfig, l *slog.Logger) (*app, error) {
	law, err := cfg.Extraction.Law()
	if err != nil {
		return nil, err
	}
	m := telemetry.NewMetrics()
	st := session.NewStore(session.Options{
		Env:       session.Env{Law: law},
		UndoDepth: cfg.Extraction.UndoDepth,
		Metrics:   m,
		Logger:    applog.WithComponent("session"),
	})
	return &app{
		cfg: cfg, store: st, metrics: m, log: l,
		stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr,
	}, nil
}

// run executes one command and returns the process exit code.
func (a *app) run(args []string) int {
	if len(args) == 0 {
		usage(a.stdout)
		return 0
	}
	var err error
	switch args[0] {
	case "version", "--version", "-v":
		fmt.Fprintln(a.stdout, "Prompt Architect")
		fmt.Fprintln(a.stdout, version.String())
		return 0
	case "extract":
		err = a.extract(args[1:])
	case "build":
		err = a.build(args[1:])
	case "serve":
		err = a.serve(args[1:])
	case "token":
		err = a.token(args[1:])
	case "config":
		err = a.config(args[1:])
	case "help", "-h", "--help":
		usage(a.stdout)
		return 0
	default:
		fmt.Fprintf(a.stderr, "unknown command %q\n", args[0])
		usage(a.stderr)
		return 2
	}
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintln(a.stderr, err)
		return 2
	default:
		a.log.Error("command failed", slog.String("cmd", args[0]), slog.Any("err", err))
		fmt.Fprintln(a.stderr, "Error:", err)
		return 1
	}
}

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

// parse reports flag errors as usage errors.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}

// readInput reads a file, or stdin for "-".
func (a *app) readInput(path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(a.stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read notes: %w", err)
	}
	return string(b), nil
}

func (a *app) extract(args []string) error {
	fs := a.flags("extract")
	summary := fs.Bool("summary", false, "print a readable summary instead of JSON")
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: extract requires <file|->", errUsage)
	}
	text, err := a.readInput(fs.Arg(0))
	if err != nil {
		return err
	}
	res := ideas.Extract(text)
	telemetry.Report(telemetry.Usage{Event: "extract", Characters: len(res.Characters), Beats: len(res.Beats), Bytes: len(text)})
	if *summary {
		fmt.Fprintln(a.stdout, renderSummary(res))
		return nil
	}
	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, string(out))
	return nil
}

// fieldValues collects repeated -set slice.field=value flags.
type fieldValues []session.Edit

func (f *fieldValues) String() string { return fmt.Sprint(len(*f)) }

func (f *fieldValues) Set(v string) error {
	key, value, ok := strings.Cut(v, "=")
	if !ok {
		return errors.New("expected slice.field=value")
	}
	slice, path, ok := strings.Cut(key, ".")
	if !ok || path == "" {
		return errors.New("expected slice.field=value")
	}
	*f = append(*f, session.Edit{Slice: session.SliceID(slice), Path: path, Value: value})
	return nil
}

func (a *app) build(args []string) error {
	fs := a.flags("build")
	var sets fieldValues
	notes := fs.String("notes", "", "notes file to organize, or - for stdin")
	out := fs.String("out", "", "write the prompt document to this file")
	pdf := fs.String("pdf", "", "write a director's brief PDF to this file")
	bundle := fs.String("bundle", "", "write a preset bundle into this directory")
	preset := fs.String("preset", string(export.PresetGenerate), "bundle preset: generate or review")
	doCopy := fs.Bool("copy", false, "copy the prompt document to the clipboard")
	fs.Var(&sets, "set", "set a field, e.g. project.title=Night Market (repeatable)")
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		return fmt.Errorf("%w: unexpected argument %q", errUsage, fs.Arg(0))
	}

	l := applog.WithOperation(a.log, "build")
	for _, ev := range sets {
		if _, err := a.store.Dispatch(ev); err != nil {
			return fmt.Errorf("-set %s.%s: %w", ev.Slice, ev.Path, err)
		}
	}
	if *notes != "" {
		text, err := a.readInput(*notes)
		if err != nil {
			return err
		}
		if _, err := a.store.Dispatch(session.Edit{Slice: session.SliceProject, Path: "brainDump", Value: text}); err != nil {
			return err
		}
		if _, err := a.store.Dispatch(session.RunExtraction{}); err != nil {
			return err
		}
	}

	snap := a.store.Snapshot()
	doc, err := a.store.Encoded()
	if err != nil {
		return err
	}
	telemetry.Report(telemetry.Usage{Event: "build", Characters: len(snap.Characters), Beats: len(snap.SceneBeats), Bytes: len(doc)})

	wrote := false
	if *out != "" {
		if err := export.WriteDocument(*out, doc); err != nil {
			return err
		}
		l.Info("document written", slog.String("path", *out))
		fmt.Fprintln(a.stdout, "Wrote", *out)
		wrote = true
	}
	if *pdf != "" {
		if err := export.WriteBrief(*pdf, snap, export.BriefOptions{}); err != nil {
			return err
		}
		l.Info("brief written", slog.String("path", *pdf))
		fmt.Fprintln(a.stdout, "Wrote", *pdf)
		wrote = true
	}
	if *bundle != "" {
		paths, err := export.BatchExport(snap, export.BundleOptions{Preset: export.PresetName(*preset), OutDir: *bundle})
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintln(a.stdout, "Wrote", p)
		}
		wrote = true
	}
	if *doCopy {
		c := export.NewCopier(export.CopierOptions{
			Hold:    a.cfg.General.CopyStatus(),
			Write:   a.clipboard,
			Metrics: a.metrics,
			Logger:  applog.WithComponent("export"),
		})
		if err := c.Copy(doc); err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, "Copied prompt document to clipboard")
		wrote = true
	}
	if !wrote {
		fmt.Fprintln(a.stdout, string(doc))
	}
	return nil
}

func (a *app) serve(args []string) error {
	fs := a.flags("serve")
	addr := fs.String("addr", a.cfg.Server.Addr, "listen address")
	if err := parse(fs, args); err != nil {
		return err
	}
	var tok string
	if a.cfg.Server.RequireToken {
		t, err := config.Token()
		if err != nil {
			return err
		}
		if t == "" {
			return errors.New("server.require_token is set but no token is stored; run: promptarchitect token set <value>")
		}
		tok = t
	}
	srv := server.New(server.Config{
		Addr:        *addr,
		ReadTimeout: a.cfg.Server.ReadTimeout(),
		Store:       a.store,
		Copier: export.NewCopier(export.CopierOptions{
			Hold:    a.cfg.General.CopyStatus(),
			Write:   a.clipboard,
			Metrics: a.metrics,
		}),
		Metrics: a.metrics,
		Logger:  applog.WithComponent("server"),
		Token:   tok,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()
	fmt.Fprintf(a.stdout, "Serving on http://%s\n", srv.Addr())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (a *app) token(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: token requires set <value>, clear or show", errUsage)
	}
	switch args[0] {
	case "set":
		if len(args) != 2 {
			return fmt.Errorf("%w: token set requires <value>", errUsage)
		}
		if err := config.SetToken(args[1]); err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, "Token stored in the OS keychain")
	case "clear":
		if err := config.ClearToken(); err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, "Token cleared")
	case "show":
		t, err := config.Token()
		if err != nil {
			return err
		}
		if t == "" {
			fmt.Fprintln(a.stdout, "No token stored")
		} else {
			fmt.Fprintln(a.stdout, "A token is stored")
		}
	default:
		return fmt.Errorf("%w: unknown token action %q", errUsage, args[0])
	}
	return nil
}

func (a *app) config(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: config requires path or init", errUsage)
	}
	path, err := config.ConfigPath()
	if err != nil {
		return err
	}
	switch args[0] {
	case "path":
		fmt.Fprintln(a.stdout, path)
	case "init":
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists at %s", path)
		}
		if err := config.Save(config.Defaults()); err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, "Wrote", path)
	default:
		return fmt.Errorf("%w: unknown config action %q", errUsage, args[0])
	}
	return nil
}
