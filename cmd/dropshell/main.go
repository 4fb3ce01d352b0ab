package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/justyntemme/dropshell/internal/app"
	"github.com/justyntemme/dropshell/internal/config"
	"github.com/justyntemme/dropshell/internal/debug"
	"github.com/justyntemme/dropshell/internal/dnd"
	"github.com/justyntemme/dropshell/internal/fs"
	"github.com/justyntemme/dropshell/internal/launch"
	"github.com/justyntemme/dropshell/internal/store"
	"github.com/justyntemme/dropshell/internal/transfer"
	"github.com/justyntemme/dropshell/internal/watch"
	"github.com/justyntemme/dropshell/internal/window"
)

// listTimeout bounds how long -list waits for the first listing.
const listTimeout = 10 * time.Second

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run is main without the exit, so deferred cleanup always happens.
func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("dropshell", flag.ContinueOnError)
	flags.SetOutput(stderr)
	debugFlag := flags.Bool("debug", false, "Enable verbose debug logging")
	configPath := flags.String("config", "", "Config file (default ~/.config/dropshell/config.json)")
	generate := flags.Bool("generate-config", false, "Back up the config file, write the defaults and exit")
	setPolicy := flags.String("set-policy", "", "Save drag.internalPolicy (volume|move) and exit")
	drives := flags.Bool("drives", false, "Print the drives of the Computer node and exit")
	start := flags.String("start", "", "Directory the window opens on")
	list := flags.Bool("list", false, "Print the window's directory listing")
	resolve := flags.String("resolve", "", "Resolve the text/uri-list payload in this file ('-' for stdin)")
	mime := flags.String("mime", dnd.MIMEURIList, "Declared content type of the payload")
	target := flags.String("target", "", "Drop target directory (default: window root)")
	shift := flags.Bool("shift", false, "Shift held during the drop")
	ctrl := flags.Bool("ctrl", false, "Control held during the drop")
	internal := flags.Bool("internal", false, "Drag started inside dropshell")
	execute := flags.Bool("exec", false, "Execute the resolved transfer")
	recent := flags.Int("recent", 0, "Print the last N journaled drops and exit")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	if *debugFlag {
		debug.EnableAll()
	}

	if *generate {
		backup, err := config.GenerateConfig(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to generate config: %v\n", err)
			return 1
		}
		if backup != "" {
			fmt.Fprintf(stdout, "Backed up existing config to %s\n", backup)
		}
		fmt.Fprintln(stdout, "Wrote default config")
		return 0
	}

	if *drives {
		for _, d := range fs.ListDrives() {
			fmt.Fprintf(stdout, "%s\t%s\n", d.Name, d.Path)
		}
		return 0
	}

	cfgMgr := config.NewManagerAt(*configPath)
	if err := cfgMgr.Load(); err != nil {
		log.Printf("Config: using defaults: %v", err)
	}
	if err := cfgMgr.ParseError(); err != nil {
		log.Printf("Config: %s is invalid, using defaults: %v", cfgMgr.Path(), err)
	}

	if *setPolicy != "" {
		if err := cfgMgr.SetInternalPolicy(*setPolicy); err != nil {
			fmt.Fprintf(stderr, "Failed to set policy: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "drag.internalPolicy = %s\n", *setPolicy)
		return 0
	}
	cfg := cfgMgr.Get()

	var journal *store.Journal
	if cfg.Journal.Enabled {
		journal = store.NewJournal()
		if err := journal.Open(cfgMgr.JournalPath()); err != nil {
			log.Printf("Failed to open journal: %v", err)
			journal = nil
		} else {
			defer journal.Close()
		}
	}

	if *recent > 0 {
		if err := printRecent(stdout, journal, *recent); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	}

	sys := fs.NewSystem()
	go sys.Start()

	opts := app.Options{
		Config:   cfgMgr,
		Tree:     fs.NewLocalTree(),
		Launcher: launch.System{},
		Journal:  journal,
		FS:       sys,
	}
	if cfg.Watch.Enabled {
		w, err := watch.New(cfgMgr.Debounce())
		if err != nil {
			log.Printf("Watcher disabled: %v", err)
		} else {
			defer w.Close()
			opts.Watcher = w
		}
	}
	if *execute {
		opts.Executor = &transfer.Executor{}
	}
	shell := app.New(opts)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		_ = shell.Run(ctx)
		close(stopped)
	}()
	defer func() {
		var n int
		_ = shell.Do(context.Background(), func() { n = shell.CloseAll() })
		debug.Log(debug.APP, "closed %d windows", n)
		cancel()
		<-stopped
	}()

	startPath := *start
	if startPath == "" {
		startPath = cfg.Navigation.StartPath
	}
	var h window.Handle
	var title, root string
	if err := shell.Do(ctx, func() {
		rec := shell.OpenDefaultRoot(startPath)
		h, title, root = rec.Handle, rec.Title(), rec.Nav.Root()
	}); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if *list {
		if err := printListing(ctx, stdout, shell, h); err != nil {
			fmt.Fprintf(stderr, "Failed to list %s: %v\n", root, err)
			return 1
		}
		if *resolve == "" {
			return 0
		}
	}

	if *resolve == "" {
		fmt.Fprintf(stdout, "%s\t%s\n", title, root)
		return 0
	}

	raw, err := readPayload(*resolve)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to read payload: %v\n", err)
		return 1
	}
	mods := dnd.Modifiers{Shift: *shift, Control: *ctrl}

	if !*execute {
		var action dnd.Action
		_ = shell.Do(ctx, func() { action = shell.DragEnter(h, *mime, raw, *target, mods, *internal) })
		fmt.Fprintln(stdout, action)
		return 0
	}

	dropCtx, dropCancel := context.WithTimeout(ctx, 10*time.Minute)
	defer dropCancel()
	var (
		d   dnd.Decision
		res transfer.Result
	)
	if doErr := shell.Do(ctx, func() {
		d, res, err = shell.Drop(dropCtx, h, *mime, raw, *target, mods, *internal)
	}); doErr != nil {
		err = doErr
	}
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", d.Action, err)
		return 1
	}
	fmt.Fprintf(stdout, "%s: %s\n", d.Action, res)
	return 0
}

func readPayload(name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(name)
}

// printListing waits for the window's first listing and prints it.
func printListing(ctx context.Context, w io.Writer, shell *app.Shell, h window.Handle) error {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		var (
			ready   bool
			entries []fs.Entry
			err     error
		)
		if doErr := shell.Do(ctx, func() {
			if ready = shell.ListingReady(h); ready {
				entries, err = shell.Listing(h)
			}
		}); doErr != nil {
			return doErr
		}
		if ready {
			if err != nil {
				return err
			}
			for _, e := range entries {
				size := humanize.Bytes(uint64(e.Size))
				if e.IsDir {
					size = "dir"
				}
				fmt.Fprintf(w, "%s\t%s\n", e.Name, size)
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// printRecent fetches through the journal worker.
func printRecent(w io.Writer, journal *store.Journal, n int) error {
	if journal == nil {
		return fmt.Errorf("journal is disabled")
	}
	go journal.Start()
	defer close(journal.RequestChan)

	journal.RequestChan <- store.Request{Op: store.FetchRecent, Limit: n}
	resp := <-journal.ResponseChan
	if resp.Err != nil {
		return resp.Err
	}
	for _, e := range resp.Entries {
		status := "ok"
		if e.Err != "" {
			status = e.Err
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", e.At.Format(time.RFC3339), e.Action, e.Items, e.Target, status)
	}
	return nil
}
