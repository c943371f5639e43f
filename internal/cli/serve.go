package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/docsectiond/internal/httpapi"
	"github.com/aidanlsb/docsectiond/internal/markup"
	"github.com/aidanlsb/docsectiond/internal/obslog"
	"github.com/aidanlsb/docsectiond/internal/project"
	"github.com/aidanlsb/docsectiond/internal/query"
	"github.com/aidanlsb/docsectiond/internal/rpcserver"
	"github.com/aidanlsb/docsectiond/internal/sectionedit"
	"github.com/aidanlsb/docsectiond/internal/tooldispatch"
	"github.com/aidanlsb/docsectiond/internal/watch"
)

var serveCmd = &cobra.Command{
	Use:   "serve [project_root]",
	Short: "Run the JSON-RPC tool server over stdio",
	Long: `Run docsectiond as a JSON-RPC tool server.

This enables LLM agents to interact with a documentation tree through a
standardized protocol. The server communicates over stdin/stdout using
line-delimited JSON-RPC 2.0; nothing but protocol responses is ever written
to stdout. When ENABLE_WEBSERVER=true (or configured in config.toml), a
read-only HTTP API is also served alongside.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveProjectRoot(args)
		if err != nil {
			return handleError(ErrProjectRootNotFound, err, "")
		}
		return runServe(root)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(root string) error {
	log := obslog.New(obslog.Info)

	ix, err := project.New(root, markup.Options{MaxIncludeDepth: 10})
	if err != nil {
		return handleError(ErrInternal, fmt.Errorf("open project: %w", err), "")
	}
	defer ix.Close()

	if err := ix.Refresh(); err != nil {
		return handleError(ErrInternal, fmt.Errorf("initial index build: %w", err), "")
	}

	surface := query.New(ix)
	suppress := sectionedit.NewSuppressionMap()
	editor := sectionedit.New(ix, suppress)
	dispatcher := tooldispatch.New(ix, surface, editor)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher := watch.New(root, ix, suppress, log)
	go func() {
		if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
			log.Errorf("watcher stopped: %v", err)
		}
	}()

	if enableWebserver() {
		go serveHTTP(ctx, log, ix, surface)
	}

	rpc := rpcserver.New(os.Stdin, os.Stdout, dispatcher, log)
	return rpc.Run()
}

func enableWebserver() bool {
	if httpapi.Enabled() {
		return true
	}
	return getConfig().EnableWebserver
}

func webserverPortBase() int {
	if os.Getenv("WEBSERVER_PORT_BASE") != "" {
		return httpapi.PortBase()
	}
	if base := getConfig().WebserverPortBase; base > 0 {
		return base
	}
	return httpapi.PortBase()
}

func serveHTTP(ctx context.Context, log *obslog.Logger, ix *project.Index, surface *query.Surface) {
	server := httpapi.New(ix, surface)
	ln, port, err := httpapi.Listen(webserverPortBase())
	if err != nil {
		log.Errorf("http api: %v", err)
		return
	}
	log.Infof("http api listening on 127.0.0.1:%d", port)

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	if err := httpapi.Serve(ln, server.Handler()); err != nil && !errors.Is(err, net.ErrClosed) {
		log.Errorf("http api stopped: %v", err)
	}
}
