package main

import (
	"context"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-urlform/pkg/render"
	"github.com/goliatone/go-urlform/pkg/schema"
	"github.com/goliatone/go-urlform/pkg/server"
)

func newServeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the form page and its session API",
		Long: `Serve the form page over HTTP. Every page load gets its own session;
nothing is persisted. With --watch the schema file is reloaded on change and
open pages are told to refresh.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd)
		},
	}
	flags := cmd.Flags()
	flags.String("addr", "", "listen address")
	flags.String("page-address", "", "address relative base URLs resolve against when the request has no host")
	flags.String("theme", "", "default theme")
	flags.String("variant", "", "default theme variant")
	flags.Int("max-sessions", 0, "sessions kept in memory")
	flags.Bool("watch", false, "reload the schema file when it changes")
	flags.Bool("no-live", false, "start pages with live preview off")
	return cmd
}

func (a *app) serve(cmd *cobra.Command) error {
	flags := cmd.Flags()
	cfg := a.cfg
	for name, target := range map[string]*string{
		"addr":         &cfg.Addr,
		"page-address": &cfg.PageAddress,
		"theme":        &cfg.Theme,
		"variant":      &cfg.ThemeVariant,
	} {
		if flags.Changed(name) {
			*target, _ = flags.GetString(name)
		}
	}
	if flags.Changed("max-sessions") {
		cfg.MaxSessions, _ = flags.GetInt("max-sessions")
	}
	if flags.Changed("watch") {
		cfg.Watch, _ = flags.GetBool("watch")
	}
	if noLive, _ := flags.GetBool("no-live"); noLive {
		cfg.LivePreview = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sch, err := a.loadSchema(ctx)
	if err != nil {
		return err
	}
	srv, err := server.New(sch,
		server.WithLogger(a.logger),
		server.WithThemes(render.NewThemeSet(), cfg.Theme, cfg.ThemeVariant),
		server.WithLocale(cfg.Locale),
		server.WithMaxSessions(cfg.MaxSessions),
		server.WithLivePreview(cfg.LivePreview),
		server.WithPageAddress(cfg.PageAddress),
		server.WithRequestTimeout(cfg.RequestTimeout),
	)
	if err != nil {
		return err
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return srv.ListenAndServe(ctx, cfg.Addr, cfg.ShutdownGrace)
	})
	if cfg.Watch {
		if isRemote(cfg.Schema) {
			a.logger.Warn("watch ignored for remote schema", "schema", cfg.Schema)
		} else {
			group.Go(func() error {
				return srv.Watch(ctx, cfg.Schema, func(ctx context.Context) (*schema.Schema, error) {
					return a.loadSchema(ctx)
				})
			})
		}
	}
	a.logger.Info("serving", "addr", cfg.Addr, "schema", cfg.Schema, "watch", cfg.Watch)
	return group.Wait()
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
