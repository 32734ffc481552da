package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/notifly-dev/notifly/pkg/fswatch"
	"github.com/notifly-dev/notifly/pkg/instrument"
	"github.com/notifly-dev/notifly/pkg/notify"
	"github.com/notifly-dev/notifly/pkg/obslist"
)

func watchCmd() *cobra.Command {
	var (
		metricsAddr string
		debug       bool
	)

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Mirror a directory into an observable list and print changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := slog.New(slog.NewTextHandler(os.Stderr, nil))
			notify.DebugMode = debug

			list := obslist.New[string]()
			list.AttachListChanged(func(_ any, ev obslist.Event[string]) {
				log.Info("list changed",
					"action", ev.Action.String(),
					"items", ev.Items,
					"newIndex", ev.NewIndex,
					"oldIndex", ev.OldIndex,
				)
			})

			if metricsAddr != "" {
				collector := instrument.New()
				collector.Observe(list)
				instrument.ObserveList(collector, list)
				go func() {
					mux := http.NewServeMux()
					mux.Handle("/metrics", promhttp.Handler())
					if err := http.ListenAndServe(metricsAddr, mux); err != nil {
						log.Error("metrics server", "error", err)
					}
				}()
				log.Info("serving metrics", "addr", metricsAddr)
			}

			w, err := fswatch.New(args[0], list)
			if err != nil {
				return err
			}
			defer w.Close()
			log.Info("watching", "root", w.Root(), "seeded", list.Len())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := w.Start(ctx); err != nil && err != context.Canceled {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics", "", "serve Prometheus metrics on this address (e.g. :9090)")
	cmd.Flags().BoolVar(&debug, "debug", false, "validate member names on every notification")
	return cmd
}
