package main

import (
	"errors"
	"time"

	"github.com/spf13/cobra"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/enform"
	"go.uber.org/zap"
)

func newWatchCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow a defaults file and log every reconfiguration",
		Long: `watch loads a defaults document into a form and keeps following the
file. Saving the same defaults leaves the form alone; changed defaults
reset it. Runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := c.v.GetString("file")
			if path == "" {
				return errors.New("--file is required")
			}
			codec, err := codecFor(path, c.v.GetString("format"))
			if err != nil {
				return err
			}

			var validation enform.Validation
			if rulesPath := c.v.GetString("rules"); rulesPath != "" {
				validation, err = readRules(rulesPath, c.v.GetString("format"))
				if err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			logEvents(c.log)
			defer capitan.Shutdown()

			form := enform.New(enform.Values{},
				enform.WithName(path),
				enform.WithContext(ctx),
				enform.WithValidation(validation),
			)
			form.Subscribe(func(s enform.Snapshot) {
				c.log.Info("form snapshot",
					zap.Any("values", s.Values),
					zap.Strings("invalid", s.Errors.Invalid()),
					zap.Stringer("status", s.Status),
				)
			})

			reloader := enform.NewReloader(form, enform.NewFileWatcher(path)).
				Codec(codec).
				Debounce(c.v.GetDuration("debounce")).
				ErrorHistorySize(5)

			if err := reloader.Start(ctx); err != nil {
				c.log.Warn("initial defaults failed", zap.Error(err))
			}

			<-ctx.Done()
			c.log.Info("stopped",
				zap.Stringer("state", reloader.State()),
				zap.Int64("reconfigured", reloader.Reconfigured()),
				zap.Errors("recent_errors", reloader.ErrorHistory()),
			)
			return nil
		},
	}

	cmd.Flags().String("file", "", "defaults document to follow")
	cmd.Flags().String("rules", "", "rules document mapping fields to validator tags")
	cmd.Flags().Duration("debounce", 100*time.Millisecond, "quiet period before a change is applied")
	return cmd
}
