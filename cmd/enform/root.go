package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/zoobzio/enform"
	"go.uber.org/zap"
)

const envPrefix = "ENFORM"

// cli carries the state shared by every subcommand.
type cli struct {
	v   *viper.Viper
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{
		v:   viper.New(),
		log: zap.NewNop(),
	}
	c.v.SetEnvPrefix(envPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "enform",
		Short:         "Validate form values and follow form defaults",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			log, err := newLogger(c.v.GetBool("debug"))
			if err != nil {
				return fmt.Errorf("failed to build logger: %w", err)
			}
			c.log = log
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = c.log.Sync() //nolint:errcheck // stderr sync fails on some terminals
		},
	}

	cmd.PersistentFlags().String("format", "", "document format: json or yaml (default: from file extension)")
	cmd.PersistentFlags().Bool("debug", false, "log at debug level")

	cmd.AddCommand(newCheckCmd(c), newWatchCmd(c))
	return cmd
}

// codecFor picks the codec for path. format overrides the file extension.
func codecFor(path, format string) (enform.Codec, error) {
	switch strings.ToLower(format) {
	case "json":
		return enform.JSONCodec{}, nil
	case "yaml", "yml":
		return enform.YAMLCodec{}, nil
	case "":
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return enform.YAMLCodec{}, nil
	default:
		return enform.JSONCodec{}, nil
	}
}
