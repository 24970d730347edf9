// Command handsign recognizes static hand gestures and triggers plugin actions.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is the application version.
const Version = "0.1.0"

// Options holds the settings shared by every subcommand.
type Options struct {
	DataDir   string
	DBPath    string
	PluginDir string
}

var opts Options

var rootCmd = &cobra.Command{
	Use:           "handsign",
	Short:         "Hand gesture recognition from 21-point hand landmarks",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return resolveOptions(cmd, &opts)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.DataDir, "data-dir", "", "data directory (default ~/.handsign, env HANDSIGN_DATA)")
	flags.StringVar(&opts.DBPath, "db", "", "SQLite database path (default <data-dir>/handsign.db, env HANDSIGN_DB)")
	flags.StringVar(&opts.PluginDir, "plugins", "", "plugin directory (default <data-dir>/plugins, env HANDSIGN_PLUGINS)")
}

// resolveOptions fills unset flags from the environment and then from the
// defaults under the data directory.
func resolveOptions(cmd *cobra.Command, o *Options) error {
	fromEnv(cmd, "data-dir", "HANDSIGN_DATA", &o.DataDir)
	fromEnv(cmd, "db", "HANDSIGN_DB", &o.DBPath)
	fromEnv(cmd, "plugins", "HANDSIGN_PLUGINS", &o.PluginDir)

	if o.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("get home directory: %w", err)
		}
		o.DataDir = filepath.Join(home, ".handsign")
	}
	if o.DBPath == "" {
		o.DBPath = filepath.Join(o.DataDir, "handsign.db")
	}
	if o.PluginDir == "" {
		o.PluginDir = filepath.Join(o.DataDir, "plugins")
	}
	return nil
}

// fromEnv sets *dst from the environment variable key unless the flag was
// given on the command line.
func fromEnv(cmd *cobra.Command, flag, key string, dst *string) {
	if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
		return
	}
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// flagFromEnv sets a typed flag from the environment unless it was given on
// the command line.
func flagFromEnv(cmd *cobra.Command, flag, key string) error {
	f := cmd.Flags().Lookup(flag)
	if f == nil || f.Changed {
		return nil
	}
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	if err := f.Value.Set(v); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

func main() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
