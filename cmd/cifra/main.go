// Package main is the cifra command line: fetch a chord sheet, transpose it
// and print or export it.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sukalov/cifrabot/internal/httputil"
	"github.com/sukalov/cifrabot/internal/logger"
	"github.com/sukalov/cifrabot/internal/redis"
	"github.com/sukalov/cifrabot/internal/render"
	"github.com/sukalov/cifrabot/internal/sheets"
	"github.com/sukalov/cifrabot/internal/utils"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "cifra",
	Short: "Fetch and transpose chord sheets",
	Long: `cifra downloads chord sheets from cifraclub.com.br (and amdm.ru by URL),
transposes them by a number of semitones or to a target key, and prints them
or saves them as a two column PDF.

Sheets are fetched with get, browsed with interactive, and rendered in bulk
with setlist. transpose works on local text without any network access.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		if verbose || viper.GetBool("verbose") {
			logger.Init(logger.NewWriterSink(cmd.ErrOrStderr()))
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./cifra.yaml or ~/.config/cifra/cifra.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log fetches and cache hits to stderr")
	rootCmd.PersistentFlags().String("output-dir", "", "directory for generated PDFs (default ./pdf)")
	_ = viper.BindPFlag("output_dir", rootCmd.PersistentFlags().Lookup("output-dir"))

	viper.SetDefault("output_dir", render.DefaultPDFDir)
	viper.SetDefault("timeout", httputil.DefaultTimeout)
	viper.SetDefault("user_agent", "")
	viper.SetDefault("redis_url", "")
	viper.SetDefault("redis_password", "")
}

func initConfig() {
	// .env values become plain environment variables for AutomaticEnv
	utils.OptionalEnv(nil)

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("cifra")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "cifra"))
		}
	}

	viper.SetEnvPrefix("CIFRA")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newService builds the sheet service from config. The returned func
// releases the redis cache when one was configured.
func newService(ctx context.Context) (*sheets.Service, func()) {
	client := httputil.NewClient(httputil.Options{
		Timeout:   viper.GetDuration("timeout"),
		UserAgent: viper.GetString("user_agent"),
	})

	opts := sheets.Options{}
	cleanup := func() {}

	if url := viper.GetString("redis_url"); url != "" {
		r, err := redis.NewDBManager(url, viper.GetString("redis_password"))
		switch {
		case err != nil:
			logger.Error(fmt.Sprintf("ignoring redis cache: %v", err))
		case r.Ping(ctx) != nil:
			logger.Error(fmt.Sprintf("redis at %s is unreachable, fetching without cache", url))
			r.Close()
		default:
			opts.Cache = r
			cleanup = func() { r.Close() }
		}
	}

	return sheets.NewService(client, opts), cleanup
}

func outputDir() string {
	if dir := viper.GetString("output_dir"); dir != "" {
		return dir
	}
	return render.DefaultPDFDir
}

func main() {
	rootCmd.SetArgs(escapeNegativeShifts(rootCmd, os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
