// Package commands implements the prodcrawl CLI commands, in the
// teacher's cmd/refyne/commands idiom: one cobra root with
// viper-bound global flags, and one file per subcommand.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/prodcrawl/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "prodcrawl",
	Short: "Distributed product-URL discovery crawler",
	Long: `prodcrawl discovers product-page URLs on e-commerce sites by fetching
HTML, applying multiple independent URL extractors, following pagination
and category links, and persisting de-duplicated results per task and
domain.

Examples:
  # Run a crawl synchronously and print the aggregate report
  prodcrawl crawl --domain https://shop.example.com --max-depth 2

  # Start the Control API
  prodcrawl serve --addr :8080

  # Poll a task dispatched to a running server
  prodcrawl task status crawl-deadbeef --server http://localhost:8080`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress progress output")
	rootCmd.PersistentFlags().String("server", "http://localhost:8080", "Control API base URL (task/urls commands)")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server"))
}

func initConfig() {
	viper.AutomaticEnv()

	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
	})
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
