package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	configcmd "github.com/Iron-Ham/procdash/internal/cmd/config"
	"github.com/Iron-Ham/procdash/internal/cmd/dashboard"
	"github.com/Iron-Ham/procdash/internal/cmd/observability"
	"github.com/Iron-Ham/procdash/internal/cmd/requests"
	"github.com/Iron-Ham/procdash/internal/cmd/session"
	"github.com/Iron-Ham/procdash/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "procdash",
	Short: "Terminal dashboard for purchase requests",
	Long: `procdash browses purchase requests from the procurement API.

Run without a subcommand to open the interactive dashboard. Typed filters
are committed after a short quiet period, the page-size and column
dropdowns close on any click outside them, and the header shows the
unfiltered total next to the number of matches.`,
	SilenceUsage: true,
	RunE:         dashboard.Run,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/procdash/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	dashboard.Register(rootCmd)
	session.Register(rootCmd)
	requests.Register(rootCmd)
	configcmd.Register(rootCmd)
	observability.Register(rootCmd)
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("PROCDASH")
	// e.g., PROCDASH_API_BASE_URL for api.base_url
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
