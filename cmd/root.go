package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lxcforge/internal/config"
	"lxcforge/internal/dialog"
	"lxcforge/internal/i18n"
	"lxcforge/internal/logging"
	"lxcforge/internal/pct"
	"lxcforge/internal/wizard"
)

var (
	flagDryRun     bool
	flagConfigPath string
	flagLanguage   string
)

// rootCmd runs the provisioning wizard directly; there are no
// subcommands.
var rootCmd = &cobra.Command{
	Use:   "lxcforge",
	Short: "Interactively provision an LXC container",
	Long: `lxcforge walks through an interactive, staged workflow to provision a
single LXC container on the local virtualization host: it allocates a
free container ID, validates operator input, resolves a disk template
and SSH credential material, creates and starts the container and
applies locale, timezone and SSH settings inside it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfigPath)
		if err != nil {
			return err
		}

		if err := logging.InitLogger(cfg.LogDir); err != nil {
			return err
		}
		logging.Logger().Info("starting provisioning run",
			zap.String("log_file", logging.FilePath()), zap.Bool("dry_run", flagDryRun))

		lang := cfg.Language
		if flagLanguage != "" {
			lang = flagLanguage
		}
		catalog, err := i18n.Load(lang)
		if err != nil {
			return err
		}
		if err := catalog.Export(); err != nil {
			return err
		}

		w := wizard.New(cfg, catalog, dialog.NewTerminal(), pct.NewCLI(cfg.PctBinary),
			wizard.Options{DryRun: flagDryRun})

		return w.Run(context.Background())
	},
}

func init() {
	rootCmd.Flags().BoolVarP(&flagDryRun, "dry-run", "n", false,
		"resolve all parameters and print the container spec without creating anything")
	rootCmd.Flags().StringVarP(&flagConfigPath, "config", "c", "",
		"path to the configuration file")
	rootCmd.Flags().StringVarP(&flagLanguage, "lang", "l", "",
		"dialog language, overrides the configured one")
}

// Execute runs the root command; any fatal abort exits non-zero.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logging.Logger().Error("provisioning run failed", zap.Error(err))
		_ = logging.Sync()
		os.Exit(1)
	}
}
