package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"geosquare/internal/assets"
	"geosquare/internal/config"
	"geosquare/internal/geom"
	"geosquare/internal/logging"
	"geosquare/internal/tui"
)

var (
	configFile string
	token      string
	printShape bool
)

var rootCmd = &cobra.Command{
	Use:   "geosquare",
	Short: "Draw a square region on a terminal map",
	Long: `Opens an interactive map in the terminal. Press s or click the square
button, then drag (or click twice) to draw a square. Only one square is kept.`,
	SilenceUsage: true,
	RunE:         runMap,
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download and cache the map assets",
	Long:  `Loads the stylesheets and scripts once, filling the asset cache, and reports the result.`,
	RunE:  runFetch,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (default ./config.yaml or ./configs/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&token, "token", "t", "", "Map access token (overrides map.access_token)")
	rootCmd.Flags().BoolVarP(&printShape, "print", "p", false, "Print the square as GeoJSON and WKT on exit")

	rootCmd.AddCommand(fetchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if token != "" {
		cfg.Map.AccessToken = token
	}
	return cfg, nil
}

func bootstrapper(cfg *config.Config) *assets.Bootstrapper {
	return &assets.Bootstrapper{
		Registry:   assets.Default(),
		Loader:     assets.NewLoader(cfg.Assets.Timeout, cfg.Map.AccessToken, cfg.Assets.CacheDir, cfg.Map.TokenHosts...),
		Assets:     cfg.Assets.Set(),
		Installers: tui.Installers(),
	}
}

func runMap(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	w, err := logging.Open(cfg.Log.File)
	if err != nil {
		return err
	}
	defer w.Close()
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format, w)

	b := bootstrapper(cfg)
	b.Logger = logger
	model := tui.New(tui.Options{
		Bootstrapper: b,
		Center:       cfg.Map.Center(),
		Zoom:         cfg.Map.Zoom,
		Timeout:      2 * cfg.Assets.Timeout,
		Logger:       logger,
	})

	final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	if err != nil {
		return err
	}
	if !printShape {
		return nil
	}
	m, ok := final.(tui.Model)
	if !ok {
		return nil
	}
	f := m.Shape()
	if f == nil {
		fmt.Fprintln(os.Stderr, "no square drawn")
		return nil
	}
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode square: %w", err)
	}
	fmt.Println(string(data))
	fmt.Println(geom.WKT(f.Geometry))
	return nil
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	b := bootstrapper(cfg)
	b.Logger = logger

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*cfg.Assets.Timeout)
	defer cancel()
	start := time.Now()
	if err := b.EnsureAssets(ctx); err != nil {
		return err
	}
	logger.Info("assets ready", "injected", b.Registry.Injected(), "took", time.Since(start).Round(time.Millisecond))
	return nil
}
