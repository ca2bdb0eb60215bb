package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/aegis/internal/config"
)

func main() {
	var (
		flagConfigPath = ""
		flagEnvFile    = ".env"
	)

	root := &cobra.Command{
		Use:   "aegis",
		Short: "Motor de moderación y control de acceso por scopes",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagEnvFile != "" && fileExists(flagEnvFile) {
				if err := godotenv.Load(flagEnvFile); err == nil {
					log.Printf("dotenv: cargado %s", flagEnvFile)
				}
			}
		},
	}
	root.PersistentFlags().StringVar(&flagConfigPath, "config", flagConfigPath, "ruta a config.yaml (fallback: $CONFIG_PATH o configs/config.yaml)")
	root.PersistentFlags().StringVar(&flagEnvFile, "env-file", flagEnvFile, "ruta a .env (si existe, se carga)")

	root.AddCommand(newServeCmd(&flagConfigPath))
	root.AddCommand(newMigrateCmd(&flagConfigPath))
	root.AddCommand(newSeedCmd(&flagConfigPath))

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resuelve la ruta efectiva del YAML y lo carga.
func loadConfig(flagPath string) (*config.Config, error) {
	path := flagPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		if fileExists("configs/config.yaml") {
			path = "configs/config.yaml"
		} else {
			path = "configs/config.example.yaml"
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func fileExists(p string) bool {
	if p == "" {
		return false
	}
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}
