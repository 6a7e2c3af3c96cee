package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"rpd/internal/di"
	"rpd/internal/structures"
)

func main() {
	// Optional .env, loaded before viper binds environment overrides.
	_ = godotenv.Load()

	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "config.yaml", "path to the YAML config file")
	flag.BoolVar(&flags.DebugMode, "debug", false, "duplicate logs to stderr")
	flag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "rpd: %s\n", err)
		os.Exit(1)
	}
}
