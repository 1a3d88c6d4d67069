package main

import (
	"flag"
	"log"
	"os"

	"CollegeROI/internal/di"
	"CollegeROI/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s estimator=%s recorder=%s narrative=%s",
		cfg.Environment, cfg.Estimator.Backend, cfg.Recorder.Backend, cfg.Narrative.Provider)

	app, cleanup, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	// Run application (blocks until signal)
	err = app.Run()
	cleanup()
	if err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
