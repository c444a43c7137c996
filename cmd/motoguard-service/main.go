package main

import (
	"flag"
	"os"

	"github.com/motoguard/motoguard/emergencyservice"
	"github.com/motoguard/motoguard/internal/config"
	"github.com/motoguard/motoguard/internal/logger"
)

func main() {
	// Optional build-target flag override (local | server)
	buildTarget := flag.String("build-target", "", "Override BUILD_TARGET (local, server)")
	flag.Parse()

	if *buildTarget != "" {
		log := logger.New("motoguard")
		// Propagate through the environment so config.New sees it.
		if err := os.Setenv("MOTOGUARD_BUILD_TARGET", *buildTarget); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply build-target override")
		}
		// Validate early for a clear error message.
		if _, err := config.New(); err != nil {
			log.Fatal().Err(err).Msg("Invalid build-target override")
		}
	}

	if err := emergencyservice.Run(); err != nil {
		os.Exit(1)
	}
}
