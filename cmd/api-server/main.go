package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fisker/crm-backend/internal/app"
)

func main() {
	configPath := flag.String("config", "", "config file path (default: $CRM_CONFIG or config/config.yaml)")
	flag.Parse()

	// Initialize application
	application, err := app.Initialize(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	// Start server
	app.StartServer(application.Config, application.Handlers)
}
