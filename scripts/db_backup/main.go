package main

import (
	"fmt"
	"os"

	"sizewise/internal/backup"
	"sizewise/internal/config"
)

func main() {
	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	mgr := backup.NewManager(cfg.DatabasePath, cfg.Backup.Dir, cfg.Backup.Keep, nil)
	name, err := mgr.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Backup error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Database backup completed: %s\n", name)
}
