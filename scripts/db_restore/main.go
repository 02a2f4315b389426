package main

import (
	"fmt"
	"os"

	"sizewise/internal/backup"
	"sizewise/internal/config"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: db_restore <backup-name>")
		os.Exit(1)
	}
	name := os.Args[1]

	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	mgr := backup.NewManager(cfg.DatabasePath, cfg.Backup.Dir, cfg.Backup.Keep, nil)
	if err := mgr.Restore(name); err != nil {
		fmt.Fprintf(os.Stderr, "Restore error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Database restore completed from %s\n", name)
}
