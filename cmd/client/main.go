package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/sigongjoa/Concept-Gacha/internal/client"
)

var (
	version   string
	buildDate string
)

// defaultSessionPath keeps the selected student in the user's config dir.
func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "concept-gacha", "session.json")
}

// main parses flags and starts the interactive review shell.
func main() {
	var (
		baseURL     string
		sessionPath string
		showVer     bool
	)

	pflag.StringVarP(&baseURL, "url", "u", "http://localhost:3000", "server base URL")
	pflag.StringVar(&sessionPath, "session", defaultSessionPath(), "file remembering the selected student")
	pflag.BoolVar(&showVer, "version", false, "show build version and date")
	pflag.Parse()

	if showVer {
		fmt.Printf("Concept Gacha Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	session, err := client.LoadSession(sessionPath)
	if err != nil {
		log.Fatalf("failed to load session: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shell := client.NewShell(client.New(baseURL, nil), session, os.Stdin, os.Stdout)
	if err := shell.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal(err)
	}
}
