package main

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"hubchat/internal/blob"
	"hubchat/internal/config"
	"hubchat/internal/hub"
	"hubchat/internal/inference"
	"hubchat/internal/session"
	"hubchat/internal/store"
	"hubchat/internal/ui"
)

func main() {
	// Pick up HF_TOKEN and friends from a local .env, if present.
	_ = godotenv.Load()

	// The TUI owns the terminal; route logs to a file in debug mode,
	// drop them otherwise.
	if os.Getenv("HUBCHAT_DEBUG") != "" {
		f, err := tea.LogToFile("hubchat.log", "hubchat")
		if err == nil {
			defer f.Close()
		}
	} else {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	blobs, err := blob.NewStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer blobs.Close()

	// The session side-channel is best effort; the app runs without it.
	sessions, err := store.Open()
	if err != nil {
		log.Printf("session store unavailable: %v", err)
		sessions = nil
	} else {
		defer sessions.Close()
	}

	state := session.NewState(cfg.DefaultModels)
	state.SetToken(cfg.Hub.Token)

	hubClient := hub.New(cfg.Hub.URL, cfg.Hub.Token)
	infClient := inference.New(cfg.Inference.URL, cfg.Hub.Token, cfg.Inference.PinnedProviders)
	dispatcher := session.NewDispatcher(infClient, blobs, cfg.CreditErrorMarkers)

	app := ui.New(cfg, state, dispatcher, hubClient, sessions, blobs)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
