package main

import (
	"flag"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"confchat/internal/tui"
)

func main() {
	var serverURL string
	flag.StringVar(&serverURL, "server", "http://localhost:8000", "Base URL of the chat server")
	flag.Parse()

	m := tui.New(serverURL)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}
