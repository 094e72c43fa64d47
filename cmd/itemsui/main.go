// Command itemsui is the terminal client for the items API.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"simple-crud/client"
	"simple-crud/ui"
)

func main() {
	apiURL := flag.String("api", "http://localhost:5000", "base URL of the items API")
	timeout := flag.Duration("timeout", 10*time.Second, "per-request timeout")
	logPath := flag.String("log", "", "write debug logs to this file")
	flag.Parse()

	if *logPath != "" {
		f, err := tea.LogToFile(*logPath, "itemsui")
		if err != nil {
			fmt.Fprintf(os.Stderr, "opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	api := client.New(*apiURL, *timeout)
	model := ui.NewModel(ui.NewSession(api), *timeout)

	log.Printf("connecting to %s", *apiURL)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "itemsui: %v\n", err)
		os.Exit(1)
	}
}
