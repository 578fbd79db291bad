package common

import (
	"fmt"
	"io"
	"strings"

	"github.com/ternarybob/banner"
)

var glossaArt = []string{
	`   .d8888b.  888      .d88888b.   .d8888b.   .d8888b.        d8888`,
	`  d88P  Y88b 888     d88P" "Y88b d88P  Y88b d88P  Y88b      d88888`,
	`  888    888 888     888     888 Y88b.      Y88b.          d88P888`,
	`  888        888     888     888  "Y888b.    "Y888b.      d88P 888`,
	`  888  88888 888     888     888     "Y88b.     "Y88b.   d88P  888`,
	`  888    888 888     888     888       "888       "888  d88P   888`,
	`  Y88b  d88P 888     Y88b. .d88P Y88b  d88P Y88b  d88P d8888888888`,
	`   "Y8888P88 88888888 "Y88888P"   "Y8888P"   "Y8888P" d88P     888`,
}

// ServiceURL is the base URL the server listens on.
func (c *Config) ServiceURL() string {
	return fmt.Sprintf("http://%s:%d", c.Server.Host, c.Server.Port)
}

// PrintBanner writes the startup banner to w and logs the same facts.
// termCount is the number of unique terms loaded at warm-up; a negative
// value means the glossary failed to load.
func PrintBanner(w io.Writer, config *Config, logger *Logger, termCount int) {
	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite
	hr := lineColor + strings.Repeat("═", 70) + banner.ColorReset

	terms := fmt.Sprintf("%d", termCount)
	if termCount < 0 {
		terms = "unavailable (retried on first request)"
	}

	base := config.ServiceURL()
	sections := []struct {
		title string
		rows  [][2]string
	}{
		{"", [][2]string{
			{"Version", GetVersion()},
			{"Build", GetBuild()},
			{"Commit", GetGitCommit()},
			{"Environment", config.Environment},
		}},
		{"Glossary", [][2]string{
			{"Source", config.Glossary.Source},
			{"Terms", terms},
			{"Watching", fmt.Sprintf("%t", config.Glossary.Watch && config.Glossary.Source == "file")},
		}},
		{"Endpoints", [][2]string{
			{"REST", base + "/api/glossary"},
			{"Live", strings.Replace(base, "http", "ws", 1) + "/api/glossary/live"},
			{"MCP", base + "/mcp"},
			{"Metrics", base + "/metrics"},
		}},
	}

	fmt.Fprintf(w, "\n%s\n\n", hr)
	for _, line := range glossaArt {
		fmt.Fprintf(w, "%s%s%s\n", textColor, line, banner.ColorReset)
	}
	fmt.Fprintf(w, "\n%s  Web3 Glossary & Term Lookup%s\n\n%s\n", textColor, banner.ColorReset, hr)

	for _, sec := range sections {
		fmt.Fprintln(w)
		if sec.title != "" {
			fmt.Fprintf(w, "%s  %s%s\n", lineColor, sec.title, banner.ColorReset)
		}
		for _, kv := range sec.rows {
			fmt.Fprintf(w, "%s  %-16s %s%s\n", textColor, kv[0], kv[1], banner.ColorReset)
		}
	}
	fmt.Fprintf(w, "\n%s\n\n", hr)

	logger.Info().
		Str("version", GetVersion()).
		Str("build", GetBuild()).
		Str("commit", GetGitCommit()).
		Str("environment", config.Environment).
		Str("service_url", base).
		Str("term_source", config.Glossary.Source).
		Int("terms", termCount).
		Msg("Application started")
}

// PrintShutdownBanner writes the shutdown banner to w.
func PrintShutdownBanner(w io.Writer, logger *Logger) {
	hr := banner.ColorCyan + strings.Repeat("═", 42) + banner.ColorReset

	fmt.Fprintf(w, "\n%s\n", hr)
	fmt.Fprintf(w, "%s  GLOSSA SHUTTING DOWN%s\n", banner.ColorBold+banner.ColorWhite, banner.ColorReset)
	fmt.Fprintf(w, "%s\n\n", hr)

	logger.Info().Msg("Application shutting down")
}
