package handler

import (
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// createProgressBar creates a progress bar if conditions are met
// Returns nil if progress bar should not be displayed
func createProgressBar(total int, description string, logLevel string, logFormat string) *progressbar.ProgressBar {
	// No bar when stdout is piped, when debug logs are wanted or when logs are json
	showProgress := isatty.IsTerminal(os.Stdout.Fd()) &&
		strings.ToLower(logLevel) != "debug" &&
		strings.ToLower(logFormat) != "json"

	if !showProgress || total == 0 {
		return nil
	}

	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(15),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetRenderBlankState(false),
	)
}
