package cli

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
)

// CLIProgressReporter implements pipeline progress reporting with a file
// progress bar.
type CLIProgressReporter struct {
	quiet   bool
	fileBar *progressbar.ProgressBar
}

// NewCLIProgressReporter creates a new CLI progress reporter. When quiet is
// set all output is suppressed.
func NewCLIProgressReporter(quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{quiet: quiet}
}

func (c *CLIProgressReporter) OnDiscoveryComplete(files int) {
	if c.quiet {
		return
	}
	fmt.Printf("Discovered %d source files\n", files)
}

func (c *CLIProgressReporter) OnFileProcessingStart(total int) {
	if c.quiet || total == 0 {
		return
	}
	c.fileBar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Extracting signatures"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
}

func (c *CLIProgressReporter) OnFileProcessed(path string) {
	if c.quiet || c.fileBar == nil {
		return
	}
	c.fileBar.Add(1)
}

func (c *CLIProgressReporter) OnComplete(signatures, validationErrors int) {
	if c.quiet {
		return
	}
	fmt.Printf("Cataloged %d signatures (%d validation errors)\n", signatures, validationErrors)
}
