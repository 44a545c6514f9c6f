package parkctl

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/parkspot/pkg/logger"
)

// SetupLogging sends log output to stderr and, when logFile is set, to a
// rotated file. Verbose enables debug output; otherwise only warnings show.
func SetupLogging(logFile string, verbose bool) error {
	if err := logger.Init(logger.WithOutput(os.Stderr), logger.WithFile(logFile)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	level := "warn"
	if verbose {
		level = "debug"
	}
	return logger.SetLevelString(level)
}

// ShowHelp prints usage information.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `parkctl - command-line client for the parking reservation API
==============================================================

Usage:
  parkctl [options] <command> [arguments]

Commands:
  get PATH              Read PATH, e.g. "get /parkinglots"
  post PATH [JSON]      Create at PATH with an optional JSON body
  put PATH [JSON]       Update PATH with an optional JSON body
  delete PATH           Delete PATH
  login USER PASSWORD   Log in and remember the returned role
  logout                Log out and forget the role
  whoami                Print the remembered role
  route PATH            Show which view PATH opens and whether it is allowed
  help                  Show this help message

Options:
  -url string       Origin serving the API (default from PARKSPOT_BASE_URL)
  -root string      API root prefix (default from PARKSPOT_API_ROOT)
  -session string   Session file, empty for memory only (default from PARKSPOT_SESSION_FILE)
  -timeout duration Per-request timeout, 0 for none
  -log string       Also write logs to this file
  -verbose          Enable debug logging

Examples:
  parkctl login alice s3cret
  parkctl get /parkinglots
  parkctl post /parkinglots/3/reserve '{"vehicle_number":"KA01AB1234"}'
  parkctl route /admin/lots/3/spots
`)
}
