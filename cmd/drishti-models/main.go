// Command drishti-models downloads the pretrained YOLOv8n weights and
// exports them to ONNX for the detection pipeline.
//
// Running it with no arguments performs the full sequence: acquire both
// artifacts into models/, then verify and print a per-file report. That
// run always exits 0; the printed report is the interface. Subcommands
// (fetch, verify, path) return differentiated exit codes.
//
// The output directory can be overridden via the DRISHTI_MODELS_DIR
// environment variable.
package main

import (
	"errors"
	"os"

	models "github.com/deepeshdevloper/Divya-Drishti"
)

// CLI exit codes for standardized error reporting.
const (
	// ExitSuccess indicates the operation completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitInvalidArgs indicates invalid command line arguments.
	ExitInvalidArgs = 2

	// ExitModelNotFound indicates the weights were not found at the source.
	ExitModelNotFound = 3

	// ExitNetworkError indicates a network or connection failure.
	ExitNetworkError = 4

	// ExitExportError indicates the ONNX export failed or is unavailable.
	ExitExportError = 5

	// ExitHashMismatch indicates hash verification failed.
	ExitHashMismatch = 6

	// ExitStorageError indicates a filesystem operation failed.
	ExitStorageError = 7
)

func main() {
	cmd := models.NewCommand(models.Config{})
	if err := cmd.Execute(); err != nil {
		os.Exit(exitCodeFromError(err))
	}
}

// exitCodeFromError maps error types to exit codes.
func exitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, models.ErrModelNotFound):
		return ExitModelNotFound
	case errors.Is(err, models.ErrNetworkError):
		return ExitNetworkError
	case errors.Is(err, models.ErrExporterNotFound):
		return ExitExportError
	case errors.Is(err, models.ErrExportError):
		return ExitExportError
	case errors.Is(err, models.ErrHashMismatch):
		return ExitHashMismatch
	case errors.Is(err, models.ErrStorageError):
		return ExitStorageError
	default:
		return ExitGeneralError
	}
}
