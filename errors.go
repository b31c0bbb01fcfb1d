package models

import "errors"

// Sentinel errors for artifact acquisition.
// Use errors.Is() to check for specific error conditions.
var (
	// ErrModelNotFound indicates the weights do not exist at the source URL.
	ErrModelNotFound = errors.New("models: model not found at source")

	// ErrNetworkError indicates a network or connection failure during fetch.
	ErrNetworkError = errors.New("models: network error")

	// ErrExportError indicates the ONNX export failed or produced no output.
	ErrExportError = errors.New("models: export failed")

	// ErrExporterNotFound indicates the external export tool is not available.
	ErrExporterNotFound = errors.New("models: exporter not found")

	// ErrHashMismatch indicates downloaded data failed hash verification.
	ErrHashMismatch = errors.New("models: hash verification failed")

	// ErrStorageError indicates a filesystem operation failed.
	ErrStorageError = errors.New("models: storage error")
)
