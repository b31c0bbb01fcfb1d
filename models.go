package models

import (
	"context"
	"fmt"
	"net/http"
)

// Manager provides programmatic access to artifact acquisition.
// All methods are safe for concurrent use.
// For CLI integration, use NewCommand instead.
type Manager interface {
	// Acquire ensures the output directory exists, obtains the PyTorch
	// weights (fetching when absent) and produces the ONNX export (skipped
	// when already present). Failures never panic and are reported per
	// step in the result; Acquire itself always returns a usable result so
	// callers can proceed to Verify regardless.
	Acquire(ctx context.Context, opts ...AcquireOption) AcquireResult

	// Verify checks that both expected artifacts exist on disk and
	// reports per-artifact status. It is a pure function of filesystem
	// state with no side effects.
	Verify(ctx context.Context) Report

	// WeightsPath returns the expected path of the PyTorch weights.
	WeightsPath() string

	// ONNXPath returns the expected path of the ONNX artifact.
	ONNXPath() string

	// Dir returns the resolved output directory.
	Dir() string
}

// Ensure manager implements Manager interface.
var _ Manager = (*manager)(nil)

// NewManager creates a new Manager with the given configuration.
// Zero-value Config fields fall back to package defaults.
func NewManager(cfg Config, opts ...ManagerOption) (Manager, error) {
	if cfg.ImageSize < 0 {
		return nil, fmt.Errorf("models: invalid image size %d", cfg.ImageSize)
	}
	if cfg.WeightsURL == "" {
		cfg.WeightsURL = DefaultWeightsURL
	}
	if cfg.ImageSize == 0 {
		cfg.ImageSize = DefaultImageSize
	}

	mcfg := &managerConfig{
		httpClient: &http.Client{Timeout: DefaultRequestTimeout},
	}
	for _, opt := range opts {
		opt(mcfg)
	}
	if mcfg.exporter == nil {
		mcfg.exporter = &yoloExporter{logger: mcfg.logger}
	}

	storage := newStorage(cfg)

	return &manager{
		cfg:      cfg,
		logger:   mcfg.logger,
		storage:  storage,
		fetcher:  newFetcher(cfg.WeightsURL, mcfg.httpClient, mcfg.logger),
		exporter: mcfg.exporter,
	}, nil
}
