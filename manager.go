package models

import (
	"context"
	"fmt"
	"sync"
)

// manager is the concrete implementation of the Manager interface.
type manager struct {
	// cfg holds the module configuration with defaults applied.
	cfg Config

	// logger receives diagnostic messages. May be nil.
	logger Logger

	// storage handles local filesystem operations.
	storage *storage

	// fetcher downloads the weights.
	fetcher *fetcher

	// exporter produces the ONNX artifact.
	exporter Exporter

	// acquireMu serializes in-process Acquire calls.
	acquireMu sync.Mutex
}

// Acquire runs the acquisition sequence. Each step is idempotent: a weights
// file already in the output directory is not re-fetched and an existing
// ONNX artifact short-circuits the export, unless WithForce is given.
func (m *manager) Acquire(ctx context.Context, opts ...AcquireOption) AcquireResult {
	cfg := &acquireConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	res := AcquireResult{
		WeightsPath: m.storage.artifactPath(WeightsFile),
		ONNXPath:    m.storage.artifactPath(ONNXFile),
	}

	m.acquireMu.Lock()
	defer m.acquireMu.Unlock()

	if err := m.storage.ensureDir(); err != nil {
		res.WeightsErr = err
		return res
	}

	// Cross-process lock: overlapping runs would otherwise race on the
	// working-directory relocations below.
	lock, err := newFileLock(m.storage.lockPath(), DefaultLockTimeout)
	if err != nil {
		res.WeightsErr = fmt.Errorf("%w: failed to create acquire lock: %v", ErrStorageError, err)
		return res
	}
	if err := lock.Lock(); err != nil {
		res.WeightsErr = fmt.Errorf("%w: another process is acquiring models: %v", ErrStorageError, err)
		return res
	}
	defer lock.Unlock()

	res.WeightsErr = m.ensureWeights(ctx, cfg, &res)
	if res.WeightsErr != nil {
		// The export would only fail on the missing input.
		return res
	}

	res.ExportErr = m.ensureONNX(ctx, cfg, &res)
	return res
}

// ensureWeights makes the PyTorch weights available at res.WeightsPath.
func (m *manager) ensureWeights(ctx context.Context, cfg *acquireConfig, res *AcquireResult) error {
	// A previous loader invocation may have left the weights in the
	// working directory; relocation is always re-attempted.
	if _, found := m.storage.fileStatus(m.storage.workPath(WeightsFile)); found {
		if m.logger != nil {
			m.logger.Info("relocating weights from working directory", "file", WeightsFile)
		}
		if err := m.storage.moveInto(m.storage.workPath(WeightsFile), WeightsFile); err != nil {
			return err
		}
	}

	if !cfg.force {
		if _, found := m.storage.fileStatus(res.WeightsPath); found {
			if cfg.checksum != "" {
				actual, err := checksumFile(res.WeightsPath)
				if err != nil {
					return err
				}
				if actual != cfg.checksum {
					return fmt.Errorf("weights %s: got sha256 %s: %w", res.WeightsPath, actual, ErrHashMismatch)
				}
			}
			if m.logger != nil {
				m.logger.Info("weights already present", "path", res.WeightsPath)
			}
			return nil
		}
	}

	if m.logger != nil {
		m.logger.Info("Downloading YOLOv8n PyTorch model...")
	}
	if err := m.fetcher.fetch(ctx, res.WeightsPath, cfg.checksum, cfg.progressFn); err != nil {
		return err
	}
	res.Downloaded = true
	return nil
}

// ensureONNX makes the ONNX artifact available at res.ONNXPath.
// The exporter's output placement is not trusted: the artifact is looked up
// both at its final path and in the working directory after the export.
func (m *manager) ensureONNX(ctx context.Context, cfg *acquireConfig, res *AcquireResult) error {
	if m.logger != nil {
		m.logger.Info("Converting to ONNX format...")
	}

	if !cfg.force {
		if _, found := m.storage.fileStatus(res.ONNXPath); found {
			if m.logger != nil {
				m.logger.Info("ONNX artifact already present", "path", res.ONNXPath)
			}
			return nil
		}
	}

	if err := m.exporter.Export(ctx, res.WeightsPath, m.cfg.ImageSize); err != nil {
		return err
	}

	if _, found := m.storage.fileStatus(res.ONNXPath); found {
		res.Converted = true
		return nil
	}

	if _, found := m.storage.fileStatus(m.storage.workPath(ONNXFile)); found {
		if err := m.storage.moveInto(m.storage.workPath(ONNXFile), ONNXFile); err != nil {
			return err
		}
		res.Converted = true
		return nil
	}

	return fmt.Errorf("exporter produced no output at %s: %w", res.ONNXPath, ErrExportError)
}

// Verify checks the fixed artifact mapping against the filesystem.
func (m *manager) Verify(ctx context.Context) Report {
	var rep Report
	for _, a := range artifacts {
		path := m.storage.artifactPath(a.File)
		size, found := m.storage.fileStatus(path)
		rep.Files = append(rep.Files, FileStatus{
			Name:  a.Name,
			Path:  path,
			Found: found,
			Size:  size,
		})
	}
	return rep
}

// WeightsPath returns the expected path of the PyTorch weights.
func (m *manager) WeightsPath() string {
	return m.storage.artifactPath(WeightsFile)
}

// ONNXPath returns the expected path of the ONNX artifact.
func (m *manager) ONNXPath() string {
	return m.storage.artifactPath(ONNXFile)
}

// Dir returns the resolved output directory.
func (m *manager) Dir() string {
	return m.storage.dir
}
