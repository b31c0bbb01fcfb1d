package models

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Exporter converts the PyTorch weights into an ONNX artifact.
// Implementations are treated as black boxes: the Manager does not trust
// where they place their output and relocates it after Export returns.
type Exporter interface {
	// Export produces an ONNX export of the weights at weightsPath using a
	// square imgsz input shape. The output may land beside the weights or
	// in the working directory.
	Export(ctx context.Context, weightsPath string, imgsz int) error
}

// exporterBin is the ultralytics CLI invoked by the default exporter.
const exporterBin = "yolo"

// yoloExporter shells out to the ultralytics "yolo" CLI.
type yoloExporter struct {
	// logger receives diagnostic messages. May be nil.
	logger Logger
}

// Ensure yoloExporter implements Exporter.
var _ Exporter = (*yoloExporter)(nil)

// Export runs "yolo export model=<path> format=onnx imgsz=<n>".
// The ultralytics CLI writes the ONNX file next to the weights; older
// versions write it to the working directory instead, which the caller
// handles by relocation.
func (e *yoloExporter) Export(ctx context.Context, weightsPath string, imgsz int) error {
	bin, err := exec.LookPath(exporterBin)
	if err != nil {
		return fmt.Errorf("%q CLI not on PATH: %w", exporterBin, ErrExporterNotFound)
	}

	cmd := exec.CommandContext(ctx, bin,
		"export",
		"model="+weightsPath,
		"format=onnx",
		fmt.Sprintf("imgsz=%d", imgsz),
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(output))
		if len(msg) > 400 {
			msg = msg[len(msg)-400:]
		}
		return fmt.Errorf("running %s export: %v: %s: %w", exporterBin, err, msg, ErrExportError)
	}

	if e.logger != nil {
		e.logger.Debug("export finished", "weights", weightsPath, "imgsz", imgsz)
	}

	return nil
}
