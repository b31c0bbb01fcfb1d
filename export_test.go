package models

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestYoloExporterMissingBinary(t *testing.T) {
	// Point PATH at an empty directory so the yolo CLI cannot be found.
	t.Setenv("PATH", t.TempDir())

	e := &yoloExporter{}
	err := e.Export(context.Background(), "models/yolov8n.pt", 640)
	if !errors.Is(err, ErrExporterNotFound) {
		t.Errorf("Export() error = %v, want ErrExporterNotFound", err)
	}
}

func TestYoloExporterInvocation(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake exporter script requires a Unix shell")
	}

	binDir := t.TempDir()
	outDir := t.TempDir()
	argsFile := filepath.Join(outDir, "args.txt")

	// Fake yolo CLI that records its arguments.
	script := fmt.Sprintf("#!/bin/sh\necho \"$@\" > %q\n", argsFile)
	if err := os.WriteFile(filepath.Join(binDir, exporterBin), []byte(script), 0755); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Setenv("PATH", binDir)

	e := &yoloExporter{}
	if err := e.Export(context.Background(), "models/yolov8n.pt", 640); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	got, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	want := "export model=models/yolov8n.pt format=onnx imgsz=640\n"
	if string(got) != want {
		t.Errorf("yolo args = %q, want %q", string(got), want)
	}
}

func TestYoloExporterFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake exporter script requires a Unix shell")
	}

	binDir := t.TempDir()
	script := "#!/bin/sh\necho 'export failure: unsupported format' >&2\nexit 1\n"
	if err := os.WriteFile(filepath.Join(binDir, exporterBin), []byte(script), 0755); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Setenv("PATH", binDir)

	e := &yoloExporter{}
	err := e.Export(context.Background(), "models/yolov8n.pt", 640)
	if !errors.Is(err, ErrExportError) {
		t.Errorf("Export() error = %v, want ErrExportError", err)
	}
}
