package models

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewCommand(t *testing.T) {
	cmd := NewCommand(Config{})

	t.Run("root command exists", func(t *testing.T) {
		if cmd == nil {
			t.Fatal("NewCommand returned nil")
		}
		if cmd.Use != "drishti-models" {
			t.Errorf("Use = %q, want %q", cmd.Use, "drishti-models")
		}
	})

	t.Run("has global flags", func(t *testing.T) {
		flags := []string{"quiet", "verbose"}
		for _, name := range flags {
			if cmd.PersistentFlags().Lookup(name) == nil {
				t.Errorf("missing global flag: %s", name)
			}
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		subcommands := []string{"fetch", "verify", "path"}
		for _, name := range subcommands {
			found := false
			for _, sub := range cmd.Commands() {
				if sub.Name() == name {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("missing subcommand: %s", name)
			}
		}
	})
}

func TestRootCommandSuccess(t *testing.T) {
	modelsDir, workDir := newTestDirs(t)
	server, _ := newWeightsServer(t)

	exp := &fakeExporter{outPath: filepath.Join(modelsDir, ONNXFile)}
	cmd := NewCommand(
		Config{Dir: modelsDir, WorkDir: workDir, WeightsURL: server.URL},
		WithHTTPClient(server.Client()),
		WithExporter(exp),
	)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"Downloading YOLOv8n PyTorch model...",
		"Converting to ONNX format...",
		"Download complete!",
		"PyTorch model saved to: " + filepath.Join(modelsDir, WeightsFile),
		"ONNX model saved to: " + filepath.Join(modelsDir, ONNXFile),
		"PyTorch model: Found at",
		"ONNX model: Found at",
		"All model files downloaded successfully!",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q\noutput:\n%s", want, got)
		}
	}
}

func TestRootCommandDownloadFailure(t *testing.T) {
	modelsDir, workDir := newTestDirs(t)

	// Closed server simulates an unreachable source.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	cmd := NewCommand(
		Config{Dir: modelsDir, WorkDir: workDir, WeightsURL: server.URL},
		WithExporter(&fakeExporter{}),
	)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{})

	// The combined run never fails; the report is the interface.
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v, want nil", err)
	}

	got := out.String()
	for _, want := range []string{
		"Error downloading models:",
		"pip install --upgrade ultralytics",
		"PyTorch model: Missing at",
		"ONNX model: Missing at",
		"Some model files failed to download. Please check errors above.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q\noutput:\n%s", want, got)
		}
	}
}

func TestFetchCommand(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		modelsDir, workDir := newTestDirs(t)
		server, _ := newWeightsServer(t)

		exp := &fakeExporter{outPath: filepath.Join(modelsDir, ONNXFile)}
		cmd := NewCommand(
			Config{Dir: modelsDir, WorkDir: workDir, WeightsURL: server.URL},
			WithHTTPClient(server.Client()),
			WithExporter(exp),
		)

		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs([]string{"fetch"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if !strings.Contains(out.String(), "Download complete!") {
			t.Errorf("output missing completion line:\n%s", out.String())
		}
	})

	t.Run("failure propagates", func(t *testing.T) {
		modelsDir, workDir := newTestDirs(t)

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer server.Close()

		cmd := NewCommand(
			Config{Dir: modelsDir, WorkDir: workDir, WeightsURL: server.URL},
			WithHTTPClient(server.Client()),
			WithExporter(&fakeExporter{}),
		)

		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs([]string{"fetch", "--quiet"})

		if err := cmd.Execute(); err == nil {
			t.Error("Execute() error = nil, want non-nil for failed fetch")
		}
	})
}

func TestVerifyCommand(t *testing.T) {
	t.Run("missing artifacts return error", func(t *testing.T) {
		modelsDir, workDir := newTestDirs(t)
		server, _ := newWeightsServer(t)

		cmd := NewCommand(
			Config{Dir: modelsDir, WorkDir: workDir, WeightsURL: server.URL},
			WithExporter(&fakeExporter{}),
		)

		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs([]string{"verify"})

		if err := cmd.Execute(); err == nil {
			t.Error("Execute() error = nil, want non-nil when artifacts are missing")
		}
		if !strings.Contains(out.String(), "PyTorch model: Missing at") {
			t.Errorf("output missing status line:\n%s", out.String())
		}
	})

	t.Run("json output", func(t *testing.T) {
		modelsDir, workDir := newTestDirs(t)
		server, _ := newWeightsServer(t)

		if err := os.MkdirAll(modelsDir, 0755); err != nil {
			t.Fatalf("MkdirAll() error = %v", err)
		}
		for _, file := range []string{WeightsFile, ONNXFile} {
			if err := os.WriteFile(filepath.Join(modelsDir, file), []byte("data"), 0644); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}
		}

		cmd := NewCommand(
			Config{Dir: modelsDir, WorkDir: workDir, WeightsURL: server.URL},
			WithExporter(&fakeExporter{}),
		)

		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs([]string{"verify", "--json"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}

		var rep Report
		if err := json.Unmarshal(out.Bytes(), &rep); err != nil {
			t.Fatalf("Unmarshal() error = %v\noutput:\n%s", err, out.String())
		}
		if len(rep.Files) != 2 || !rep.AllFound() {
			t.Errorf("unexpected report: %+v", rep)
		}
	})
}

func TestPathCommand(t *testing.T) {
	modelsDir, workDir := newTestDirs(t)
	server, _ := newWeightsServer(t)

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{name: "no args prints dir", args: []string{"path"}, want: modelsDir},
		{name: "pt", args: []string{"path", "pt"}, want: filepath.Join(modelsDir, WeightsFile)},
		{name: "onnx", args: []string{"path", "onnx"}, want: filepath.Join(modelsDir, ONNXFile)},
		{name: "unknown artifact", args: []string{"path", "bogus"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewCommand(
				Config{Dir: modelsDir, WorkDir: workDir, WeightsURL: server.URL},
				WithExporter(&fakeExporter{}),
			)

			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetErr(&out)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			if tt.wantErr {
				if err == nil {
					t.Error("Execute() error = nil, want non-nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if got := strings.TrimSpace(out.String()); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{1048576, "1.00 MB"},
		{1073741824, "1.00 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := formatSize(tt.bytes); got != tt.want {
				t.Errorf("formatSize(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}
