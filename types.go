package models

// Fixed artifact filenames within the output directory.
const (
	// WeightsFile is the native PyTorch weights filename.
	WeightsFile = "yolov8n.pt"

	// ONNXFile is the exported ONNX artifact filename.
	ONNXFile = "yolov8n.onnx"
)

// Defaults applied by NewManager when the corresponding Config field is zero.
const (
	// DefaultDir is the output directory for both artifacts.
	DefaultDir = "models"

	// DefaultWeightsURL is where the pretrained weights are published.
	DefaultWeightsURL = "https://github.com/ultralytics/assets/releases/download/v8.2.0/yolov8n.pt"

	// DefaultImageSize is the square input shape passed to the exporter.
	DefaultImageSize = 640
)

// Config configures the models module.
type Config struct {
	// Dir is the output directory for both artifacts.
	// If empty, DefaultDir is used.
	// Can also be set via the DRISHTI_MODELS_DIR environment variable,
	// which takes priority over this field.
	Dir string

	// WeightsURL is the HTTP source of the PyTorch weights.
	// If empty, DefaultWeightsURL is used.
	WeightsURL string

	// WorkDir is where stray loader/exporter output may appear before
	// relocation into Dir. If empty, the process working directory is used.
	WorkDir string

	// ImageSize is the square input shape for the ONNX export.
	// If zero, DefaultImageSize is used.
	ImageSize int
}

// Artifact maps a logical name to its filename within the output directory.
type Artifact struct {
	// Name is the human-readable format name, e.g. "PyTorch".
	Name string

	// File is the filename within the output directory.
	File string
}

// artifacts is the fixed set of expected outputs, in report order.
var artifacts = []Artifact{
	{Name: "PyTorch", File: WeightsFile},
	{Name: "ONNX", File: ONNXFile},
}

// AcquireResult reports the outcome of each acquisition step.
// A failed step leaves its error set; later steps that depend on it are
// skipped. The zero error values mean the step succeeded or was already
// satisfied.
type AcquireResult struct {
	// WeightsPath is the final path of the PyTorch weights.
	WeightsPath string

	// ONNXPath is the final path of the ONNX artifact.
	ONNXPath string

	// Downloaded is true if the weights were fetched over the network
	// this run (false on cache hit).
	Downloaded bool

	// Converted is true if the ONNX export ran this run
	// (false when the artifact already existed).
	Converted bool

	// WeightsErr is the failure obtaining the weights, if any.
	WeightsErr error

	// ExportErr is the failure producing the ONNX artifact, if any.
	ExportErr error
}

// Err returns the first step failure, or nil if both steps succeeded.
func (r AcquireResult) Err() error {
	if r.WeightsErr != nil {
		return r.WeightsErr
	}
	return r.ExportErr
}

// FileStatus is the verification result for a single artifact.
type FileStatus struct {
	// Name is the logical format name, e.g. "PyTorch".
	Name string `json:"name"`

	// Path is the expected location of the artifact.
	Path string `json:"path"`

	// Found is true if a regular file exists at Path.
	Found bool `json:"found"`

	// Size is the file size in bytes. Zero when Found is false.
	Size int64 `json:"size"`
}

// Report is the verification result for all expected artifacts.
type Report struct {
	// Files holds one status per expected artifact, in a fixed order.
	Files []FileStatus `json:"files"`
}

// AllFound returns true iff every expected artifact is present.
func (r Report) AllFound() bool {
	for _, f := range r.Files {
		if !f.Found {
			return false
		}
	}
	return true
}

// FetchProgress reports download progress during a fetch.
type FetchProgress struct {
	// BytesTotal is the total bytes to download, or 0 if unknown.
	BytesTotal int64

	// BytesCompleted is the bytes received so far.
	BytesCompleted int64
}
