// Package models fetches the pretrained YOLOv8n detection weights and
// produces an ONNX export of them for cross-runtime inference.
//
// The package serves two primary use cases:
//
//  1. Programmatic API via the Manager interface - Applications can use
//     NewManager to create a Manager that acquires the artifacts and
//     verifies their presence on disk.
//
//  2. CLI via NewCommand - the drishti-models binary runs the full
//     acquire-then-verify sequence, or individual "fetch", "verify" and
//     "path" subcommands.
//
// # Artifacts
//
// Two files are managed, both under a single output directory
// (default "models/", overridable via Config.Dir or DRISHTI_MODELS_DIR):
//
//   - yolov8n.pt    native PyTorch weights, fetched over HTTP when absent
//   - yolov8n.onnx  ONNX export of the weights at a fixed 640x640 input
//     shape, produced by an external exporter when absent
//
// Both steps are idempotent: files already in place are never re-fetched
// or re-exported unless WithForce is given.
//
// # Export
//
// The ONNX conversion is delegated to an Exporter. The default
// implementation shells out to the ultralytics "yolo" CLI and tolerates
// its output landing either beside the weights or in the working
// directory, relocating it into the output directory as needed.
package models
