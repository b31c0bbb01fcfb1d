package models

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// remediationHint is printed when acquisition fails; the most common cause
// is a stale or missing ultralytics install.
const remediationHint = "Please make sure you have the latest ultralytics package installed:\n  pip install --upgrade ultralytics"

// NewCommand creates the Cobra command tree for model acquisition.
//
// The root command runs the full sequence: acquire both artifacts, then
// verify and print a summary. It always returns nil so the combined run
// exits 0 even when a step fails; the printed report is the interface.
//
// Subcommands:
//   - fetch [--force] [--sha256 <hex>]   acquire only, errors propagate
//   - verify [--json]                    existence report only
//   - path [pt|onnx]                     print resolved paths
//
// Global flags: --quiet, --verbose
func NewCommand(cfg Config, opts ...ManagerOption) *cobra.Command {
	var (
		quiet   bool
		verbose bool
	)

	// Manager is created in PersistentPreRunE so its logger can write to
	// the command's output stream.
	var mgr Manager

	cmd := &cobra.Command{
		Use:   "drishti-models",
		Short: "Fetch YOLOv8n detection models",
		Long:  "Download the pretrained YOLOv8n weights, export them to ONNX, and verify both artifacts exist.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			mopts := opts
			if !quiet {
				mopts = append([]ManagerOption{
					WithLogger(&consoleLogger{w: cmd.OutOrStdout(), verbose: verbose}),
				}, opts...)
			}

			var err error
			mgr, err = NewManager(cfg, mopts...)
			if err != nil {
				return fmt.Errorf("failed to initialize manager: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			res := mgr.Acquire(ctx, acquireOptions(quiet, out, false, "")...)
			if err := res.Err(); err != nil {
				fmt.Fprintf(out, "Error downloading models: %v\n", err)
				fmt.Fprintln(out, remediationHint)
			} else {
				fmt.Fprintln(out, "Download complete!")
				fmt.Fprintf(out, "PyTorch model saved to: %s\n", res.WeightsPath)
				fmt.Fprintf(out, "ONNX model saved to: %s\n", res.ONNXPath)
			}

			rep := mgr.Verify(ctx)
			outputReport(out, rep, false)

			if rep.AllFound() {
				fmt.Fprintln(out, "All model files downloaded successfully!")
			} else {
				fmt.Fprintln(out, "Some model files failed to download. Please check errors above.")
			}

			// Verification failures are reported outcomes, not errors.
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	cmd.AddCommand(fetchCmd(&mgr, &quiet))
	cmd.AddCommand(verifyCmd(&mgr))
	cmd.AddCommand(pathCmd(&mgr))

	return cmd
}

func fetchCmd(mgr *Manager, quiet *bool) *cobra.Command {
	var (
		force    bool
		checksum string
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Acquire the model artifacts",
		Long:  "Download the weights and run the ONNX export without the verification report.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			res := (*mgr).Acquire(ctx, acquireOptions(*quiet, out, force, checksum)...)
			if err := res.Err(); err != nil {
				return err
			}

			if !*quiet {
				fmt.Fprintln(out, "Download complete!")
				fmt.Fprintf(out, "PyTorch model saved to: %s\n", res.WeightsPath)
				fmt.Fprintf(out, "ONNX model saved to: %s\n", res.ONNXPath)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Re-download and re-export even if artifacts exist")
	cmd.Flags().StringVar(&checksum, "sha256", "", "Expected SHA-256 of the weights (hex)")
	return cmd
}

func verifyCmd(mgr *Manager) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that both artifacts exist",
		Long:  "Report per-artifact presence without downloading anything.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rep := (*mgr).Verify(cmd.Context())

			if err := outputReport(cmd.OutOrStdout(), rep, jsonOutput); err != nil {
				return err
			}

			if !rep.AllFound() {
				missing := 0
				for _, f := range rep.Files {
					if !f.Found {
						missing++
					}
				}
				return fmt.Errorf("models: %d of %d artifacts missing", missing, len(rep.Files))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	return cmd
}

func pathCmd(mgr *Manager) *cobra.Command {
	return &cobra.Command{
		Use:   "path [pt|onnx]",
		Short: "Print artifact paths",
		Long:  "Print the output directory, or the path of a specific artifact.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				fmt.Fprintln(out, (*mgr).Dir())
				return nil
			}

			switch args[0] {
			case "pt":
				fmt.Fprintln(out, (*mgr).WeightsPath())
			case "onnx":
				fmt.Fprintln(out, (*mgr).ONNXPath())
			default:
				return fmt.Errorf("unknown artifact %q: expected pt or onnx", args[0])
			}
			return nil
		},
	}
}

// acquireOptions assembles the Acquire options for a CLI invocation,
// wiring the progress line unless quiet.
func acquireOptions(quiet bool, out io.Writer, force bool, checksum string) []AcquireOption {
	var opts []AcquireOption
	if force {
		opts = append(opts, WithForce())
	}
	if checksum != "" {
		opts = append(opts, WithChecksum(checksum))
	}
	if !quiet {
		opts = append(opts, WithProgress(func(p FetchProgress) {
			renderProgress(out, p)
			if p.BytesTotal > 0 && p.BytesCompleted >= p.BytesTotal {
				fmt.Fprintln(out)
			}
		}))
	}
	return opts
}

// Output helpers

func outputReport(w io.Writer, rep Report, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}

	for _, f := range rep.Files {
		status := "Missing"
		if f.Found {
			status = "Found"
		}
		fmt.Fprintf(w, "%s model: %s at %s\n", f.Name, status, f.Path)
	}
	return nil
}

// renderProgress renders the download progress line in place.
// Format: Downloading [============>                 ] 45% (2.90 MB / 6.23 MB)
func renderProgress(w io.Writer, p FetchProgress) {
	if p.BytesTotal <= 0 {
		fmt.Fprintf(w, "\r\x1b[KDownloading... %s", formatSize(p.BytesCompleted))
		return
	}

	pct := float64(p.BytesCompleted) / float64(p.BytesTotal) * 100

	const barWidth = 30
	filled := int(pct / 100 * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}

	var bar string
	if filled >= barWidth {
		bar = strings.Repeat("=", barWidth)
	} else if filled > 0 {
		bar = strings.Repeat("=", filled) + ">" + strings.Repeat(" ", barWidth-filled-1)
	} else {
		bar = ">" + strings.Repeat(" ", barWidth-1)
	}

	fmt.Fprintf(w, "\r\x1b[KDownloading [%s] %.0f%% (%s / %s)",
		bar, pct, formatSize(p.BytesCompleted), formatSize(p.BytesTotal))
}

// formatSize formats a byte count as B, KB, MB or GB.
func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// consoleLogger adapts the Logger interface to plain console lines for the
// CLI. Debug messages are shown only in verbose mode; key-value pairs are
// appended only in verbose mode.
type consoleLogger struct {
	w       io.Writer
	verbose bool
}

func (l *consoleLogger) Debug(msg string, keysAndValues ...any) {
	if l.verbose {
		l.print(msg, keysAndValues)
	}
}

func (l *consoleLogger) Info(msg string, keysAndValues ...any) {
	l.print(msg, keysAndValues)
}

func (l *consoleLogger) Warn(msg string, keysAndValues ...any) {
	l.print("Warning: "+msg, keysAndValues)
}

func (l *consoleLogger) Error(msg string, keysAndValues ...any) {
	l.print("Error: "+msg, keysAndValues)
}

func (l *consoleLogger) print(msg string, keysAndValues []any) {
	if l.verbose && len(keysAndValues) > 0 {
		var b strings.Builder
		b.WriteString(msg)
		for i := 0; i+1 < len(keysAndValues); i += 2 {
			fmt.Fprintf(&b, " %v=%v", keysAndValues[i], keysAndValues[i+1])
		}
		msg = b.String()
	}
	fmt.Fprintln(l.w, msg)
}
