package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"bslcheck/internal/version"
)

const versionTagline = "static analysis for 1C:Enterprise and OneScript"

// versionInfo is filled from -ldflags first and from the VCS stamp of the
// Go toolchain second.
type versionInfo struct {
	Version    string
	GitCommit  string
	GitMessage string
	BuildDate  string
}

type versionOptions struct {
	color       bool
	showHash    bool
	showMessage bool
	showDate    bool
}

type versionPayload struct {
	Tool       string `json:"tool"`
	Version    string `json:"version"`
	Tagline    string `json:"tagline"`
	GitCommit  string `json:"git_commit,omitempty"`
	GitMessage string `json:"git_message,omitempty"`
	BuildDate  string `json:"build_date,omitempty"`
}

func newVersionCmd() *cobra.Command {
	var (
		format string
		opts   versionOptions
		full   bool
	)
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show bslcheck build information",
		RunE: func(cmd *cobra.Command, args []string) error {
			if full {
				opts.showHash, opts.showMessage, opts.showDate = true, true, true
			}
			info := collectVersionInfo(debug.ReadBuildInfo)
			out := cmd.OutOrStdout()
			switch strings.ToLower(format) {
			case "json":
				return renderVersionJSON(out, info, opts)
			case "pretty":
				color, err := useColor(cmd, out)
				if err != nil {
					return err
				}
				opts.color = color
				renderVersionPretty(out, info, opts)
				return nil
			}
			return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
		},
	}
	cmd.Flags().BoolVar(&opts.showHash, "hash", false, "include git commit hash")
	cmd.Flags().BoolVar(&opts.showMessage, "message", false, "include git commit message")
	cmd.Flags().BoolVar(&opts.showDate, "date", false, "include build timestamp")
	cmd.Flags().BoolVar(&full, "full", false, "show every recorded bit of build metadata")
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")
	return cmd
}

func collectVersionInfo(readBuild func() (*debug.BuildInfo, bool)) versionInfo {
	info := versionInfo{
		Version:    strings.TrimSpace(version.Version),
		GitCommit:  strings.TrimSpace(version.GitCommit),
		GitMessage: strings.TrimSpace(version.GitMessage),
		BuildDate:  strings.TrimSpace(version.BuildDate),
	}
	if info.Version == "" {
		info.Version = "dev"
	}
	if bi, ok := readBuild(); ok {
		for _, s := range bi.Settings {
			switch {
			case s.Key == "vcs.revision" && info.GitCommit == "":
				info.GitCommit = s.Value
			case s.Key == "vcs.time" && info.BuildDate == "":
				info.BuildDate = s.Value
			}
		}
	}
	return info
}

func renderVersionPretty(out io.Writer, info versionInfo, opts versionOptions) {
	v := info.Version
	if opts.color && v == strings.TrimSpace(version.Version) {
		v = version.Colored()
	}
	fmt.Fprintf(out, "bslcheck %s: %s\n", v, versionTagline)
	lines := []struct {
		on    bool
		label string
		value string
	}{
		{opts.showHash, "commit: ", info.GitCommit},
		{opts.showMessage, "message:", info.GitMessage},
		{opts.showDate, "built:  ", info.BuildDate},
	}
	for _, l := range lines {
		if l.on {
			fmt.Fprintf(out, "%s %s\n", l.label, valueOrUnknown(l.value))
		}
	}
}

func renderVersionJSON(out io.Writer, info versionInfo, opts versionOptions) error {
	payload := versionPayload{Tool: "bslcheck", Version: info.Version, Tagline: versionTagline}
	if opts.showHash {
		payload.GitCommit = valueOrUnknown(info.GitCommit)
	}
	if opts.showMessage {
		payload.GitMessage = valueOrUnknown(info.GitMessage)
	}
	if opts.showDate {
		payload.BuildDate = valueOrUnknown(info.BuildDate)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
