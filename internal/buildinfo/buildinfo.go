// Package buildinfo holds version metadata injected at link time:
//
//	go build -ldflags "-X github.com/aurahood/aurahood/internal/buildinfo.buildVersion=v1.2.0 \
//	  -X github.com/aurahood/aurahood/internal/buildinfo.buildDate=2026-10-14 \
//	  -X github.com/aurahood/aurahood/internal/buildinfo.buildCommit=abc123"
package buildinfo

import (
	"fmt"
	"io"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func valueOrNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// PrintBuildData writes the build version, date and commit to w.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", valueOrNA(buildVersion))
	fmt.Fprintf(w, "Build date: %s\n", valueOrNA(buildDate))
	fmt.Fprintf(w, "Build commit: %s\n", valueOrNA(buildCommit))
}
