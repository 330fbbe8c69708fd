package main

import (
	"runtime/debug"
	"strings"
)

// Set via -ldflags "-X main.buildVersion=... -X main.buildCommit=...".
var (
	buildVersion = "dev"
	buildCommit  = "unknown"
)

func versionString() string {
	commit := buildCommit
	if info, ok := debug.ReadBuildInfo(); ok && commit == "unknown" {
		commit = vcsRevision(info.Settings)
	}
	return formatVersion(buildVersion, commit)
}

// formatVersion returns a release version as-is and "dev-<sha7>" otherwise.
func formatVersion(version, commit string) string {
	v := strings.TrimSpace(version)
	if v != "" && v != "dev" {
		return v
	}
	if c := shortCommit(commit); c != "" {
		return "dev-" + c
	}
	return "dev"
}

func vcsRevision(settings []debug.BuildSetting) string {
	for _, s := range settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return ""
}

func shortCommit(commit string) string {
	c := strings.TrimSpace(commit)
	if c == "" || c == "unknown" {
		return ""
	}
	return c[:min(len(c), 7)]
}
