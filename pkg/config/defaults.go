// Package config provides viper-based configuration loading for citetrail.
package config

// Server defaults.
const (
	DefaultServerPort = 8080
	DefaultServerHost = "0.0.0.0"
)

// TEI source/output defaults.
const (
	// DefaultTEIRoot is where "<work_id>.xml" source documents are read
	// from "Input".
	DefaultTEIRoot = "/var/lib/citetrail/tei"
	// DefaultOutputDir is where the four per-request output artefacts
	// (index0, index, resources.json, metadata.json) are written.
	DefaultOutputDir = "/var/lib/citetrail/output"
)

// Domain URL defaults.
const (
	DefaultIDServerBaseURL = "https://id.example/texts"
	DefaultIIIFBaseURL     = "https://images.example/iiif/image"
)

// Citation-label override defaults.
const (
	// DefaultLabelsPath, when empty, leaves workconfig.DefaultCitationLabels
	// untouched; set to override the built-in citation-label table with a
	// project-specific YAML file.
	DefaultLabelsPath = ""
)

// Document cache defaults.
const (
	DefaultDocCacheMaxSizeBytes = 256 * 1024 * 1024
)

// Async task-store defaults.
const (
	// DefaultTaskTTLSeconds is how long a completed/failed task handle
	// remains pollable before the background sweeper evicts it.
	DefaultTaskTTLSeconds    = 300
	DefaultTaskSweepInterval = 60
)

// Logging defaults.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)
