// Package ilo persists typed configuration values on disk and loads them
// back, one file per named config.
//
// It supports:
//  1. Resolving a config name to a file path under $ILO_CONFIG_HOME or, when
//     that variable is unset, under the user config directory (e.g.
//     ~/.config/ilo on Linux).
//  2. Loading the file into a caller-supplied type, or constructing a default
//     value on first run (the file is only created by an explicit Save).
//  3. Saving the in-memory value back atomically: the new content is written
//     to a temp file and renamed onto the config path, so a crash mid-save
//     never leaves a truncated file behind.
//  4. Pluggable codecs (JSON by default, YAML and TOML available) and
//     optional integration with github.com/ygrebnov/model for struct
//     defaults (via `default` tags) and validation (via `validate` tags).
//
// Typical usage:
//
//	type Prefs struct {
//	    URL     *string `json:"url"`
//	    Comment *string `json:"comment"`
//	}
//
//	cfg, err := ilo.Load[Prefs]("example-config")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	comment := "created by example"
//	cfg.Data().Comment = &comment
//	if err := cfg.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// A Config holds exactly one in-memory value and performs no locking; using
// the same Config from multiple goroutines requires external
// synchronization. Independent handles for the same name race on Save with
// last-writer-wins semantics, which is the intended single-writer model.
package ilo
