// Package config loads, validates, and normalizes proofcheck configuration.
//
// Configuration lives in a TOML file (default ~/.config/proofcheck/config.toml)
// with sections for paths, the verification pipeline, content matching, row
// import, and logging. Load applies defaults first, then file values, then
// normalization (path expansion, trimming) and validation, so callers always
// receive a usable Config or an error naming the offending key.
package config
