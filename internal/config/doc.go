// Package config provides configuration loading, merging, and validation
// facilities for the APK portal client.
//
// Configuration is assembled from multiple sources. Earlier sources win for
// every non-zero field:
//  1. Command-line flags
//  2. Environment variables (optionally seeded from a dotenv file)
//  3. JSON or YAML config file
//  4. Built-in defaults
//
// The main entry point is [GetClientConfig].
package config
