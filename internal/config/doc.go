// Package config loads the viewer's TOML configuration.
//
// # Resolution Order
//
//  1. Built-in defaults
//  2. The config file (explicit path, else ~/.config/viewlog/config.toml)
//  3. The VIEWLOG_HOST environment variable
//  4. Command-line flags, applied by the caller
//
// A missing config file is not an error; defaults are used instead. Blank
// string fields also fall back to defaults.
//
// # TOML Format
//
//	host = "logs.example.com:4000"
//	secure = true
//	reconnect = false
//	log_file = "~/.local/state/viewlog/viewlog.log"
//	log_level = "info"
//
// Tilde expansion is applied to log_file and to the config path itself.
//
// # Error Handling
//
// Load returns errors for path expansion failures, unreadable files (other
// than os.ErrNotExist) and malformed TOML ("parse config: ...").
package config
