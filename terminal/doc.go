// @focus: #sys { term }
// Package terminal is the host side of the runtime: terminal backends, input decoding and platform adapters.
//
// Features:
//   - Raw-mode tty backend (Unix), tcell /dev/tty backend, cancelable stream backend, xterm.js backend (WASM)
//   - Incremental decoder for keys, SGR/X10 mouse, focus reports and bracketed paste
//   - ESC disambiguation with a configurable timeout
//   - Signal, clipboard and environment adapters behind the Platform interface
//   - Emergency terminal restoration for crash paths
//
// Sequences are emitted directly as xterm-compatible ANSI; terminfo is not consulted.
package terminal
