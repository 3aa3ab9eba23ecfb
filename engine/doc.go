// Package engine runs Model/Update/View programs on a terminal.
//
// A Program owns one Model. Messages from input, commands, resizes, signals and Send
// are multiplexed onto a single channel and handed to Update one at a time; the
// returned Cmd runs on its own goroutine and its result re-enters the same channel.
// View output goes to a frame-capped renderer. Terminal modes are acquired before
// the first message and released exactly once on every exit path.
package engine
