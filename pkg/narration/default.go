// Copyright 2026 © The Screenplay Authors
// SPDX-License-Identifier: Apache-2.0

package narration

var current = New()

// Default returns the process-wide Narrator used by actors and actions.
func Default() *Narrator {
	return current
}

// SetDefault installs n as the process-wide Narrator and returns a func
// that restores the previous one. Call it at test-session boundaries.
func SetDefault(n *Narrator) (restore func()) {
	previous := current
	current = n
	return func() { current = previous }
}

// Act narrates fn as an act on the default Narrator.
func Act(line string, fn Func, opts ...Option) error {
	return current.Narrate(ChannelAct, line, fn, opts...)
}

// Scene narrates fn as a scene on the default Narrator.
func Scene(line string, fn Func, opts ...Option) error {
	return current.Narrate(ChannelScene, line, fn, opts...)
}

// Beat narrates fn as a beat on the default Narrator.
func Beat(line string, fn Func, opts ...Option) error {
	return current.Narrate(ChannelBeat, line, fn, opts...)
}

// Aside whispers line on the default Narrator.
func Aside(line string, opts ...Option) {
	_ = current.Narrate(ChannelAside, line, func() error { return nil }, opts...)
}

// AttachesAFile forwards an attachment through the default Narrator.
func AttachesAFile(path string, meta map[string]any) {
	current.AttachesAFile(path, meta)
}
