package util

import (
	"fmt"
	"path"
	"strings"
	"time"
)

const keyNameSegment = 48

// ObjectKey builds the storage key for a new upload. The key never
// depends on the sender's filename alone: a millisecond timestamp plus
// a random segment make it unique, the sanitized name tail just keeps
// bucket listings readable.
func ObjectKey(originalName string) string {
	return fmt.Sprintf("%d-%s-%s", time.Now().UnixMilli(), RandStr(10), sanitizeName(originalName))
}

// sanitizeName strips anything path-like or unprintable out of a
// sender-supplied filename so it can be embedded in a storage key.
func sanitizeName(name string) string {
	// path.Base also disarms windows-style separators once they're
	// normalized away
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		name = "file"
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	out := strings.Trim(b.String(), "._")
	if out == "" {
		out = "file"
	}
	if len(out) > keyNameSegment {
		out = out[len(out)-keyNameSegment:]
	}

	return out
}
