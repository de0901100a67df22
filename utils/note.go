package utils

import (
	"strings"
)

// The note column on access rows is a legacy free-text field reused as a
// side channel: ordered key=value pairs joined by " | ", e.g.
// "decision_twilio=authorized | digit=1 | callSid=CA123". The physical
// schema cannot grow columns, so the codec has to stay forward-compatible:
// unknown keys are carried through and malformed segments are skipped.

// NotePair is one key=value entry of the note side channel.
type NotePair struct {
	Key   string
	Value string
}

// FormatNote renders ordered pairs into the note wire format. Pairs with a
// blank key are dropped.
func FormatNote(pairs []NotePair) string {
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		key := strings.TrimSpace(p.Key)
		if key == "" {
			continue
		}
		parts = append(parts, key+"="+strings.TrimSpace(p.Value))
	}
	return strings.Join(parts, " | ")
}

// ParseNote extracts the key=value pairs from a note string. Segments
// without "=" are ignored rather than treated as errors; missing keys read
// as absent.
func ParseNote(note string) map[string]string {
	data := make(map[string]string)
	if strings.TrimSpace(note) == "" {
		return data
	}

	for _, part := range strings.Split(note, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, found := strings.Cut(part, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		data[key] = strings.TrimSpace(value)
	}
	return data
}
