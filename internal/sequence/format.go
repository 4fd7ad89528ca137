package sequence

import (
	"strings"

	"kap/pkg/kap"
	"kap/pkg/keys"
)

// FormatSnapshot renders one snapshot as "LControl+A".
func FormatSnapshot(snapshot []keys.Keycode) string {
	names := make([]string, len(snapshot))
	for i, k := range snapshot {
		names[i] = k.String()
	}
	return strings.Join(names, "+")
}

// FormatRecord renders every snapshot separated by spaces.
func FormatRecord(record kap.Record) string {
	parts := make([]string, len(record))
	for i, snapshot := range record {
		parts[i] = FormatSnapshot(snapshot)
	}
	return strings.Join(parts, " ")
}

// expand fills the {last} and {record} placeholders of a step message.
func expand(message string, record kap.Record) string {
	return strings.NewReplacer(
		"{last}", FormatSnapshot(record.Last()),
		"{record}", FormatRecord(record),
	).Replace(message)
}
