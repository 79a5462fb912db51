package service

import (
	"regexp"
	"strings"
	"time"
)

// Clients author timestamps with microsecond precision (6 fractional digits);
// the store speaks milliseconds. The extra digits are trimmed before parsing
// so precision alone never fails a write.
var (
	microTimestampPattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{6}`)
	excessFractionPattern = regexp.MustCompile(`(\.\d{3})\d+`)
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// NormalizePayload coerces client-native field encodings into the canonical
// storage encoding. String values under timestamp-shaped keys become
// time.Time; a string that does not parse is left untouched so the store's
// own validation error surfaces instead of a normalizer error. Everything
// else passes through unchanged. The input map is not mutated.
func NormalizePayload(payload map[string]interface{}) map[string]interface{} {
	normalized := make(map[string]interface{}, len(payload))
	for key, value := range payload {
		str, isString := value.(string)
		if !isString || !isTimestampField(key) {
			normalized[key] = value
			continue
		}
		if ts, err := parseClientTimestamp(str); err == nil {
			normalized[key] = ts
		} else {
			normalized[key] = str
		}
	}
	return normalized
}

func isTimestampField(name string) bool {
	return strings.HasSuffix(name, "At") || name == "date" || name == "birthdate"
}

// parseClientTimestamp parses a client timestamp string, truncating
// microsecond fractions to millisecond precision first.
func parseClientTimestamp(value string) (time.Time, error) {
	candidate := value
	if microTimestampPattern.MatchString(candidate) {
		candidate = excessFractionPattern.ReplaceAllString(candidate, "$1")
	}

	var lastErr error
	for _, layout := range timestampLayouts {
		ts, err := time.Parse(layout, candidate)
		if err == nil {
			return ts.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
