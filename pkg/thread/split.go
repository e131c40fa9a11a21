package thread

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaxLength is the per-post character budget used when Split is
// called with a non-positive limit.
const DefaultMaxLength = 280

// Divider is a line that marks a section boundary in the input.
// Divider lines are dropped and never appear in a chunk.
const Divider = "---"

// Split packs message into chunks of at most maxLength characters.
//
// Lines are kept whole and joined with newlines while they fit. A line that
// is longer than maxLength on its own is broken at spaces instead, and its
// tail stays open so following lines can join it. A single word longer than
// maxLength is emitted as its own chunk, over the limit.
//
// Length is counted in runes.
func Split(message string, maxLength int) []string {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}

	var (
		chunks  []string
		current strings.Builder
		curLen  int
	)

	flush := func() {
		if c := strings.TrimSpace(current.String()); c != "" {
			chunks = append(chunks, c)
		}
		current.Reset()
		curLen = 0
	}
	start := func(s string, n int) {
		current.Reset()
		current.WriteString(s)
		curLen = n
	}
	join := func(sep, s string, n int) {
		current.WriteString(sep)
		current.WriteString(s)
		curLen += 1 + n
	}

	for _, line := range splitLines(message) {
		line = strings.TrimSpace(line)
		if line == Divider {
			continue
		}
		lineLen := utf8.RuneCountInString(line)

		if lineLen > maxLength {
			for _, word := range strings.Split(line, " ") {
				if word == "" {
					continue
				}
				wordLen := utf8.RuneCountInString(word)
				switch {
				case curLen == 0:
					start(word, wordLen)
				case curLen+1+wordLen > maxLength:
					flush()
					start(word, wordLen)
				default:
					join(" ", word, wordLen)
				}
			}
			continue
		}

		switch {
		case curLen == 0:
			start(line, lineLen)
		case curLen+1+lineLen > maxLength:
			flush()
			start(line, lineLen)
		default:
			join("\n", line, lineLen)
		}
	}
	flush()

	return chunks
}

// splitLines breaks s on \r\n, \r and \n.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}
