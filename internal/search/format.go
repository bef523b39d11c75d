package search

import (
	"fmt"
	"regexp"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var isoDurationRe = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// FormatISODuration converts an ISO-8601 duration like PT1H2M3S into
// the display form "1:02:03", or "4:05" when there is no hour part.
// Unparsable input yields "".
func FormatISODuration(iso string) string {
	m := isoDurationRe.FindStringSubmatch(iso)
	if m == nil {
		return ""
	}

	h, _ := strconv.Atoi(zeroEmpty(m[1]))
	min, _ := strconv.Atoi(zeroEmpty(m[2]))
	s, _ := strconv.Atoi(zeroEmpty(m[3]))

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, min, s)
	}
	return fmt.Sprintf("%d:%02d", min, s)
}

// FormatViewCount renders a raw view count with thousands separators,
// e.g. "1024555" -> "1,024,555". Non-numeric input yields "".
func FormatViewCount(raw string) string {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return ""
	}
	return message.NewPrinter(language.English).Sprintf("%d", n)
}

func zeroEmpty(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
