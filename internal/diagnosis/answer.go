package diagnosis

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseAnswer normalises a submitted integer answer. Whitespace, thousands
// separators and leading zeros are ignored.
func ParseAnswer(answer string) (int, error) {
	answer = strings.TrimSpace(answer)
	answer = strings.ReplaceAll(answer, ",", "")
	answer = strings.ReplaceAll(answer, " ", "")
	if answer == "" {
		return 0, fmt.Errorf("empty answer")
	}
	n, err := strconv.ParseInt(answer, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer: %w", err)
	}
	return int(n), nil
}
