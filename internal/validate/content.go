package validate

import "fmt"

// Content validates revision text size. A maxLen of 0 means no limit.
// Format is not checked; any text is accepted.
func Content(content string, maxLen int64) error {
	if maxLen > 0 && int64(len(content)) > maxLen {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrContentTooLarge, len(content), maxLen)
	}
	return nil
}
