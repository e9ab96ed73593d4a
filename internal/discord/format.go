package discord

import (
	"fmt"
	"time"
)

// RelativeTime renders t as a timestamp the client shows relative to now,
// e.g. "in 3 hours".
func RelativeTime(t time.Time) string {
	return fmt.Sprintf("<t:%d:R>", t.Unix())
}

// Mention renders a user mention.
func Mention(userID string) string {
	return "<@" + userID + ">"
}
