package notifier

import (
	"fmt"
	"time"

	"github.com/julianstephens/objectives/internal/discord"
	"github.com/julianstephens/objectives/internal/models"
)

// ReminderMessage is the direct message sent for a stale objective.
func ReminderMessage(obj models.Objective, windowOpen time.Time) string {
	return fmt.Sprintf("⏰ Reminder: You haven't submitted your objective \"**%s**\" since it became available %s. Don't forget to keep your streak going!",
		obj.Name, discord.RelativeTime(windowOpen))
}
