package constants

import "time"

const (
	AppName            = "objectives"
	DefaultKeyringUser = "discord-bot-token"
	DefaultConfigPath  = "~/.config/objectives/config.yaml"
	DefaultDataDir     = "~/.config/objectives"
	DefaultDatabase    = "~/.config/objectives/objectives.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Server defaults
	DefaultListenAddr      = ":3000"
	DefaultSweepInterval   = time.Hour
	DefaultStaleThreshold  = 24 * time.Hour
	DefaultDispatchTimeout = 10 * time.Second
	DefaultTimezone        = "UTC"
	MaxInteractionBodySize = 1 << 20

	// Discord
	DefaultAPIBaseURL = "https://discord.com/api/v10"
	UserAgent         = "DiscordBot (https://github.com/julianstephens/objectives, " + Version + ")"

	// Objective names are shown in slash command options; Discord caps
	// string option values at 100 characters.
	MaxObjectiveNameLength = 100

	// Streaks are only shown off once they exceed this length.
	StreakDisplayThreshold = 3

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "objectives-"
	BackupFileSuffix = ".db"

	// Lockfile guarding the single sweeper per data directory
	ServerLockfileName = "objectives-serve.lock"
)
