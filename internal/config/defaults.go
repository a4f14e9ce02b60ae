package config

const (
	defaultConfigPath           = "~/.config/shellsync/config.toml"
	defaultAppName              = "shellsync"
	defaultMailboxSize          = 256
	defaultAccountTimeout       = 15
	defaultJournalPath          = "~/.local/share/shellsync/journal.db"
	defaultNotifyRequestTimeout = 10
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultLogDir               = "~/.local/share/shellsync/logs"
	defaultLogRetentionDays     = 30
	defaultRemotePath           = "/"
	appPasswordEnv              = "SHELLSYNC_APP_PASSWORD"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Socket: Socket{
			AppName:     defaultAppName,
			MailboxSize: defaultMailboxSize,
		},
		Account: Account{
			Connected:      true,
			RequestTimeout: defaultAccountTimeout,
		},
		Capabilities: Capabilities{
			ShareAPI:         true,
			PublicLink:       true,
			UserGroupSharing: true,
		},
		Journal: Journal{
			Path: defaultJournalPath,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			Dir:           defaultLogDir,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
