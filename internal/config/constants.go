// internal/config/constants.go
package config

import "time"

const (
	AppName   = "octovoc"
	EnvPrefix = "OCTOVOC"
)

// Defaults applied when neither the config file nor the environment sets a
// value.
const (
	DefaultServerPort       = ":8080"
	DefaultLogLevel         = "info"
	DefaultDatabaseDriver   = "postgres"
	DefaultMailerType       = "log"
	DefaultMissedWordsLimit = 50
	DefaultReadTimeout      = 5 * time.Second
	DefaultWriteTimeout     = 10 * time.Second
	DefaultIdleTimeout      = 120 * time.Second
	DefaultRequestTimeout   = 60 * time.Second
	DefaultShutdownTimeout  = 5 * time.Second
	DefaultConnMaxLifetime  = time.Hour
	DefaultTokenTTL         = 24 * time.Hour
	DefaultClassCodeSubject = "Your Octovoc class code"
)

// DefaultClassCodeTemplate is the instruction mail sent with a new class
// code. {{.Code}}, {{.Classroom}} and {{.URL}} are filled in.
const DefaultClassCodeTemplate = `Hello,

Your class code for {{.Classroom}} is {{.Code}}.

Students can register at {{.URL}} and enter the code to unlock all modules.

The Octovoc team`
