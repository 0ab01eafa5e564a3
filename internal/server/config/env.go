package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig mirrors Config with env tags. Parsed into a separate struct so
// that only variables actually present in the environment override the
// values layered before it.
type envConfig struct {
	EndpointAddr              string        `env:"ADDRESS"`
	DatabaseDSN               string        `env:"DATABASE_DSN"`
	StoreBackend              string        `env:"STORE_BACKEND"`
	SecretKey                 string        `env:"SECRET_KEY"`
	SessionValidityDuration   time.Duration `env:"SESSION_VALIDITY_DURATION"`
	VerifyOtpValidityDuration time.Duration `env:"VERIFY_OTP_VALIDITY_DURATION"`
	ResetOtpValidityDuration  time.Duration `env:"RESET_OTP_VALIDITY_DURATION"`
	PasswordHashCost          int           `env:"PASSWORD_HASH_COST"`
	MailEndpoint              string        `env:"MAIL_ENDPOINT"`
	MailAPIKey                string        `env:"MAIL_API_KEY"`
	MailSenderEmail           string        `env:"MAIL_SENDER_EMAIL"`
	MailSenderName            string        `env:"MAIL_SENDER_NAME"`
	MailSendTimeout           time.Duration `env:"MAIL_SEND_TIMEOUT"`
	CORSOrigin                string        `env:"CORS_ORIGIN"`
}

// parseEnv overlays Config fields from environment variables. Unset
// variables leave the corresponding fields untouched. Malformed values
// (e.g. an unparsable duration) cause a panic, like the other layers.
func parseEnv(config *Config) {
	c := envConfig{}
	if err := env.Parse(&c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.StoreBackend != "" {
		config.StoreBackend = c.StoreBackend
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.SessionValidityDuration != 0 {
		config.SessionValidityDuration = c.SessionValidityDuration
	}
	if c.VerifyOtpValidityDuration != 0 {
		config.VerifyOtpValidityDuration = c.VerifyOtpValidityDuration
	}
	if c.ResetOtpValidityDuration != 0 {
		config.ResetOtpValidityDuration = c.ResetOtpValidityDuration
	}
	if c.PasswordHashCost != 0 {
		config.PasswordHashCost = c.PasswordHashCost
	}
	if c.MailEndpoint != "" {
		config.MailEndpoint = c.MailEndpoint
	}
	if c.MailAPIKey != "" {
		config.MailAPIKey = c.MailAPIKey
	}
	if c.MailSenderEmail != "" {
		config.MailSenderEmail = c.MailSenderEmail
	}
	if c.MailSenderName != "" {
		config.MailSenderName = c.MailSenderName
	}
	if c.MailSendTimeout != 0 {
		config.MailSendTimeout = c.MailSendTimeout
	}
	if c.CORSOrigin != "" {
		config.CORSOrigin = c.CORSOrigin
	}
}
