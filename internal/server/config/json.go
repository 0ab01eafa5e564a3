package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/flagx"
	"github.com/dmitrijs2005/authkeeper/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "15m" and integer nanoseconds.
//
// This struct is an intermediate DTO (Data Transfer Object) used only for
// reading JSON configuration files. After unmarshalling, its fields are
// copied into the runtime Config struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddr              string         `json:"endpoint_addr"`
	DatabaseDSN               string         `json:"database_dsn"`
	StoreBackend              string         `json:"store_backend"`
	SecretKey                 string         `json:"secret_key"`
	SessionValidityDuration   timex.Duration `json:"session_validity_duration"`
	VerifyOtpValidityDuration timex.Duration `json:"verify_otp_validity_duration"`
	ResetOtpValidityDuration  timex.Duration `json:"reset_otp_validity_duration"`
	PasswordHashCost          int            `json:"password_hash_cost"`
	MailEndpoint              string         `json:"mail_endpoint"`
	MailAPIKey                string         `json:"mail_api_key"`
	MailSenderEmail           string         `json:"mail_sender_email"`
	MailSenderName            string         `json:"mail_sender_name"`
	MailSendTimeout           timex.Duration `json:"mail_send_timeout"`
	CORSOrigin                string         `json:"cors_origin"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -c or -config command-line flags; when
// neither is set, no JSON file is loaded. If the file cannot be read or
// contains invalid JSON, the function panics.
//
// The caller is expected to merge these values with defaults, environment
// variables and command-line flags as part of the full configuration
// process.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddr = c.EndpointAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.StoreBackend = c.StoreBackend
	config.SecretKey = c.SecretKey
	config.SessionValidityDuration = time.Duration(c.SessionValidityDuration.Duration)
	config.VerifyOtpValidityDuration = time.Duration(c.VerifyOtpValidityDuration.Duration)
	config.ResetOtpValidityDuration = time.Duration(c.ResetOtpValidityDuration.Duration)
	config.PasswordHashCost = c.PasswordHashCost
	config.MailEndpoint = c.MailEndpoint
	config.MailAPIKey = c.MailAPIKey
	config.MailSenderEmail = c.MailSenderEmail
	config.MailSenderName = c.MailSenderName
	config.MailSendTimeout = time.Duration(c.MailSendTimeout.Duration)
	config.CORSOrigin = c.CORSOrigin
}
