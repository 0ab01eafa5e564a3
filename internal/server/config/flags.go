package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":4000")
//	-d string   PostgreSQL DSN
//	-b string   store backend ("postgres" or "memory")
//	-s string   JWT HMAC secret key
//	-t int      session token validity, minutes
//	-v int      verification OTP validity, minutes
//	-r int      password reset OTP validity, minutes
//	-o string   allowed CORS origin
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - Duration flags are accepted as integers in minutes and then converted
//     to time.Duration values.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-b", "-s", "-t", "-v", "-r", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.StoreBackend, "b", config.StoreBackend, "store backend (postgres|memory)")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	sessionValidityDuration := fs.Int("t", int(config.SessionValidityDuration.Minutes()), "session_validity_duration (in minutes)")
	verifyOtpValidityDuration := fs.Int("v", int(config.VerifyOtpValidityDuration.Minutes()), "verify_otp_validity_duration (in minutes)")
	resetOtpValidityDuration := fs.Int("r", int(config.ResetOtpValidityDuration.Minutes()), "reset_otp_validity_duration (in minutes)")

	fs.StringVar(&config.CORSOrigin, "o", config.CORSOrigin, "allowed CORS origin")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionValidityDuration = time.Duration(*sessionValidityDuration) * time.Minute
	config.VerifyOtpValidityDuration = time.Duration(*verifyOtpValidityDuration) * time.Minute
	config.ResetOtpValidityDuration = time.Duration(*resetOtpValidityDuration) * time.Minute
}
