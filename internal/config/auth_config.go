package config

import (
	"strconv"
	"time"
)

const (
	credentialFileVar    = "CREDENTIAL_FILE"
	httpTimeoutVar       = "HTTP_TIMEOUT_SECONDS"
	verifyOnBootstrapVar = "VERIFY_ON_BOOTSTRAP"
)

type Auth struct{}

var _ AuthConfig = Auth{}

// GetCredentialFile returns the path of the durable credential file. Empty
// means credentials live in memory only (session-scoped, like the web
// client).
func (Auth) GetCredentialFile() string {
	return GetEnv(credentialFileVar, "")
}

func (Auth) GetHTTPTimeout() time.Duration {
	seconds, err := strconv.Atoi(GetEnv(httpTimeoutVar, "15"))
	if err != nil || seconds <= 0 {
		seconds = 15
	}
	return time.Duration(seconds) * time.Second
}

func (Auth) GetVerifyOnBootstrap() bool {
	return GetEnv(verifyOnBootstrapVar, "true") != "false"
}
