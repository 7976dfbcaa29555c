package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/karios/mission-control/constants"
	"github.com/sirupsen/logrus"
)

// RoleGrant is one configured discord role the console can assign or revoke.
type RoleGrant struct {
	ID   string
	Name string
}

type Config struct {
	Port                         int64
	MainAppAPIURL                string
	APIRequestTimeoutSeconds     int64
	TokenFilePath                string
	SecurecookieHashKeyPrevious  string
	SecurecookieBlockKeyPrevious string
	SecurecookieHashKeyCurrent   string
	SecurecookieBlockKeyCurrent  string
	SessionExpirationSeconds     int64
	GraylogAddr                  string
	RoleGrants                   map[string]RoleGrant
}

func EnvString(name string) string {
	s := os.Getenv(name)
	if s == "" {
		panic(fmt.Sprintf("env variable '%s' is not set", name))
	}
	return s
}

func EnvInt(name string) int64 {
	s := os.Getenv(name)
	if s == "" {
		panic(fmt.Sprintf("env variable '%s' is not set", name))
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		panic(err)
	}
	return i
}

func GetConfig(l *logrus.Logger) *Config {
	l.Infoln("loading config...")
	err := godotenv.Load()
	if err != nil {
		l.Fatal(err)
	}

	return &Config{
		Port:                         EnvInt("PORT"),
		MainAppAPIURL:                EnvString("MAIN_APP_API_URL"),
		APIRequestTimeoutSeconds:     EnvInt("API_REQUEST_TIMEOUT_SECONDS"),
		TokenFilePath:                EnvString("TOKEN_FILE_PATH"),
		SecurecookieHashKeyPrevious:  EnvString("SECURECOOKIE_HASH_KEY_PREVIOUS"),
		SecurecookieBlockKeyPrevious: EnvString("SECURECOOKIE_BLOCK_KEY_PREVIOUS"),
		SecurecookieHashKeyCurrent:   EnvString("SECURECOOKIE_HASH_KEY_CURRENT"),
		SecurecookieBlockKeyCurrent:  EnvString("SECURECOOKIE_BLOCK_KEY_CURRENT"),
		SessionExpirationSeconds:     EnvInt("SESSION_EXPIRATION_SECONDS"),
		GraylogAddr:                  os.Getenv("GRAYLOG_ADDR"),
		RoleGrants:                   getRoleGrants(),
	}
}

// getRoleGrants reads the fixed role-purpose-to-discord-role mapping, one
// ROLE_ID_*/ROLE_NAME_* pair per known purpose.
func getRoleGrants() map[string]RoleGrant {
	grants := make(map[string]RoleGrant, len(constants.KnownRolePurposes()))
	for _, purpose := range constants.KnownRolePurposes() {
		suffix := envSuffix(purpose)
		grants[purpose] = RoleGrant{
			ID:   EnvString("ROLE_ID_" + suffix),
			Name: EnvString("ROLE_NAME_" + suffix),
		}
	}
	return grants
}

func envSuffix(purpose string) string {
	suffix := make([]byte, len(purpose))
	for i := 0; i < len(purpose); i++ {
		c := purpose[i]
		if c == '-' {
			suffix[i] = '_'
		} else if c >= 'a' && c <= 'z' {
			suffix[i] = c - 'a' + 'A'
		} else {
			suffix[i] = c
		}
	}
	return string(suffix)
}
