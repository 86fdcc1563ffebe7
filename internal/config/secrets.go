package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variable names, kept compatible with the original deployment.
const (
	EnvPracticumToken = "PRACTICUM_TOKEN"
	EnvTelegramToken  = "TELEGRAM_TOKEN"
	EnvTelegramChatID = "TELEGRAM_CHAT_ID"
)

// Secrets are the three required credentials. They are read once at startup;
// a missing secret is the only fatal startup path.
type Secrets struct {
	PracticumToken string
	TelegramToken  string
	ChatID         int64
}

// LoadSecrets reads the secrets from the environment. All problems are
// collected into one error so the operator sees every missing variable at
// once instead of fixing them one restart at a time.
func LoadSecrets() (Secrets, error) {
	var missing []string

	practicum := strings.TrimSpace(os.Getenv(EnvPracticumToken))
	if practicum == "" {
		missing = append(missing, EnvPracticumToken)
	}
	telegram := strings.TrimSpace(os.Getenv(EnvTelegramToken))
	if telegram == "" {
		missing = append(missing, EnvTelegramToken)
	}
	chatRaw := strings.TrimSpace(os.Getenv(EnvTelegramChatID))
	if chatRaw == "" {
		missing = append(missing, EnvTelegramChatID)
	}
	if len(missing) > 0 {
		return Secrets{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	chatID, err := strconv.ParseInt(chatRaw, 10, 64)
	if err != nil {
		return Secrets{}, fmt.Errorf("%s: not a chat id: %q", EnvTelegramChatID, chatRaw)
	}

	return Secrets{
		PracticumToken: practicum,
		TelegramToken:  telegram,
		ChatID:         chatID,
	}, nil
}
