// Package auth provides a high-level API for persisting and retrieving credentials from the system keyring.
package auth

import (
	"github.com/zalando/go-keyring"
)

const (
	service   = "drill-bot"
	botToken  = "bot-token"
	llmAPIKey = "llm-api-key"
)

// SetBotToken persists the Telegram bot token to the system keyring.
func SetBotToken(token string) error {
	return keyring.Set(service, botToken, token)
}

// GetBotToken retrieves the Telegram bot token from the system keyring.
func GetBotToken() (string, error) {
	return keyring.Get(service, botToken)
}

// DeleteBotToken removes the Telegram bot token from the system keyring.
func DeleteBotToken() error {
	return keyring.Delete(service, botToken)
}

// SetLLMKey persists the completion backend API key to the system keyring.
func SetLLMKey(key string) error {
	return keyring.Set(service, llmAPIKey, key)
}

// GetLLMKey retrieves the completion backend API key from the system keyring.
func GetLLMKey() (string, error) {
	return keyring.Get(service, llmAPIKey)
}

// DeleteLLMKey removes the completion backend API key from the system keyring.
func DeleteLLMKey() error {
	return keyring.Delete(service, llmAPIKey)
}
