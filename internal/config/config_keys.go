// config_keys.go provides key-value access to configuration settings.
//
// Separated from config.go to isolate the key enumeration and string-based
// get/set logic used by the CLI and MCP tools (e.g. "revisions.max_revisions").
//
// Pointers are used for optional fields so we can distinguish between
// "not set" (nil) and "explicitly set to zero". Defaults only apply when
// the user hasn't set a value.

package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ValidKeys returns all valid configuration keys.
func ValidKeys() []string {
	return []string{
		"author.name", "author.email",
		"revisions.min_interval", "revisions.max_revisions",
		"store.backend",
		"limits.max_content", "limits.max_document_id",
		"log.level",
	}
}

// IsValidKey returns true if the key is a valid configuration key.
func IsValidKey(key string) bool {
	return slices.Contains(ValidKeys(), key)
}

// Get returns the value of a configuration key as a string.
func (c *Config) Get(key string) (string, error) {
	if !IsValidKey(key) {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return c.All()[key], nil
}

// Set sets the value of a configuration key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "author.name":
		c.Author.Name = value
	case "author.email":
		c.Author.Email = value
	case "revisions.min_interval":
		if _, err := parseInterval(value); err != nil {
			return err
		}
		c.Revisions.MinInterval = &value
	case "revisions.max_revisions":
		n, err := strconv.Atoi(value)
		if err != nil || n < MinMaxRevisions || n > MaxMaxRevisions {
			return fmt.Errorf("%w: revisions.max_revisions must be an integer between %d and %d",
				ErrInvalidValue, MinMaxRevisions, MaxMaxRevisions)
		}
		c.Revisions.MaxRevisions = &n
	case "store.backend":
		v := strings.ToLower(value)
		if !slices.Contains(validBackends, v) {
			return fmt.Errorf("%w: store.backend must be one of %v", ErrInvalidValue, validBackends)
		}
		c.Store.Backend = &v
	case "limits.max_content":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n < MinMaxContent || n > MaxMaxContent {
			return fmt.Errorf("%w: limits.max_content must be a positive integer", ErrInvalidValue)
		}
		c.Limits.MaxContent = &n
	case "limits.max_document_id":
		n, err := strconv.Atoi(value)
		if err != nil || n < MinMaxDocumentID || n > MaxMaxDocumentID {
			return fmt.Errorf("%w: limits.max_document_id must be between %d and %d",
				ErrInvalidValue, MinMaxDocumentID, MaxMaxDocumentID)
		}
		c.Limits.MaxDocumentID = &n
	case "log.level":
		v := strings.ToLower(value)
		if !slices.Contains(validLogLevels, v) {
			return fmt.Errorf("%w: log.level must be one of %v", ErrInvalidValue, validLogLevels)
		}
		c.Log.Level = &v
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

// All returns all configuration values as a map.
func (c *Config) All() map[string]string {
	return map[string]string{
		"author.name":             c.Author.Name,
		"author.email":            c.Author.Email,
		"revisions.min_interval":  c.MinInterval().String(),
		"revisions.max_revisions": strconv.Itoa(c.MaxRevisions()),
		"store.backend":           c.Backend(),
		"limits.max_content":      strconv.FormatInt(c.MaxContent(), 10),
		"limits.max_document_id":  strconv.Itoa(c.MaxDocumentID()),
		"log.level":               c.LogLevel(),
	}
}

// IsSet returns true if the key has an explicit value (not just defaults).
func (c *Config) IsSet(key string) bool {
	switch key {
	case "author.name":
		return c.Author.Name != ""
	case "author.email":
		return c.Author.Email != ""
	case "revisions.min_interval":
		return c.Revisions.MinInterval != nil
	case "revisions.max_revisions":
		return c.Revisions.MaxRevisions != nil
	case "store.backend":
		return c.Store.Backend != nil
	case "limits.max_content":
		return c.Limits.MaxContent != nil
	case "limits.max_document_id":
		return c.Limits.MaxDocumentID != nil
	case "log.level":
		return c.Log.Level != nil
	default:
		return false
	}
}
