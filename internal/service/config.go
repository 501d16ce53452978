package service

import (
	"database/sql"
	"fmt"
	"slices"
	"strings"
)

const (
	ConfigCatalogPath      = "catalog.path"
	ConfigCatalogDelimiter = "catalog.delimiter"
	ConfigSearchMaxResults = "search.max_results"
	ConfigFuzzyThreshold   = "search.fuzzy_threshold"
	ConfigStorageBackend   = "storage.backend"
	ConfigStorageLogPath   = "storage.log_path"
	ConfigLogLevel         = "log.level"
)

// ConfigKeys are the keys accepted by SetConfig.
var ConfigKeys = []string{
	ConfigCatalogPath,
	ConfigCatalogDelimiter,
	ConfigSearchMaxResults,
	ConfigFuzzyThreshold,
	ConfigStorageBackend,
	ConfigStorageLogPath,
	ConfigLogLevel,
}

func normalizeConfigKey(key string) (string, error) {
	key = normalizeName(key)
	if key == "" {
		return "", invalid("config key", "is required")
	}
	return key, nil
}

func SetConfig(db *sql.DB, key, value string) error {
	key, err := normalizeConfigKey(key)
	if err != nil {
		return err
	}
	if !slices.Contains(ConfigKeys, key) {
		return invalid("config key", "%q is unknown (expected one of %s)", key, strings.Join(ConfigKeys, ", "))
	}
	_, err = db.Exec(`
INSERT INTO app_config(key, value, updated_at)
VALUES(?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at
`, key, strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("set config %q: %w", key, err)
	}
	return nil
}

func GetConfig(db *sql.DB, key string) (string, bool, error) {
	key, err := normalizeConfigKey(key)
	if err != nil {
		return "", false, err
	}
	var value string
	err = db.QueryRow(`SELECT value FROM app_config WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get config %q: %w", key, err)
	}
	return value, true, nil
}

func UnsetConfig(db *sql.DB, key string) error {
	key, err := normalizeConfigKey(key)
	if err != nil {
		return err
	}
	if _, err := db.Exec(`DELETE FROM app_config WHERE key = ?`, key); err != nil {
		return fmt.Errorf("unset config %q: %w", key, err)
	}
	return nil
}

func ListConfig(db *sql.DB) (map[string]string, error) {
	rows, err := db.Query(`SELECT key, value FROM app_config ORDER BY key ASC`)
	if err != nil {
		return nil, fmt.Errorf("list config: %w", err)
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan config: %w", err)
		}
		out[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate config: %w", err)
	}
	return out, nil
}
