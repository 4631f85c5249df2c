package game

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	StoreModeMemory   = "memory"
	StoreModeSQLite   = "sqlite"
	StoreModePostgres = "postgres"
)

func storeModeFromEnv() string {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv("STORE_MODE")))
	switch raw {
	case "", StoreModeMemory, "mem":
		return StoreModeMemory
	case StoreModeSQLite, "local":
		return StoreModeSQLite
	case StoreModePostgres, "db", "postgresql":
		return StoreModePostgres
	default:
		return raw
	}
}

func NewStoreFromEnv() (Store, string, error) {
	mode := storeModeFromEnv()

	switch mode {
	case StoreModeMemory:
		store, err := NewMemoryStore(memoryLimitFromEnv())
		if err != nil {
			return nil, mode, err
		}
		return store, mode, nil
	case StoreModeSQLite:
		store, err := NewSQLiteStoreFromEnv()
		if err != nil {
			return nil, mode, err
		}
		return store, mode, nil
	case StoreModePostgres:
		store, err := NewPostgresStoreFromEnv()
		if err != nil {
			return nil, mode, err
		}
		return store, mode, nil
	default:
		return nil, mode, fmt.Errorf("invalid STORE_MODE %q (supported: %s, %s, %s)",
			mode, StoreModeMemory, StoreModeSQLite, StoreModePostgres)
	}
}

func memoryLimitFromEnv() int {
	raw := strings.TrimSpace(os.Getenv("GAME_STORE_LIMIT"))
	if raw == "" {
		return defaultMemoryLimit
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return defaultMemoryLimit
	}
	return n
}
