package storage

import "fmt"

// Driver selects a Storage implementation.
type Driver string

const (
	// DriverMemory keeps carts and products in process memory. Data is lost on restart.
	DriverMemory Driver = "memory"
	// DriverSQLite persists carts and products in a SQLite database.
	DriverSQLite Driver = "sqlite"
)

// New creates a Storage for the given driver. dbPath is only used by sqlite.
func New(driver, dbPath string) (Storage, error) {
	switch Driver(driver) {
	case DriverMemory, "":
		return NewMemoryStorage(), nil
	case DriverSQLite:
		s, err := NewSQLiteStorage(dbPath)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %s (supported: memory, sqlite)", driver)
	}
}
