package db

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"voicechat/internal/chat"
)

// Connect opens the configured database and migrates the chat schema. The
// sqlite driver is the zero-config default; mysql and postgres take a DSN.
func Connect(driver, dsn string) (*gorm.DB, error) {
	var dial gorm.Dialector
	switch driver {
	case "mysql":
		if dsn == "" {
			return nil, fmt.Errorf("mysql driver requires DB_DSN")
		}
		dial = mysql.Open(dsn)
	case "postgres":
		if dsn == "" {
			return nil, fmt.Errorf("postgres driver requires DB_DSN")
		}
		dial = postgres.Open(dsn)
	case "", "sqlite":
		if dsn == "" {
			dsn = "file:voicechat.db?cache=shared"
		}
		dial = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}

	gdb, err := gorm.Open(dial, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if err := gdb.AutoMigrate(&chat.Session{}, &chat.Message{}, &chat.Recording{}, &chat.Job{}); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	return gdb, nil
}
