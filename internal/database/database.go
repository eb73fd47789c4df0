package database

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ngfw-panel/internal/config"
)

// ErrNotConnected means no store is behind the panel. The panel ships in a
// demo mode without one; handlers turn this into a 503 with the
// requires_database flag so the UI can show setup guidance.
var ErrNotConnected = errors.New("database not connected")

var DB *gorm.DB

// Connect opens the record store selected by the config mode: a local
// sqlite file or a cloud DSN.
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Mode {
	case "cloud":
		dialector = mysql.Open(cfg.Cloud.DSN)
	default:
		if cfg.Local.Path != ":memory:" {
			dir := filepath.Dir(cfg.Local.Path)
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, err
			}
		}
		dialector = sqlite.Open(cfg.Local.Path)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if cfg.Mode != "cloud" {
		// SQLite only supports 1 writer
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	}

	DB = db
	return db, nil
}

func AutoMigrate(models ...interface{}) error {
	if DB == nil {
		return ErrNotConnected
	}
	return DB.AutoMigrate(models...)
}

// Ready reports whether a store connection exists. Every repository call
// checks this first so demo mode fails fast instead of panicking.
func Ready() bool {
	return DB != nil
}

var likeEscaper = strings.NewReplacer("|", "||", "%", "|%", "_", "|_")

// LikePattern wraps a user-supplied term for a substring match. The LIKE
// wildcards in the term are escaped so it only matches literally; queries
// using the pattern must carry ESCAPE '|'. The pipe is the one escape
// character both dialects accept inside a plain quoted literal.
func LikePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
