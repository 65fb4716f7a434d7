package db

import (
	"strings"

	"docserver/config"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var Instance *gorm.DB

func Init() {
	var dialector gorm.Dialector
	if config.MYSQL_DSN != "" {
		dialector = mysql.Open(config.MYSQL_DSN)
	} else if config.SQLITE_FILE != "" {
		dsn := config.SQLITE_FILE
		// FK cascades must be enforced on every pooled connection
		if !strings.Contains(dsn, "_foreign_keys") {
			if strings.Contains(dsn, "?") {
				dsn += "&_foreign_keys=on"
			} else {
				dsn += "?_foreign_keys=on"
			}
		}
		dialector = sqlite.Open(dsn)
	} else {
		panic("either MYSQL_DSN or SQLITE_FILE must be configured")
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		TranslateError:         true,
	})
	if err != nil || db == nil {
		panic(err)
	}
	Instance = db
}
