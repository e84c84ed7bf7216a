package database

import (
	"context"
	"fmt"
	"strings"

	sqldblogger "github.com/simukti/sqldb-logger"

	"media-upkeep/internal/logging"
)

// sqlLogger routes driver-level query logs to the debug log.
type sqlLogger struct{}

func (sqlLogger) Log(_ context.Context, level sqldblogger.Level, msg string, data map[string]any) {
	switch level {
	case sqldblogger.LevelError:
		logging.Error("sql %s - %v", msg, data)
	case sqldblogger.LevelDebug, sqldblogger.LevelInfo:
		if !logging.IsDebugEnabled() {
			return
		}
		if query, ok := data["query"]; ok {
			logging.Debug("sql %s [%vms] -- %v", msg, data["duration"], query)
		} else {
			logging.Debug("sql %s [%vms]", msg, data["duration"])
		}
	}
}

// migrationLogger adapts goose's logger to the application log.
type migrationLogger struct{}

func (migrationLogger) Fatal(v ...interface{}) {
	logging.Fatal("migration: %s", strings.TrimSpace(fmt.Sprint(v...)))
}

func (migrationLogger) Fatalf(format string, v ...interface{}) {
	logging.Fatal("migration: "+strings.TrimSpace(format), v...)
}

func (migrationLogger) Print(v ...interface{}) {
	logging.Debug("migration: %s", strings.TrimSpace(fmt.Sprint(v...)))
}

func (migrationLogger) Println(v ...interface{}) {
	logging.Debug("migration: %s", strings.TrimSpace(fmt.Sprintln(v...)))
}

func (migrationLogger) Printf(format string, v ...interface{}) {
	logging.Debug("migration: "+strings.TrimSpace(format), v...)
}
