package config

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// DSN builds the go-sql-driver connection string for the given settings.
func DSN(s Settings) string {
	network := "tcp"
	address := fmt.Sprintf("%s:%s", s.DBHost, s.DBPort)

	// Cloud Run + Cloud SQL: DB_HOST of "/cloudsql/<CONNECTION_NAME>"
	// is a Unix domain socket provided by the Cloud SQL Auth Proxy.
	if strings.HasPrefix(s.DBHost, "/cloudsql/") {
		network = "unix"
		address = s.DBHost
	}

	return fmt.Sprintf("%s:%s@%s(%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4",
		s.DBUser,
		s.DBPassword,
		network,
		address,
		s.DBName,
	)
}

// ConnectDatabaseWithRetry opens the MySQL pool, retrying with backoff until
// it succeeds or ctx is cancelled.
// Call this from main() AFTER the HTTP server is listening.
func ConnectDatabaseWithRetry(ctx context.Context, s Settings) (*gorm.DB, error) {
	dsn := DSN(s)

	var attempt int
	for {
		attempt++
		db, err := gorm.Open(mysql.Open(dsn), initConfig())
		if err == nil {
			tunePool(db, s)
			if pluginErr := db.Use(otelgorm.NewPlugin()); pluginErr != nil {
				log.Printf("db connected but failed to install otelgorm plugin: %v", pluginErr)
			}
			log.Printf("connected to database (attempt=%d)", attempt)
			return db, nil
		}

		sleep := retryDelay(attempt)
		log.Printf("failed to connect database (attempt=%d): %v; retrying in %s", attempt, err, sleep)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(sleep):
		}
	}
}

// Tune database/sql pool for Cloud SQL / production.
func tunePool(db *gorm.DB, s Settings) {
	sqlDB, err := db.DB()
	if err != nil || sqlDB == nil {
		return
	}
	if s.DBMaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(s.DBMaxOpenConns)
	}
	if s.DBMaxIdleConns >= 0 {
		sqlDB.SetMaxIdleConns(s.DBMaxIdleConns)
	}
	if s.DBConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(s.DBConnMaxLifetime)
	}
	if s.DBConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(s.DBConnMaxIdleTime)
	}
}

func initConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         writeGormLog(),
		NamingStrategy: initNamingStrategy(),
	}
}

func initLog() logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			Colorful:      false,
			LogLevel:      logger.Error,
			SlowThreshold: time.Second,
		},
	)
}

// Table names are singular: client, debt, payment.
func initNamingStrategy() *schema.NamingStrategy {
	return &schema.NamingStrategy{
		SingularTable: true,
		TablePrefix:   "",
	}
}

// writeGormLog sends SQL tracing to GORM_LOG when it is set.
func writeGormLog() logger.Interface {
	logFile := os.Getenv("GORM_LOG")
	if logFile == "" {
		return initLog()
	}
	f, err := os.Create(logFile)
	if err != nil {
		return initLog()
	}
	return logger.New(log.New(io.MultiWriter(f), "\r\n", log.LstdFlags), logger.Config{
		Colorful:      true,
		LogLevel:      logger.Info,
		SlowThreshold: time.Second,
	})
}
