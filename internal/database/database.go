package database

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"portal/config"
	logg "portal/internal/logger"

	"github.com/valkey-io/valkey-go"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type CacheClient valkey.Client

// Cache holds one client per logical valkey database. Both are nil when no
// cache address is configured, and every helper in this package treats a nil
// client as a disabled cache.
type Cache struct {
	Records CacheClient
	Events  CacheClient
}

const (
	recordsCacheDB = 0
	eventsCacheDB  = 1
)

type DB struct {
	SQL    *gorm.DB
	Cache  Cache
	Driver string
	log    logg.Logger
}

func New(config config.Config) (DB, error) {
	log := logg.New("database").Function("New")

	log.Info("Initializing database", "driver", config.DatabaseDriver)
	db := &DB{log: log, Driver: config.DatabaseDriver}

	err := db.initializeDB(config)
	if err != nil {
		return DB{}, log.Err("failed to initialize database", err)
	}

	err = db.initializeCacheDB(config)
	if err != nil {
		_ = db.Close()
		return DB{}, log.Err("failed to initialize cache database", err)
	}

	return *db, nil
}

func (s *DB) initializeDB(config config.Config) error {
	gormLogger := logger.New(
		slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
		logger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  false,
		},
	)

	gormConfig := &gorm.Config{
		Logger:         gormLogger,
		PrepareStmt:    true,
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	switch config.DatabaseDriver {
	case "postgres":
		return s.initializePostgresDB(gormConfig, config)
	case "sqlite", "":
		return s.initializeSQLiteDB(gormConfig, config)
	default:
		return s.log.Function("initializeDB").
			Error("unsupported database driver", "driver", config.DatabaseDriver)
	}
}

func (s *DB) initializeSQLiteDB(gormConfig *gorm.Config, config config.Config) error {
	log := s.log.Function("initializeSQLiteDB")

	dbPath := config.DatabaseDbPath
	if dbPath == "" {
		return log.Error("database path is empty", "dbPath", dbPath)
	}

	dir := filepath.Dir(dbPath)
	log.Info("Creating database directory", "dir", dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return log.Err("failed to create database directory", err, "dir", dir)
	}

	log.Info("Connecting with GORM", "dbPath", dbPath)
	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on&_busy_timeout=5000"), gormConfig)
	if err != nil {
		return log.Err("failed to open database with GORM", err)
	}

	return s.configurePool(db, 1)
}

func (s *DB) initializePostgresDB(gormConfig *gorm.Config, config config.Config) error {
	log := s.log.Function("initializePostgresDB")

	if config.DatabaseHost == "" || config.DatabaseName == "" {
		return log.Error("database host or name is empty", "host", config.DatabaseHost)
	}

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		config.DatabaseHost,
		config.DatabasePort,
		config.DatabaseUser,
		config.DatabasePassword,
		config.DatabaseName,
	)

	log.Info("Connecting with GORM", "host", config.DatabaseHost, "database", config.DatabaseName)
	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return log.Err("failed to open database with GORM", err)
	}

	return s.configurePool(db, 100)
}

// configurePool pings the connection and sizes the pool. SQLite gets a single
// writer connection so concurrent submissions queue instead of failing with
// SQLITE_BUSY.
func (s *DB) configurePool(db *gorm.DB, maxOpen int) error {
	log := s.log.Function("configurePool")

	sqlDB, err := db.DB()
	if err != nil {
		return log.Err("failed to get database from GORM", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return log.Err("failed to ping database through GORM", err)
	}

	log.Info("Successfully connected with GORM")
	sqlDB.SetMaxIdleConns(min(10, maxOpen))
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetConnMaxLifetime(time.Hour)

	s.SQL = db

	return nil
}

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")

	if !config.CacheEnabled() {
		log.Info("Cache address not configured, running without cache")
		return nil
	}

	if config.DatabaseCachePort == 0 {
		return log.Error("cache address or port is empty",
			"address", config.DatabaseCacheAddress, "port", config.DatabaseCachePort)
	}

	address := fmt.Sprintf("%s:%d", config.DatabaseCacheAddress, config.DatabaseCachePort)

	records, err := newCacheClient(address, recordsCacheDB)
	if err != nil {
		return log.Err("failed to create records cache client", err, "address", address)
	}
	s.Cache.Records = records

	events, err := newCacheClient(address, eventsCacheDB)
	if err != nil {
		return log.Err("failed to create events cache client", err, "address", address)
	}
	s.Cache.Events = events

	log.Info("Connected to cache", "address", address)
	return nil
}

func newCacheClient(address string, db int) (CacheClient, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{address},
		SelectDB:    db,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (s *DB) Close() (err error) {
	if s.SQL != nil {
		sqlDB, dbErr := s.SQL.DB()
		if dbErr == nil {
			if closeErr := sqlDB.Close(); closeErr != nil {
				err = s.log.Function("Close").Err("failed to close database", closeErr)
			}
		}
	}

	if s.Cache.Records != nil {
		s.Cache.Records.Close()
	}

	if s.Cache.Events != nil {
		s.Cache.Events.Close()
	}

	return
}

func (s *DB) SQLWithContext(ctx context.Context) *gorm.DB {
	return s.SQL.WithContext(ctx)
}

// Ping reports whether the SQL store and, when configured, the cache answer.
func (s *DB) Ping(ctx context.Context) error {
	sqlDB, err := s.SQL.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return err
	}

	if s.Cache.Records != nil {
		if err := s.Cache.Records.Do(ctx, s.Cache.Records.B().Ping().Build()).Error(); err != nil {
			return err
		}
	}

	return nil
}

func (s *DB) FlushAllCaches(ctx context.Context) error {
	log := s.log.Function("FlushAllCaches")
	log.Info("Flushing all cache databases")

	cacheClients := []struct {
		client CacheClient
		name   string
	}{
		{s.Cache.Records, "Records"},
		{s.Cache.Events, "Events"},
	}

	for _, cache := range cacheClients {
		if cache.client == nil {
			continue
		}
		if err := cache.client.Do(ctx, cache.client.B().Flushdb().Build()).Error(); err != nil {
			return log.Err("failed to flush cache database", err, "cache", cache.name)
		}
		log.Info("Successfully flushed cache database", "cache", cache.name)
	}

	return nil
}
