package connection

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"go-leave/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var retryDelay = 5 * time.Second

// newGormLogger reports slow queries and real errors only. A missing row is
// an ordinary lookup result here.
func newGormLogger(w io.Writer) gormlogger.Interface {
	return gormlogger.New(log.New(w, "\r\n", log.LstdFlags), gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(os.Stdout),
	}
}

// ConnectGORMWithRetry opens the configured store, retrying until it
// answers a ping.
func ConnectGORMWithRetry(cfg config.Database) (*gorm.DB, error) {
	if cfg.Driver == "sqlite" {
		return OpenSQLite(cfg.SQLitePath)
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, cfg.SSLMode,
	)

	maxRetries := cfg.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	log := zap.L().Named("connection")
	var lastErr error

	for i := 1; i <= maxRetries; i++ {
		db, err := gorm.Open(postgres.Open(dsn), gormConfig())
		if err != nil {
			lastErr = err
			log.Warn("gorm open failed", zap.Int("attempt", i), zap.Int("max", maxRetries), zap.Error(err))
			time.Sleep(retryDelay)
			continue
		}

		sqlDB, err := db.DB()
		if err != nil {
			lastErr = err
			log.Warn("get sql.DB failed", zap.Int("attempt", i), zap.Int("max", maxRetries), zap.Error(err))
			time.Sleep(retryDelay)
			continue
		}

		if err := sqlDB.Ping(); err != nil {
			lastErr = err
			log.Warn("db ping failed", zap.Int("attempt", i), zap.Int("max", maxRetries), zap.Error(err))
			time.Sleep(retryDelay)
			continue
		}

		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(time.Hour)

		log.Info("gorm connected to postgres")
		return db, nil
	}

	return nil, fmt.Errorf("database connection failed after %d retries: %w", maxRetries, lastErr)
}

// OpenSQLite opens a sqlite store with a single connection. Services run
// every statement of a unit of work on that connection's transaction.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	zap.L().Named("connection").Info("gorm connected to sqlite", zap.String("dsn", dsn))
	return db, nil
}

func ConnectRedisWithRetry(addr string, maxRetries int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	for i := 1; i <= maxRetries; i++ {
		if err := rdb.Ping(context.Background()).Err(); err == nil {
			zap.L().Named("connection").Info("connected to redis", zap.String("addr", addr))
			return rdb, nil
		}

		zap.L().Named("connection").Warn("redis ping failed", zap.Int("attempt", i), zap.Int("max", maxRetries))
		time.Sleep(retryDelay)
	}

	return nil, fmt.Errorf("failed to connect redis at %s", addr)
}

func ConnectKafkaWithRetry(broker string, maxRetries int) (*kafka.Writer, error) {
	var lastErr error
	for i := 1; i <= maxRetries; i++ {
		conn, err := kafka.Dial("tcp", broker)
		if err == nil {
			_ = conn.Close()
			zap.L().Named("connection").Info("connected to kafka", zap.String("broker", broker))
			return &kafka.Writer{
				Addr:                   kafka.TCP(broker),
				Balancer:               &kafka.Hash{},
				AllowAutoTopicCreation: true,
				RequiredAcks:           kafka.RequireAll,
			}, nil
		}
		lastErr = err
		zap.L().Named("connection").Warn("kafka dial failed", zap.Int("attempt", i), zap.Int("max", maxRetries), zap.Error(err))
		time.Sleep(retryDelay)
	}
	return nil, fmt.Errorf("kafka connection failed after %d retries: %w", maxRetries, lastErr)
}
