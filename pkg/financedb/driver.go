package financedb

import (
	"database/sql"
	"fmt"

	mysqldriver "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq" // PostgreSQL driver
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DatabaseDriver opens a connection to the finance database. One driver is
// registered per database type.
type DatabaseDriver interface {
	Open(config ConnectionConfig) (*gorm.DB, error)
}

type MySQLDriver struct{}

func NewMySQLDriver() DatabaseDriver {
	return &MySQLDriver{}
}

func (d *MySQLDriver) Open(config ConnectionConfig) (*gorm.DB, error) {
	cfg := mysqldriver.Config{
		User:                 config.Username,
		Passwd:               config.Password,
		Net:                  "tcp",
		Addr:                 fmt.Sprintf("%s:%s", config.Host, config.Port),
		DBName:               config.Database,
		ParseTime:            true,
		AllowNativePasswords: true,
	}

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to create connection: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	gormDB, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn: db,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create GORM connection: %v", err)
	}

	return gormDB, nil
}

type PostgresDriver struct{}

func NewPostgresDriver() DatabaseDriver {
	return &PostgresDriver{}
}

func (d *PostgresDriver) Open(config ConnectionConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s sslmode=disable",
		config.Host,
		config.Port,
		config.Username,
		config.Database,
	)
	if config.Password != "" {
		dsn += fmt.Sprintf(" password=%s", config.Password)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{
		Conn: db,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create GORM connection: %v", err)
	}

	return gormDB, nil
}
