package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	c "github.com/d0ngw/counterd/common"
	_ "github.com/go-sql-driver/mysql"
)

// NewDBPool 构建MySql数据库连接池,并检查连接是否可用
func NewDBPool(ctx context.Context, config *DBConfig) (*sql.DB, error) {
	if config == nil {
		return nil, fmt.Errorf("not found config")
	}
	if err := config.Parse(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	db, err := sql.Open("mysql", config.DSN())
	if err != nil {
		return nil, fmt.Errorf("can't open connection: %w", err)
	}
	db.SetMaxIdleConns(config.MaxIdle)
	db.SetMaxOpenConns(config.MaxConn)
	if config.MaxTimeSecond > 0 {
		db.SetConnMaxLifetime(time.Duration(config.MaxTimeSecond) * time.Second)
	}
	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s fail: %w", config.URL, err)
	}
	c.Infof("connected to mysql %s/%s", config.URL, config.Schema)
	return db, nil
}
