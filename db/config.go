// Package db 提供MySQL连接池的配置和创建
package db

import (
	"fmt"
	"time"

	c "github.com/d0ngw/counterd/common"
	"github.com/go-sql-driver/mysql"
)

//DBConfig 数据库配置
type DBConfig struct {
	User          string `yaml:"user"`
	Pass          string `yaml:"pass"`
	URL           string `yaml:"url"`
	Schema        string `yaml:"schema"`
	MaxConn       int    `yaml:"maxConn"`
	MaxIdle       int    `yaml:"maxIdle"`
	MaxTimeSecond int    `yaml:"maxTimeSecond"`
	Charset       string `yaml:"charset"`
}

// Parse implements Configurer
func (p *DBConfig) Parse() error {
	if p.URL == "" {
		return fmt.Errorf("need url")
	}
	if p.Schema == "" {
		return fmt.Errorf("need schema")
	}
	if p.User == "" {
		return fmt.Errorf("need user")
	}
	return nil
}

// DSN 构建go-sql-driver/mysql的连接串,时间使用本地时区
func (p *DBConfig) DSN() string {
	conf := mysql.NewConfig()
	conf.User = p.User
	conf.Passwd = p.Pass
	conf.Net = "tcp"
	conf.Addr = p.URL
	conf.DBName = p.Schema
	conf.ParseTime = true
	conf.Loc = time.Local
	charset := p.Charset
	if charset == "" {
		charset = "utf8mb4"
	}
	conf.Params = map[string]string{"charset": charset}
	return conf.FormatDSN()
}

var _ c.Configurer = (*DBConfig)(nil)
