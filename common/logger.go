package common

import (
	"fmt"
	"strings"
	"sync"
)

// LogLevel 日志级别
type LogLevel int8

// 日志级别定义,0表示未设置
const (
	Debug LogLevel = iota + 1
	Info
	Warn
	Error
)

var logLevelNames = map[LogLevel]string{
	Debug: "debug",
	Info:  "info",
	Warn:  "warn",
	Error: "error",
}

func (l LogLevel) String() string {
	if name, ok := logLevelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LogLevel(%d)", l)
}

// ParseLogLevel 从字符串解析日志级别,不区分大小写
func ParseLogLevel(level string) (LogLevel, bool) {
	level = strings.ToLower(strings.TrimSpace(level))
	for l, name := range logLevelNames {
		if name == level {
			return l, true
		}
	}
	return 0, false
}

// Logger 日志接口
type Logger interface {
	Debugf(format string, params ...interface{})
	Infof(format string, params ...interface{})
	Warnf(format string, params ...interface{})
	Errorf(format string, params ...interface{})

	DebugEnabled() bool
	InfoEnabled() bool
	WarnEnabled() bool
	ErrorEnabled() bool

	// SetLevel 修改日志级别,无效的级别被忽略
	SetLevel(level LogLevel)
	// Sync 刷新缓冲的日志
	Sync()
}

var (
	logger    Logger = NewZapLogger(&LogConfig{})
	loggerMux sync.Mutex
)

// Debugf debug
func Debugf(format string, params ...interface{}) {
	logger.Debugf(format, params...)
}

// Infof info
func Infof(format string, params ...interface{}) {
	logger.Infof(format, params...)
}

// Warnf warn
func Warnf(format string, params ...interface{}) {
	logger.Warnf(format, params...)
}

// Errorf error
func Errorf(format string, params ...interface{}) {
	logger.Errorf(format, params...)
}

// Logf 使用指定的级别记录日志
func Logf(level LogLevel, format string, params ...interface{}) {
	switch level {
	case Debug:
		logger.Debugf(format, params...)
	case Warn:
		logger.Warnf(format, params...)
	case Error:
		logger.Errorf(format, params...)
	default:
		logger.Infof(format, params...)
	}
}

// DebugEnabled is debug enabled
func DebugEnabled() bool { return logger.DebugEnabled() }

// InfoEnabled is info enabled
func InfoEnabled() bool { return logger.InfoEnabled() }

// WarnEnabled is warn enabled
func WarnEnabled() bool { return logger.WarnEnabled() }

// ErrorEnabled is error enabled
func ErrorEnabled() bool { return logger.ErrorEnabled() }

// SetLogLevel 设置全局日志级别
func SetLogLevel(level LogLevel) {
	logger.SetLevel(level)
}

// SyncLog flush the global logger
func SyncLog() {
	logger.Sync()
}

// SetLogger 替换全局Logger,返回之前的Logger
func SetLogger(l Logger) Logger {
	if l == nil {
		return logger
	}
	loggerMux.Lock()
	defer loggerMux.Unlock()
	pre := logger
	logger = l
	return pre
}

func initLogger(config *LogConfig) error {
	if config == nil {
		return nil
	}
	if config.Level != "" {
		if _, ok := ParseLogLevel(config.Level); !ok {
			return fmt.Errorf("invalid log level %q", config.Level)
		}
	}
	pre := SetLogger(NewZapLogger(config))
	pre.Sync()
	return nil
}
