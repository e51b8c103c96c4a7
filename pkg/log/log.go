package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bombsimon/logrusr/v4"
	"github.com/go-logr/logr"
	"github.com/sirupsen/logrus"
)

// DefaultFilePath 获取默认日志文件路径
func DefaultFilePath() string {
	return filepath.Join(os.ExpandEnv("$HOME"), ".pedpong", "pedpong.log")
}

// OpenFile 以追加方式打开日志文件，目录不存在时自动创建
func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory %q error: %w", filepath.Dir(path), err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create log file %q error: %w", path, err)
	}
	return f, nil
}

// NewLogger 创建输出到 w 的 logger
//
// verbosity 为 0 时输出 info 级别日志， 1 时输出 debug 级别，更大时输出全部
func NewLogger(w io.Writer, verbosity uint32) logr.Logger {
	logrusLogger := logrus.New()
	logrusLogger.SetOutput(w)
	switch verbosity {
	case 0:
		logrusLogger.Level = logrus.InfoLevel
	case 1:
		logrusLogger.Level = logrus.DebugLevel
	default:
		logrusLogger.Level = logrus.TraceLevel
	}
	return logrusr.New(logrusLogger)
}
