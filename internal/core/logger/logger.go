// Package logger builds the process zap logger and adapts it for code that
// only knows io.Writer or the std log package.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"court-admin/internal/core/config"
)

type Options struct {
	Level   string // debug / info / warn / error
	JSON    bool   // false 时输出带颜色的控制台格式
	Service string // 每条日志都带上 service 字段
	Env     string
	Rotate  config.LogRotate // Enable=false 时只写 stdout
}

// FromConfig maps the log and app config sections onto Options.
func FromConfig(app config.App, l config.Log) Options {
	return Options{Level: l.Level, JSON: l.JSON, Service: app.Name, Env: app.Env, Rotate: l.Rotate}
}

// New builds the logger. The returned func flushes buffered entries.
func New(o Options) (*zap.Logger, func()) {
	lvl, err := zapcore.ParseLevel(o.Level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	enc := encoder(o.JSON)

	cores := []zapcore.Core{zapcore.NewCore(enc, zapcore.Lock(os.Stdout), lvl)}
	if o.Rotate.Enable {
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(&lumberjack.Logger{
			Filename:   o.Rotate.Filename,
			MaxSize:    max(1, o.Rotate.MaxSizeMB),
			MaxBackups: max(0, o.Rotate.MaxBackups),
			MaxAge:     max(0, o.Rotate.MaxAgeDays),
			Compress:   o.Rotate.Compress,
		}), lvl))
	}
	// 同一秒内相同消息超过 100 条后每 100 条记一条
	core := zapcore.NewSamplerWithOptions(zapcore.NewTee(cores...), time.Second, 100, 100)

	opts := []zap.Option{zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)}
	if !o.JSON {
		opts = append(opts, zap.Development())
	}
	var fields []zap.Field
	if o.Service != "" {
		fields = append(fields, zap.String("service", o.Service))
	}
	if o.Env != "" {
		fields = append(fields, zap.String("env", o.Env))
	}
	if len(fields) > 0 {
		opts = append(opts, zap.Fields(fields...))
	}

	l := zap.New(core, opts...)
	return l, func() { _ = l.Sync() }
}

func encoder(json bool) zapcore.Encoder {
	if json {
		cfg := zap.NewProductionEncoderConfig()
		cfg.TimeKey = "ts"
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncodeCaller = zapcore.ShortCallerEncoder
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

type writer struct {
	l     *zap.Logger
	level zapcore.Level
}

func (w writer) Write(p []byte) (int, error) {
	msg := strings.TrimRight(string(p), "\r\n")
	if ce := w.l.Check(w.level, msg); ce != nil {
		ce.Write()
	}
	return len(p), nil
}

// ToWriter adapts l to an io.Writer, one entry per write. gin's debug and
// error writers go through here.
func ToWriter(l *zap.Logger, level zapcore.Level) io.Writer {
	return writer{l: l, level: level}
}

// RedirectStdLog sends the std log package into l until the returned func runs.
func RedirectStdLog(l *zap.Logger, level zapcore.Level) func() {
	undo, err := zap.RedirectStdLogAt(l, level)
	if err != nil {
		return func() {}
	}
	return undo
}
