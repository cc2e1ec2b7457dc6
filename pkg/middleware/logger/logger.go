package logger

import (
	"context"
	"fmt"
	"os"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type ServiceEnv struct {
	Platform string
	Service  string
	Env      string
}

type LogConfig struct {
	Path       string
	LogLevel   string
	MaxSizeMB  int
	MaxBackups int
	// Console additionally writes human readable lines to stderr.
	Console    bool
	ServiceEnv ServiceEnv
}

var (
	baseLogger *otelzap.Logger
	sugar      *otelzap.SugaredLogger
)

func init() {
	setLogger(nopLogger())
}

func nopLogger() *zap.Logger {
	return zap.NewNop()
}

func setLogger(l *zap.Logger) {
	baseLogger = otelzap.New(l)
	sugar = baseLogger.Sugar()
}

// Init replaces the no-op logger installed at package load.
func Init(conf *LogConfig) {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(conf.LogLevel)); err != nil {
		level.SetLevel(zap.InfoLevel)
	}

	encoderConf := zap.NewProductionEncoderConfig()
	encoderConf.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := make([]zapcore.Core, 0, 2)
	if conf.Path != "" {
		maxSize := conf.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 100
		}
		writer := &lumberjack.Logger{
			Filename:   conf.Path,
			MaxSize:    maxSize,
			MaxBackups: conf.MaxBackups,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConf), zapcore.AddSync(writer), level))
	}
	if conf.Console {
		consoleConf := zap.NewDevelopmentEncoderConfig()
		consoleConf.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(consoleConf), zapcore.Lock(os.Stderr), level))
	}

	l := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1)).With(
		zap.String("platform", conf.ServiceEnv.Platform),
		zap.String("service", conf.ServiceEnv.Service),
		zap.String("env", conf.ServiceEnv.Env),
	)
	setLogger(l)
}

func Close() {
	if baseLogger != nil {
		_ = baseLogger.Sync()
	}
}

func message(template string, args []any) string {
	if len(args) == 0 {
		return template
	}
	return fmt.Sprintf(template, args...)
}

// traceFields tags a record with the span active in ctx, if any.
func traceFields(ctx context.Context) []any {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return nil
	}
	return []any{"trace_id", sc.TraceID().String(), "span_id", sc.SpanID().String()}
}

func Debugf(ctx context.Context, template string, args ...any) {
	sugar.Ctx(ctx).Debugw(message(template, args), traceFields(ctx)...)
}

func Infof(ctx context.Context, template string, args ...any) {
	sugar.Ctx(ctx).Infow(message(template, args), traceFields(ctx)...)
}

func Warnf(ctx context.Context, template string, args ...any) {
	sugar.Ctx(ctx).Warnw(message(template, args), traceFields(ctx)...)
}

func Errorf(ctx context.Context, template string, args ...any) {
	sugar.Ctx(ctx).Errorw(message(template, args), traceFields(ctx)...)
}

func Fatalf(ctx context.Context, template string, args ...any) {
	sugar.Ctx(ctx).Fatalw(message(template, args), traceFields(ctx)...)
}
