package logging

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func encoderConfig() zapcore.EncoderConfig {
	ec := zap.NewProductionEncoderConfig()
	ec.EncodeDuration = zapcore.SecondsDurationEncoder
	ec.TimeKey = "time"
	return ec
}

func jsonEncoder() zapcore.Encoder {
	ec := encoderConfig()
	ec.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendInt64(t.UnixMilli())
	}
	return zapcore.NewJSONEncoder(ec)
}

func consoleEncoder() zapcore.Encoder {
	ec := encoderConfig()
	ec.ConsoleSeparator = " "
	ec.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05 PM")
	ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(ec)
}

// New builds a logger writing to stderr so that stdout stays free for
// command output.
func New(pretty bool, level zapcore.LevelEnabler) *zap.Logger {
	return NewWithSyncer(zapcore.Lock(os.Stderr), pretty, level)
}

// NewWithSyncer builds a logger writing to ws. pretty selects the console
// encoder; otherwise lines are JSON with millisecond timestamps.
func NewWithSyncer(ws zapcore.WriteSyncer, pretty bool, level zapcore.LevelEnabler) *zap.Logger {
	enc := jsonEncoder()
	if pretty {
		enc = consoleEncoder()
	}
	core := zapcore.NewCore(enc, ws, level)
	logger := zap.New(core, zap.AddStacktrace(zap.ErrorLevel))
	return withBaseFields(logger)
}

func withBaseFields(logger *zap.Logger) *zap.Logger {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return logger.With(
		zap.String("hostname", host),
		zap.Int("pid", os.Getpid()),
	)
}

// ParseLevel maps a level name such as "debug" or "WARN" to a zap level.
func ParseLevel(s string) (zapcore.Level, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(s)))); err != nil {
		return lvl, fmt.Errorf("invalid log level %q", s)
	}
	return lvl, nil
}
