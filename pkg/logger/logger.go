package logger

import (
	"log"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Log struct {
	LogLevel zapcore.Level `envconfig:"LOG_LEVEL" default:"debug"`
	Sink     string        `envconfig:"LOG_SINK"`
}

// NewLogger builds a named zap logger writing to stdout, and to cfg.Sink
// additionally when set.
func NewLogger(cfg Log, name string) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encCfg)

	ws := []zapcore.WriteSyncer{zapcore.AddSync(os.Stdout)}
	if cfg.Sink != "" {
		f, err := os.OpenFile(cfg.Sink, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			log.Printf("logger sink %q: %v", cfg.Sink, err)
		} else {
			ws = append(ws, zapcore.AddSync(f))
		}
	}

	core := zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(ws...), cfg.LogLevel)
	return zap.New(core, zap.AddCaller()).Named(name)
}
