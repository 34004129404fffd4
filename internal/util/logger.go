package util

import (
	"log"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewZapLogger пишет в stdout консольным энкодером; уровень задается
// через LOG_LEVEL (debug, info, warn, error), по умолчанию info.
func NewZapLogger() *zap.SugaredLogger {
	stdout := zapcore.AddSync(os.Stdout)
	level := zap.NewAtomicLevelAt(parseLevelOrDefault("LOG_LEVEL", zapcore.InfoLevel))

	developmentCfg := zap.NewDevelopmentEncoderConfig()
	developmentCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(developmentCfg)

	return zap.New(zapcore.NewCore(consoleEncoder, stdout, level)).Sugar()
}

func parseLevelOrDefault(varName string, def zapcore.Level) zapcore.Level {
	if v := os.Getenv(varName); v != "" {
		if l, err := zapcore.ParseLevel(v); err == nil {
			return l
		}
		log.Printf("Invalid level in %s: %s, using default %s", varName, v, def)
	}
	return def
}
