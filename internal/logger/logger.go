package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.Logger

// Init initializes the structured logger on stderr.
func Init() {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(os.Stderr), zap.InfoLevel)
	log = zap.New(core)
}

func Sync() {
	if log != nil {
		log.Sync()
	}
}

// LogFixtureWritten logs one generated fixture mail.
func LogFixtureWritten(name, path, from, to string) {
	if log == nil {
		return
	}
	log.Info("fixture written",
		zap.String("event", "fixture_written"),
		zap.String("fixture", name),
		zap.String("eml_path", path),
		zap.String("from", from),
		zap.String("to", to),
	)
}

// LogKeyMaterial logs one generated signer identity.
func LogKeyMaterial(name, certPath, keyPath string) {
	if log == nil {
		return
	}
	log.Info("key material written",
		zap.String("event", "key_material"),
		zap.String("identity", name),
		zap.String("cert_path", certPath),
		zap.String("key_path", keyPath),
	)
}

// LogError logs an operational error.
func LogError(message string, err error, context map[string]string) {
	if log == nil {
		return
	}
	fields := []zap.Field{
		zap.String("event", "error"),
		zap.String("error", err.Error()),
	}

	for k, v := range context {
		fields = append(fields, zap.String(k, v))
	}

	log.Error(message, fields...)
}
