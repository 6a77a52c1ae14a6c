package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Newは環境に合わせたzapロガーを作る。
// productionはJSON、それ以外は色付きのコンソール出力
func New(env string) (*zap.Logger, error) {
	var config zap.Config

	if env == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	l, err := config.Build()
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(l)
	return l, nil
}
