package main

import (
	"log"
	"org-governance/internal/config"
	"org-governance/internal/hashing"
	internal "org-governance/internal/processor"
	"syscall"
	"time"

	sawtooth "github.com/hyperledger/sawtooth-sdk-go/processor"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	logger, err := getLogger()
	if err != nil {
		log.Fatalln("setting up the logger failed: ", err)
		return
	}
	defer logger.Sync()

	logger.Info("transaction processor started")

	hashing.Initialize(logger)

	adminKey := config.GetAdminPublicKey()
	if adminKey == "" {
		logger.Warn("no admin public key configured, administrative transactions will be rejected")
	}

	endpoint := "tcp://" + config.GetValidatorAddr()
	transactionProcessor := sawtooth.NewTransactionProcessor(endpoint)
	transactionProcessor.AddHandler(internal.NewHandler(logger, adminKey))
	transactionProcessor.ShutdownOnSignal(syscall.SIGINT, syscall.SIGTERM)

	if err := transactionProcessor.Start(); err != nil {
		logger.Error("transaction processor stopped: " + err.Error())
	}
}

func getLogger() (*zap.Logger, error) {
	options := []zap.Option{
		zap.AddCaller(),
		zap.AddStacktrace(zap.FatalLevel),
	}

	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
	config.Development = true
	config.Level.SetLevel(zap.DebugLevel)

	logger, err := config.Build()
	return logger.WithOptions(options...), err
}
