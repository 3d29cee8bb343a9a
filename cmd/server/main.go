package main

import (
	"log"
	"org-governance/internal/app"
	"org-governance/internal/blockchain/events"
	"org-governance/internal/config"
	"org-governance/internal/hashing"
	"org-governance/internal/ports/http"
	"org-governance/internal/repository/mongodb"
	"time"

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

	logger.Info("application started")

	hashing.Initialize(logger)

	db, err := mongodb.NewConnection(logger, config.GetDbConnectionURI())
	if err != nil {
		logger.Fatal("failed to connect to the database: " + err.Error())
	}
	defer db.Disconnect()

	application := app.NewApp(logger, db)

	listener := events.NewEventListener(logger, config.GetValidatorAddr())
	application.RegisterEventHandlers(listener)
	if err := listener.Start(); err != nil {
		logger.Fatal("failed to start the event listener: " + err.Error())
	}
	defer func() {
		if err := listener.Stop(); err != nil {
			logger.Error("failed to stop the event listener: " + err.Error())
		}
	}()

	ser := http.NewServer(logger, &application, config.GetPort())
	if err := ser.Run(); err != nil {
		logger.Error("failed to run the server: " + err.Error())
	}

	logger.Info("application finished")
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
