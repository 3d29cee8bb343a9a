package hashing

import (
	"crypto/sha512"
	"encoding/hex"

	"go.uber.org/zap"
)

var logger *zap.Logger = zap.NewNop()

// Initialize sets the package logger, call it once on startup
func Initialize(log *zap.Logger) {
	logger = log
}

func Calculate(data []byte) string {
	hash := sha512.New()
	if _, err := hash.Write(data); err != nil {
		logger.Error("failed to write to the hash function: " + err.Error())
		return ""
	}

	h := hash.Sum(nil)

	return hex.EncodeToString(h)
}

func CalculateFromStr(data string) string {
	return Calculate([]byte(data))
}

// CalculateSHA512 is an alias kept for the address derivation code
func CalculateSHA512(data string) string {
	return CalculateFromStr(data)
}
