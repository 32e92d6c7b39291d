package app

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

const ServiceName = "meme-contest-backend"

// InitLogger builds the root logger. Development gets a colored console
// writer, every other environment gets JSON lines on stdout.
func InitLogger(levelStr string, environment string) zerolog.Logger {
	// Set global log level
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil || levelStr == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var output io.Writer = os.Stdout
	if isDevelopment(environment) {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			NoColor:    false,
			TimeFormat: "2006-01-02 15:04:05",
		}
	}

	logger := zerolog.New(output).With().
		Timestamp().
		Str("service", ServiceName).
		Logger()

	return logger
}

func isDevelopment(environment string) bool {
	return environment == "development" || environment == "dev"
}
