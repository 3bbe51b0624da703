package log

import (
	"os"

	"github.com/Park-yeongseo/Blog-Project/utils/dotenv"
	"github.com/Park-yeongseo/Blog-Project/utils/flag"
	"github.com/sirupsen/logrus"
)

// global accessible logger
var (
	logger *logrus.Logger
	Log    *logrus.Entry
)

// This init function is only for testing cases, where the entry point is not
// main function. Unit test will fail with nil pointer dereference if we don't
// init here.
func init() {
	InitLogger()
}

func InitLogger() {
	logger = logrus.New()

	// Structured output in prod, plain text locally for readability.
	if os.Getenv("BLOG_ENV") == dotenv.ProdEnv {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	logger.SetOutput(os.Stderr)

	Log = logger.WithFields(
		logrus.Fields{"service": *flag.ServiceName, "is_development": os.Getenv("BLOG_ENV") != dotenv.ProdEnv},
	)
}
