package utils

import (
	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

// InitSentry initializes Sentry for error tracking. It is a no-op when dsn is empty.
func InitSentry(dsn, environment string) bool {
	if dsn == "" {
		logrus.Info("SENTRY_DSN not set, error tracking disabled")
		return false
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		EnableTracing:    true,
		TracesSampleRate: 0.2,
	})
	if err != nil {
		logrus.Errorf("sentry.Init: %s", err)
		return false
	}

	logrus.Info("Sentry initialized")
	return true
}

// CaptureError reports err with tags. Without an initialized client nothing is sent.
func CaptureError(err error, tags map[string]string) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		sentry.CaptureException(err)
	})
}
