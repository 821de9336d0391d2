package main

import (
	"github.com/ic2hrmk/promtail"
	"github.com/sirupsen/logrus"
)

func (a *App) initPromTail() error {
	identifiers := map[string]string{
		"instanceId": a.Name,
	}

	promTail, err := promtail.NewJSONv1Client(a.Config.LokiUrl, identifiers)
	if err != nil {
		return err
	}

	a.PromTail = promTail
	a.Logger.AddHook(&promTailHook{client: promTail})

	return nil
}

type promTailHook struct {
	client promtail.Client
}

func (h *promTailHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *promTailHook) Fire(entry *logrus.Entry) error {
	line, err := entry.String()
	if err != nil {
		return err
	}

	h.client.Logf(promTailLevel(entry.Level), "%s", line)

	return nil
}

func promTailLevel(level logrus.Level) promtail.Level {
	switch level {
	case logrus.DebugLevel, logrus.TraceLevel:
		return promtail.Debug
	case logrus.InfoLevel:
		return promtail.Info
	case logrus.WarnLevel:
		return promtail.Warn
	}

	return promtail.Error
}
