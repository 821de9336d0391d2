package main

import (
	"net/http"
	"time"
)

func (a *App) initHTTPClient() error {
	timeout, err := time.ParseDuration(a.Config.HTTPTimeout)
	if err != nil {
		return err
	}

	a.HTTPClient = &http.Client{
		Timeout: timeout,
	}

	return nil
}
