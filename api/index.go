// Package handler exposes the service as a single serverless function.
// Cold starts build the dependency graph once; warm invocations reuse it.
package handler

import (
	"net/http"
	"sizopi/config"
	"sizopi/di"
	"sizopi/shared/logger"
	transport "sizopi/transport/http"
	"sync"
)

var (
	service *transport.HTTP
	boot    sync.Once
)

func Handler(w http.ResponseWriter, r *http.Request) {
	boot.Do(func() {
		logger.InitLogger()
		logger.SetLogLevel(config.Get())

		service = di.InitializeService()
	})

	// Platform adaptors leave RequestURI empty, which chi needs for routing.
	r.RequestURI = r.URL.String()

	service.ServeHTTP(w, r)
}
