package main

import (
	"net/http"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	var (
		shared = func(next http.Handler) http.Handler {
			return app.logAndTraceRequest(app.recoverPanic(secureHeaders(app.timeout(next))))
		}
		api = func(next http.Handler) http.Handler {
			return shared(noCache(next))
		}
	)

	mux.Handle("POST /api/plans", api(http.HandlerFunc(app.planCreatePOST)))
	mux.Handle("GET /api/plans", api(http.HandlerFunc(app.plansGET)))
	mux.Handle("GET /api/healthy", api(http.HandlerFunc(app.healthy)))
	mux.Handle("GET /plans/{id}", shared(cacheForever(http.HandlerFunc(app.planGET))))
	mux.Handle("/", shared(http.HandlerFunc(app.notFound)))

	return mux
}
