package server

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Printf("Endpoint: %s, Method: %s, Status: %d, Duration: %s, RequestID: %s",
			r.URL.Path, r.Method, ww.Status(), time.Since(start), middleware.GetReqID(r.Context()))
	})
}
