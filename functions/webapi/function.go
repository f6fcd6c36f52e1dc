// Package webapi exposes the interactive API as a Cloud Functions HTTP
// target.
package webapi

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	"github.com/stravarunart/runart-server/pkg/bootstrap"
	"github.com/stravarunart/runart-server/pkg/store"
	"github.com/stravarunart/runart-server/pkg/web"
)

var (
	server  *web.Server
	svcOnce sync.Once
	svcErr  error
)

func init() {
	functions.HTTP("WebAPI", WebAPI)
}

func initServer(ctx context.Context) (*web.Server, error) {
	svcOnce.Do(func() {
		var svc *bootstrap.Service
		svc, svcErr = bootstrap.NewService(ctx)
		if svcErr != nil {
			slog.Error("Failed to initialize service", "error", svcErr)
			return
		}
		// Descriptions link to the serving endpoint, not a server-local path.
		svc.Pipeline.LinkFor = func(img *store.PersistedImage) string {
			return "/api/images/" + img.Key
		}
		server = &web.Server{
			Tokens:   svc.Tokens,
			Strava:   svc.Activities,
			Pipeline: svc.Pipeline,
			Images:   svc.Images,
			Logger:   bootstrap.NewLogger("webapi"),
		}
	})
	return server, svcErr
}

// WebAPI is the entry point
func WebAPI(w http.ResponseWriter, r *http.Request) {
	srv, err := initServer(r.Context())
	if err != nil {
		http.Error(w, "service init failed", http.StatusInternalServerError)
		return
	}
	srv.Handler().ServeHTTP(w, r)
}
