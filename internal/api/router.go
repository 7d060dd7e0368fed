package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/api/middleware"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/service"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/service/auth"
)

// Services holds everything the HTTP layer calls into.
type Services struct {
	*service.Set
	Auth auth.Service
	JWT  auth.JWTService
}

// NewRouter registers every route under /api. Reads are public; changes
// require an access token with the admin role.
func NewRouter(svc Services, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	authHandler := NewAuthHandler(svc.Auth, logger)
	userHandler := NewUserHandler(svc.Users, logger)
	streetcodes := NewStreetcodeHandler(svc.Streetcodes, logger)
	media := NewMediaHandler(MediaServices{
		Audios: svc.Audios,
		Images: svc.Images,
		Videos: svc.Videos,
		Arts:   svc.Arts,
	}, logger)
	facts := NewFactHandler(svc.Facts, logger)
	partners := NewPartnerHandler(svc.Partners, logger)
	sources := NewSourceHandler(svc.Sources, logger)
	team := NewTeamHandler(svc.Team, logger)
	timeline := NewTimelineHandler(svc.Timeline, logger)
	terms := NewTermHandler(svc.Terms, logger)
	texts := NewTextHandler(svc.Texts, logger)
	locations := NewLocationHandler(svc.Coordinates, svc.Statistics, logger)
	toponyms := NewToponymHandler(svc.Toponyms, logger)

	authMiddleware := middleware.NewAuthMiddleware(svc.JWT)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewTraceMiddleware(logger))

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Public endpoints
		r.Group(func(r chi.Router) {
			r.Get("/streetcodes", streetcodes.GetAll)
			r.Get("/streetcodes/short", streetcodes.GetShort)
			r.Get("/streetcodes/count", streetcodes.Count)
			r.Get("/streetcodes/index/{index}", streetcodes.GetByIndex)
			r.Get("/streetcodes/index/{index}/exists", streetcodes.ExistsWithIndex)
			r.Get("/streetcodes/url/{url}", streetcodes.GetByTransliterationURL)
			r.Get("/streetcodes/{id}", streetcodes.GetByID)
			r.Post("/streetcodes/{id}/views", streetcodes.IncrementViewCount)

			r.Get("/streetcodes/{id}/audio", media.GetAudioByStreetcodeID)
			r.Get("/streetcodes/{id}/images", media.GetImagesByStreetcodeID)
			r.Get("/streetcodes/{id}/videos", media.GetVideosByStreetcodeID)
			r.Get("/streetcodes/{id}/arts", media.GetArtsByStreetcodeID)
			r.Get("/streetcodes/{id}/facts", facts.GetByStreetcodeID)
			r.Get("/streetcodes/{id}/partners", partners.GetByStreetcodeID)
			r.Get("/streetcodes/{id}/categories", sources.GetByStreetcodeID)
			r.Get("/streetcodes/{id}/categories/{categoryId}/content", sources.GetContent)
			r.Get("/streetcodes/{id}/timeline", timeline.GetByStreetcodeID)
			r.Get("/streetcodes/{id}/text", texts.GetByStreetcodeID)
			r.Get("/streetcodes/{id}/coordinates", locations.GetCoordinatesByStreetcodeID)
			r.Get("/streetcodes/{id}/statistics", locations.GetStatisticsByStreetcodeID)
			r.Get("/streetcodes/{id}/toponyms", toponyms.GetByStreetcodeID)

			r.Get("/audios", media.GetAllAudios)
			r.Get("/audios/{id}", media.GetAudioByID)
			r.Get("/images", media.GetAllImages)
			r.Get("/images/{id}", media.GetImageByID)
			r.Get("/videos", media.GetAllVideos)
			r.Get("/videos/{id}", media.GetVideoByID)
			r.Get("/arts", media.GetAllArts)
			r.Get("/arts/{id}", media.GetArtByID)

			r.Get("/facts", facts.GetAll)
			r.Get("/facts/{id}", facts.GetByID)
			r.Get("/partners", partners.GetAll)
			r.Get("/partners/short", partners.GetAllShort)
			r.Get("/partners/{id}", partners.GetByID)
			r.Get("/source-categories", sources.GetAll)
			r.Get("/source-categories/{id}", sources.GetByID)
			r.Get("/team", team.GetAll)
			r.Get("/team/main", team.GetAllMain)
			r.Get("/team/{id}", team.GetByID)
			r.Get("/positions", team.GetAllPositions)
			r.Get("/timeline-items", timeline.GetAll)
			r.Get("/timeline-items/{id}", timeline.GetByID)
			r.Get("/terms", terms.GetAll)
			r.Get("/terms/{id}", terms.GetByID)
			r.Get("/terms/{id}/related", terms.GetRelated)
			r.Get("/texts", texts.GetAll)
			r.Get("/texts/{id}", texts.GetByID)
			r.Post("/texts/parse", texts.Parse)
			r.Get("/coordinates", locations.GetAllCoordinates)
			r.Get("/coordinates/{id}", locations.GetCoordinateByID)
			r.Get("/statistics", locations.GetAllStatistics)
			r.Get("/statistics/{id}", locations.GetStatisticByID)
			r.Get("/statistics/qr/{qrId}", locations.GetStatisticByQrID)
			r.Post("/statistics/qr/{qrId}/scan", locations.RecordScan)
			r.Get("/toponyms", toponyms.GetAll)
			r.Get("/toponyms/{id}", toponyms.GetByID)
		})

		// Endpoints for any signed in user
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(middleware.LogAuthenticatedUser)

			r.Get("/users/me", userHandler.Me)
			r.Put("/users/me/password", userHandler.ChangePassword)
		})

		// Admin endpoints
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(middleware.LogAuthenticatedUser)
			r.Use(middleware.RequireAdmin)

			r.Post("/users", userHandler.Create)

			r.Post("/streetcodes", streetcodes.Create)
			r.Put("/streetcodes/{id}", streetcodes.Update)
			r.Patch("/streetcodes/{id}/status", streetcodes.UpdateStatus)
			r.Delete("/streetcodes/{id}", streetcodes.SoftDelete)
			r.Delete("/streetcodes/{id}/permanent", streetcodes.Delete)
			r.Put("/streetcodes/{id}/facts/order", facts.Reorder)
			r.Put("/streetcodes/{id}/categories/{categoryId}/content", sources.UpsertContent)
			r.Delete("/streetcodes/{id}/categories/{categoryId}/content", sources.DeleteContent)
			r.Put("/streetcodes/{id}/toponyms/{toponymId}", toponyms.Link)
			r.Delete("/streetcodes/{id}/toponyms/{toponymId}", toponyms.Unlink)

			r.Post("/audios", media.CreateAudio)
			r.Put("/audios/{id}", media.UpdateAudio)
			r.Delete("/audios/{id}", media.DeleteAudio)
			r.Post("/images", media.CreateImage)
			r.Put("/images/{id}", media.UpdateImage)
			r.Delete("/images/{id}", media.DeleteImage)
			r.Post("/videos", media.CreateVideo)
			r.Put("/videos/{id}", media.UpdateVideo)
			r.Delete("/videos/{id}", media.DeleteVideo)
			r.Post("/arts", media.CreateArt)
			r.Put("/arts/{id}", media.UpdateArt)
			r.Delete("/arts/{id}", media.DeleteArt)

			r.Post("/facts", facts.Create)
			r.Put("/facts/{id}", facts.Update)
			r.Delete("/facts/{id}", facts.Delete)
			r.Post("/partners", partners.Create)
			r.Put("/partners/{id}", partners.Update)
			r.Delete("/partners/{id}", partners.Delete)
			r.Post("/source-categories", sources.Create)
			r.Put("/source-categories/{id}", sources.Update)
			r.Delete("/source-categories/{id}", sources.Delete)
			r.Post("/team", team.Create)
			r.Put("/team/{id}", team.Update)
			r.Delete("/team/{id}", team.Delete)
			r.Post("/positions", team.CreatePosition)
			r.Post("/timeline-items", timeline.Create)
			r.Put("/timeline-items/{id}", timeline.Update)
			r.Delete("/timeline-items/{id}", timeline.Delete)
			r.Post("/terms", terms.Create)
			r.Put("/terms/{id}", terms.Update)
			r.Delete("/terms/{id}", terms.Delete)
			r.Post("/terms/{id}/related", terms.CreateRelated)
			r.Put("/related-terms/{id}", terms.UpdateRelated)
			r.Delete("/related-terms/{id}", terms.DeleteRelated)
			r.Post("/texts", texts.Create)
			r.Put("/texts/{id}", texts.Update)
			r.Delete("/texts/{id}", texts.Delete)
			r.Post("/coordinates", locations.CreateCoordinate)
			r.Put("/coordinates/{id}", locations.UpdateCoordinate)
			r.Delete("/coordinates/{id}", locations.DeleteCoordinate)
			r.Post("/statistics", locations.CreateStatistic)
			r.Put("/statistics/{id}", locations.UpdateStatistic)
			r.Delete("/statistics/{id}", locations.DeleteStatistic)
			r.Post("/toponyms", toponyms.Create)
			r.Put("/toponyms/{id}", toponyms.Update)
			r.Delete("/toponyms/{id}", toponyms.Delete)
			r.Post("/toponyms/import", toponyms.StartImport)
			r.Get("/toponyms/import/{taskId}", toponyms.ImportStatus)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.Error("failed to write health check response", slog.String("error", err.Error()))
		}
	})

	return r
}
