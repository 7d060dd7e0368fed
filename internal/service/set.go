package service

import (
	"fmt"
	"log/slog"

	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/events"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/blob"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/geocoding"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/store"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/task"
)

// SetDeps are the infrastructure dependencies shared by all services.
type SetDeps struct {
	Store    store.Wrapper
	Users    store.UserStore
	Blobs    blob.Store
	Geocoder geocoding.Geocoder // optional
	Emitter  events.EventEmitter
	Tasks    task.TaskStore
}

// Set holds one instance of every content service.
type Set struct {
	Users       UserService
	Streetcodes StreetcodeService
	Audios      AudioService
	Images      ImageService
	Videos      VideoService
	Arts        ArtService
	Facts       FactService
	Partners    PartnerService
	Sources     SourceService
	Team        TeamService
	Timeline    TimelineService
	Terms       TermService
	Texts       TextService
	Coordinates CoordinateService
	Statistics  StatisticService
	Toponyms    ToponymService
}

// NewSet builds every service over deps.
func NewSet(deps SetDeps, logger *slog.Logger) (*Set, error) {
	var (
		s   Set
		err error
	)
	build := func(name string, fn func() error) {
		if err != nil {
			return
		}
		if buildErr := fn(); buildErr != nil {
			err = fmt.Errorf("failed to create %s service: %w", name, buildErr)
		}
	}

	w := deps.Store
	build("user", func() (e error) { s.Users, e = NewUserService(deps.Users, logger); return })
	build("streetcode", func() (e error) { s.Streetcodes, e = NewStreetcodeService(w, deps.Blobs, logger); return })
	build("audio", func() (e error) { s.Audios, e = NewAudioService(w, deps.Blobs, logger); return })
	build("image", func() (e error) { s.Images, e = NewImageService(w, deps.Blobs, logger); return })
	build("video", func() (e error) { s.Videos, e = NewVideoService(w, logger); return })
	build("art", func() (e error) { s.Arts, e = NewArtService(w, logger); return })
	build("fact", func() (e error) { s.Facts, e = NewFactService(w, logger); return })
	build("partner", func() (e error) { s.Partners, e = NewPartnerService(w, logger); return })
	build("source", func() (e error) { s.Sources, e = NewSourceService(w, logger); return })
	build("team", func() (e error) { s.Team, e = NewTeamService(w, logger); return })
	build("timeline", func() (e error) { s.Timeline, e = NewTimelineService(w, logger); return })
	build("term", func() (e error) { s.Terms, e = NewTermService(w, logger); return })
	build("text", func() (e error) { s.Texts, e = NewTextService(w, logger); return })
	build("coordinate", func() (e error) { s.Coordinates, e = NewCoordinateService(w, logger); return })
	build("statistic", func() (e error) { s.Statistics, e = NewStatisticService(w, logger); return })
	build("toponym", func() (e error) {
		s.Toponyms, e = NewToponymService(ToponymServiceDeps{
			Store:    w,
			Blobs:    deps.Blobs,
			Geocoder: deps.Geocoder,
			Emitter:  deps.Emitter,
			Tasks:    deps.Tasks,
		}, logger)
		return
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}
