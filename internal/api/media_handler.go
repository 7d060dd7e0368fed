package api

import (
	"log/slog"
	"net/http"

	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/service"
)

// AudioRequest uploads an audio track. Base64 may be omitted on update to
// keep the stored content.
type AudioRequest struct {
	Title    string `json:"title"     validate:"max=100"`
	Base64   string `json:"base64"`
	MimeType string `json:"mime_type" validate:"required,max=50,mimeprefix=audio"`
}

// ImageRequest uploads an image. Base64 may be omitted on update to keep
// the stored content.
type ImageRequest struct {
	Title    string `json:"title"     validate:"max=100"`
	Alt      string `json:"alt"       validate:"max=300"`
	Base64   string `json:"base64"`
	MimeType string `json:"mime_type" validate:"required,max=50,mimeprefix=image"`
}

// VideoRequest carries the fields of an externally hosted video.
type VideoRequest struct {
	Title        string `json:"title"         validate:"max=100"`
	Description  string `json:"description"   validate:"max=500"`
	URL          string `json:"url"           validate:"required,url"`
	StreetcodeID int    `json:"streetcode_id" validate:"gte=0"`
}

func (req *VideoRequest) toDomain(id int) *domain.Video {
	return &domain.Video{
		ID:           id,
		Title:        req.Title,
		Description:  req.Description,
		URL:          req.URL,
		StreetcodeID: req.StreetcodeID,
	}
}

// ArtRequest carries the fields of an art.
type ArtRequest struct {
	Title       string `json:"title"       validate:"max=100"`
	Description string `json:"description" validate:"max=500"`
	ImageID     int    `json:"image_id"    validate:"required,gt=0"`
}

// AudioResponse represents an audio with its content.
type AudioResponse struct {
	ID       int    `json:"id"`
	Title    string `json:"title,omitempty"`
	BlobName string `json:"blob_name"`
	MimeType string `json:"mime_type"`
	Base64   string `json:"base64"`
}

// ImageResponse represents an image with its content.
type ImageResponse struct {
	ID       int    `json:"id"`
	Title    string `json:"title,omitempty"`
	Alt      string `json:"alt,omitempty"`
	BlobName string `json:"blob_name"`
	MimeType string `json:"mime_type"`
	Base64   string `json:"base64"`
}

// VideoResponse represents a video.
type VideoResponse struct {
	ID           int    `json:"id"`
	Title        string `json:"title,omitempty"`
	Description  string `json:"description,omitempty"`
	URL          string `json:"url"`
	StreetcodeID int    `json:"streetcode_id"`
}

// ArtResponse represents an art.
type ArtResponse struct {
	ID          int    `json:"id"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	ImageID     int    `json:"image_id"`
}

func audioToResponse(a *service.AudioFile) AudioResponse {
	return AudioResponse{ID: a.ID, Title: a.Title, BlobName: a.BlobName, MimeType: a.MimeType, Base64: a.Base64}
}

func imageToResponse(i *service.ImageFile) ImageResponse {
	return ImageResponse{
		ID:       i.ID,
		Title:    i.Title,
		Alt:      i.Alt,
		BlobName: i.BlobName,
		MimeType: i.MimeType,
		Base64:   i.Base64,
	}
}

func videoToResponse(v *domain.Video) VideoResponse {
	return VideoResponse{
		ID:           v.ID,
		Title:        v.Title,
		Description:  v.Description,
		URL:          v.URL,
		StreetcodeID: v.StreetcodeID,
	}
}

func artToResponse(a *domain.Art) ArtResponse {
	return ArtResponse{ID: a.ID, Title: a.Title, Description: a.Description, ImageID: a.ImageID}
}

// MediaHandler handles audio, image, video and art requests.
type MediaHandler struct {
	audios service.AudioService
	images service.ImageService
	videos service.VideoService
	arts   service.ArtService
	logger *slog.Logger
}

// MediaServices groups the services behind MediaHandler.
type MediaServices struct {
	Audios service.AudioService
	Images service.ImageService
	Videos service.VideoService
	Arts   service.ArtService
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(services MediaServices, logger *slog.Logger) *MediaHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &MediaHandler{
		audios: services.Audios,
		images: services.Images,
		videos: services.Videos,
		arts:   services.Arts,
		logger: logger.With(slog.String("component", "media_handler")),
	}
}

// GetAllAudios handles GET /audios.
func (h *MediaHandler) GetAllAudios(w http.ResponseWriter, r *http.Request) {
	audios, err := h.audios.GetAll(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list audios")
		return
	}
	respondOK(w, r, mapSlice(audios, audioToResponse))
}

// GetAudioByID handles GET /audios/{id}.
func (h *MediaHandler) GetAudioByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	audio, err := h.audios.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get audio")
		return
	}
	respondOK(w, r, audioToResponse(audio))
}

// GetAudioByStreetcodeID handles GET /streetcodes/{id}/audio.
func (h *MediaHandler) GetAudioByStreetcodeID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	audio, err := h.audios.GetByStreetcodeID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get audio")
		return
	}
	respondOK(w, r, audioToResponse(audio))
}

// CreateAudio handles POST /audios.
func (h *MediaHandler) CreateAudio(w http.ResponseWriter, r *http.Request) {
	var req AudioRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	audio, err := h.audios.Create(r.Context(), service.AudioInput(req))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create audio")
		return
	}
	respondCreated(w, r, audioToResponse(audio))
}

// UpdateAudio handles PUT /audios/{id}.
func (h *MediaHandler) UpdateAudio(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req AudioRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	audio, err := h.audios.Update(r.Context(), id, service.AudioInput(req))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update audio")
		return
	}
	respondOK(w, r, audioToResponse(audio))
}

// DeleteAudio handles DELETE /audios/{id}.
func (h *MediaHandler) DeleteAudio(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.audios.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete audio")
		return
	}
	respondNoContent(w)
}

// GetAllImages handles GET /images.
func (h *MediaHandler) GetAllImages(w http.ResponseWriter, r *http.Request) {
	images, err := h.images.GetAll(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list images")
		return
	}
	respondOK(w, r, mapSlice(images, imageToResponse))
}

// GetImageByID handles GET /images/{id}.
func (h *MediaHandler) GetImageByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	image, err := h.images.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get image")
		return
	}
	respondOK(w, r, imageToResponse(image))
}

// GetImagesByStreetcodeID handles GET /streetcodes/{id}/images.
func (h *MediaHandler) GetImagesByStreetcodeID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	images, err := h.images.GetByStreetcodeID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list images")
		return
	}
	respondOK(w, r, mapSlice(images, imageToResponse))
}

// CreateImage handles POST /images.
func (h *MediaHandler) CreateImage(w http.ResponseWriter, r *http.Request) {
	var req ImageRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	image, err := h.images.Create(r.Context(), service.ImageInput(req))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create image")
		return
	}
	respondCreated(w, r, imageToResponse(image))
}

// UpdateImage handles PUT /images/{id}.
func (h *MediaHandler) UpdateImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req ImageRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	image, err := h.images.Update(r.Context(), id, service.ImageInput(req))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update image")
		return
	}
	respondOK(w, r, imageToResponse(image))
}

// DeleteImage handles DELETE /images/{id}.
func (h *MediaHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.images.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete image")
		return
	}
	respondNoContent(w)
}

// GetAllVideos handles GET /videos.
func (h *MediaHandler) GetAllVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := h.videos.GetAll(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list videos")
		return
	}
	respondOK(w, r, mapSlice(videos, videoToResponse))
}

// GetVideoByID handles GET /videos/{id}.
func (h *MediaHandler) GetVideoByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	video, err := h.videos.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get video")
		return
	}
	respondOK(w, r, videoToResponse(video))
}

// GetVideosByStreetcodeID handles GET /streetcodes/{id}/videos.
func (h *MediaHandler) GetVideosByStreetcodeID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	videos, err := h.videos.GetByStreetcodeID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list videos")
		return
	}
	respondOK(w, r, mapSlice(videos, videoToResponse))
}

// CreateVideo handles POST /videos.
func (h *MediaHandler) CreateVideo(w http.ResponseWriter, r *http.Request) {
	var req VideoRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	video := req.toDomain(0)
	if err := h.videos.Create(r.Context(), video); err != nil {
		HandleAPIError(w, r, err, "Failed to create video")
		return
	}
	respondCreated(w, r, videoToResponse(video))
}

// UpdateVideo handles PUT /videos/{id}.
func (h *MediaHandler) UpdateVideo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req VideoRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	video := req.toDomain(id)
	if err := h.videos.Update(r.Context(), video); err != nil {
		HandleAPIError(w, r, err, "Failed to update video")
		return
	}
	respondOK(w, r, videoToResponse(video))
}

// DeleteVideo handles DELETE /videos/{id}.
func (h *MediaHandler) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.videos.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete video")
		return
	}
	respondNoContent(w)
}

// GetAllArts handles GET /arts.
func (h *MediaHandler) GetAllArts(w http.ResponseWriter, r *http.Request) {
	arts, err := h.arts.GetAll(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list arts")
		return
	}
	respondOK(w, r, mapSlice(arts, artToResponse))
}

// GetArtByID handles GET /arts/{id}.
func (h *MediaHandler) GetArtByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	art, err := h.arts.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get art")
		return
	}
	respondOK(w, r, artToResponse(art))
}

// GetArtsByStreetcodeID handles GET /streetcodes/{id}/arts.
func (h *MediaHandler) GetArtsByStreetcodeID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	arts, err := h.arts.GetByStreetcodeID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list arts")
		return
	}
	respondOK(w, r, mapSlice(arts, artToResponse))
}

// CreateArt handles POST /arts.
func (h *MediaHandler) CreateArt(w http.ResponseWriter, r *http.Request) {
	var req ArtRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	art := &domain.Art{Title: req.Title, Description: req.Description, ImageID: req.ImageID}
	if err := h.arts.Create(r.Context(), art); err != nil {
		HandleAPIError(w, r, err, "Failed to create art")
		return
	}
	respondCreated(w, r, artToResponse(art))
}

// UpdateArt handles PUT /arts/{id}.
func (h *MediaHandler) UpdateArt(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req ArtRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	art := &domain.Art{ID: id, Title: req.Title, Description: req.Description, ImageID: req.ImageID}
	if err := h.arts.Update(r.Context(), art); err != nil {
		HandleAPIError(w, r, err, "Failed to update art")
		return
	}
	respondOK(w, r, artToResponse(art))
}

// DeleteArt handles DELETE /arts/{id}.
func (h *MediaHandler) DeleteArt(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.arts.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete art")
		return
	}
	respondNoContent(w)
}
