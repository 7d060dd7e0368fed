package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/api/shared"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/logger"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/service"
)

// ToponymRequest carries the fields of a toponym.
type ToponymRequest struct {
	Oblast         string   `json:"oblast"           validate:"required,max=30"`
	AdminRegionOld string   `json:"admin_region_old" validate:"max=150"`
	AdminRegionNew string   `json:"admin_region_new" validate:"max=150"`
	Gromada        string   `json:"gromada"          validate:"max=150"`
	Community      string   `json:"community"        validate:"required,max=150"`
	StreetType     string   `json:"street_type"      validate:"max=50"`
	StreetName     string   `json:"street_name"      validate:"required,max=150"`
	Latitude       *float64 `json:"latitude"         validate:"omitempty,gte=-90,lte=90"`
	Longitude      *float64 `json:"longitude"        validate:"omitempty,gte=-180,lte=180"`
}

func (req *ToponymRequest) toDomain(id int) *domain.Toponym {
	return &domain.Toponym{
		ID:             id,
		Oblast:         req.Oblast,
		AdminRegionOld: req.AdminRegionOld,
		AdminRegionNew: req.AdminRegionNew,
		Gromada:        req.Gromada,
		Community:      req.Community,
		StreetType:     req.StreetType,
		StreetName:     req.StreetName,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
	}
}

// ToponymImportRequest carries a base64 encoded ZIP archive with one CSV
// file of the street register.
type ToponymImportRequest struct {
	Archive string `json:"archive" validate:"required,base64"`
}

// ToponymResponse represents a toponym.
type ToponymResponse struct {
	ID             int      `json:"id"`
	Oblast         string   `json:"oblast"`
	AdminRegionOld string   `json:"admin_region_old,omitempty"`
	AdminRegionNew string   `json:"admin_region_new,omitempty"`
	Gromada        string   `json:"gromada,omitempty"`
	Community      string   `json:"community"`
	StreetType     string   `json:"street_type,omitempty"`
	StreetName     string   `json:"street_name"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
}

// ToponymPageResponse is one page of toponyms.
type ToponymPageResponse struct {
	Toponyms []ToponymResponse `json:"toponyms"`
	Pages    int               `json:"pages"`
}

// ImportTaskResponse is returned when an import is queued.
type ImportTaskResponse struct {
	TaskID uuid.UUID `json:"task_id"`
}

// ImportStatusResponse reports the state of an import task.
type ImportStatusResponse struct {
	TaskID    uuid.UUID                   `json:"task_id"`
	Status    string                      `json:"status"`
	Report    *domain.ToponymImportReport `json:"report,omitempty"`
	Error     string                      `json:"error,omitempty"`
	CreatedAt time.Time                   `json:"created_at"`
	UpdatedAt time.Time                   `json:"updated_at"`
}

func toponymToResponse(t *domain.Toponym) ToponymResponse {
	return ToponymResponse{
		ID:             t.ID,
		Oblast:         t.Oblast,
		AdminRegionOld: t.AdminRegionOld,
		AdminRegionNew: t.AdminRegionNew,
		Gromada:        t.Gromada,
		Community:      t.Community,
		StreetType:     t.StreetType,
		StreetName:     t.StreetName,
		Latitude:       t.Latitude,
		Longitude:      t.Longitude,
	}
}

// ToponymHandler handles street register requests.
type ToponymHandler struct {
	toponyms service.ToponymService
	logger   *slog.Logger
}

// NewToponymHandler creates a new ToponymHandler.
func NewToponymHandler(toponyms service.ToponymService, logger *slog.Logger) *ToponymHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ToponymHandler{toponyms: toponyms, logger: logger.With(slog.String("component", "toponym_handler"))}
}

// GetAll handles GET /toponyms with the optional oblast, community,
// street_name, page and amount query parameters.
func (h *ToponymHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	page, err := getQueryInt(r, "page")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	amount, err := getQueryInt(r, "amount")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	query := r.URL.Query()
	result, err := h.toponyms.GetAll(r.Context(), service.ToponymFilter{
		Oblast:     query.Get("oblast"),
		Community:  query.Get("community"),
		StreetName: query.Get("street_name"),
		Page:       page,
		Amount:     amount,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list toponyms")
		return
	}
	respondOK(w, r, ToponymPageResponse{
		Toponyms: mapSlice(result.Toponyms, toponymToResponse),
		Pages:    result.Pages,
	})
}

// GetByID handles GET /toponyms/{id}.
func (h *ToponymHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	toponym, err := h.toponyms.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get toponym")
		return
	}
	respondOK(w, r, toponymToResponse(toponym))
}

// GetByStreetcodeID handles GET /streetcodes/{id}/toponyms.
func (h *ToponymHandler) GetByStreetcodeID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	toponyms, err := h.toponyms.GetByStreetcodeID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list toponyms")
		return
	}
	respondOK(w, r, mapSlice(toponyms, toponymToResponse))
}

// Create handles POST /toponyms.
func (h *ToponymHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ToponymRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	toponym := req.toDomain(0)
	if err := h.toponyms.Create(r.Context(), toponym); err != nil {
		HandleAPIError(w, r, err, "Failed to create toponym")
		return
	}
	respondCreated(w, r, toponymToResponse(toponym))
}

// Update handles PUT /toponyms/{id}.
func (h *ToponymHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req ToponymRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	toponym := req.toDomain(id)
	if err := h.toponyms.Update(r.Context(), toponym); err != nil {
		HandleAPIError(w, r, err, "Failed to update toponym")
		return
	}
	respondOK(w, r, toponymToResponse(toponym))
}

// Delete handles DELETE /toponyms/{id}.
func (h *ToponymHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.toponyms.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete toponym")
		return
	}
	respondNoContent(w)
}

// Link handles PUT /streetcodes/{id}/toponyms/{toponymId}.
func (h *ToponymHandler) Link(w http.ResponseWriter, r *http.Request) {
	streetcodeID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	toponymID, ok := pathID(w, r, "toponymId")
	if !ok {
		return
	}
	if err := h.toponyms.Link(r.Context(), streetcodeID, toponymID); err != nil {
		HandleAPIError(w, r, err, "Failed to link toponym")
		return
	}
	respondNoContent(w)
}

// Unlink handles DELETE /streetcodes/{id}/toponyms/{toponymId}.
func (h *ToponymHandler) Unlink(w http.ResponseWriter, r *http.Request) {
	streetcodeID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	toponymID, ok := pathID(w, r, "toponymId")
	if !ok {
		return
	}
	if err := h.toponyms.Unlink(r.Context(), streetcodeID, toponymID); err != nil {
		HandleAPIError(w, r, err, "Failed to unlink toponym")
		return
	}
	respondNoContent(w)
}

// StartImport handles POST /toponyms/import. The import runs in the
// background; the response carries the task to poll.
func (h *ToponymHandler) StartImport(w http.ResponseWriter, r *http.Request) {
	var req ToponymImportRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	taskID, err := h.toponyms.StartImport(r.Context(), req.Archive)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start toponym import")
		return
	}
	w.Header().Set("Location", "/api/toponyms/import/"+taskID.String())
	shared.RespondWithJSON(w, r, http.StatusAccepted, ImportTaskResponse{TaskID: taskID})
}

// ImportStatus handles GET /toponyms/import/{taskId}.
func (h *ToponymHandler) ImportStatus(w http.ResponseWriter, r *http.Request) {
	taskID, err := getPathUUID(r, "taskId")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	rec, err := h.toponyms.ImportStatus(r.Context(), taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get import status")
		return
	}

	resp := ImportStatusResponse{
		TaskID:    rec.ID,
		Status:    string(rec.Status),
		Error:     rec.Error,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
	if len(rec.Result) > 0 {
		var report domain.ToponymImportReport
		if err := json.Unmarshal(rec.Result, &report); err != nil {
			logger.FromContextOrDefault(r.Context(), h.logger).Warn("stored import report is unreadable",
				slog.String("task_id", rec.ID.String()),
				slog.String("error", err.Error()))
		} else {
			resp.Report = &report
		}
	}
	respondOK(w, r, resp)
}
