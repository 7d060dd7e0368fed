package api

import (
	"log/slog"
	"net/http"

	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/service"
)

// CoordinateRequest carries a point of a streetcode.
type CoordinateRequest struct {
	Latitude     float64 `json:"latitude"      validate:"gte=-90,lte=90"`
	Longitude    float64 `json:"longitude"     validate:"gte=-180,lte=180"`
	StreetcodeID int     `json:"streetcode_id" validate:"gte=0"`
}

func (req *CoordinateRequest) toDomain(id int) *domain.StreetcodeCoordinate {
	return &domain.StreetcodeCoordinate{
		ID:           id,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		StreetcodeID: req.StreetcodeID,
	}
}

// StatisticRecordRequest carries a QR plate record. The scan count is
// maintained by the server.
type StatisticRecordRequest struct {
	QrID                   int    `json:"qr_id"                    validate:"required,gt=0"`
	Address                string `json:"address"                  validate:"required,max=150"`
	StreetcodeID           int    `json:"streetcode_id"            validate:"required,gt=0"`
	StreetcodeCoordinateID int    `json:"streetcode_coordinate_id" validate:"required,gt=0"`
}

func (req *StatisticRecordRequest) toDomain(id int) *domain.StatisticRecord {
	return &domain.StatisticRecord{
		ID:                     id,
		QrID:                   req.QrID,
		Address:                req.Address,
		StreetcodeID:           req.StreetcodeID,
		StreetcodeCoordinateID: req.StreetcodeCoordinateID,
	}
}

// CoordinateResponse represents a point of a streetcode.
type CoordinateResponse struct {
	ID           int     `json:"id"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	StreetcodeID int     `json:"streetcode_id"`
}

// StatisticRecordResponse represents a QR plate record.
type StatisticRecordResponse struct {
	ID                     int    `json:"id"`
	QrID                   int    `json:"qr_id"`
	Count                  int    `json:"count"`
	Address                string `json:"address"`
	StreetcodeID           int    `json:"streetcode_id"`
	StreetcodeCoordinateID int    `json:"streetcode_coordinate_id"`
}

func coordinateToResponse(c *domain.StreetcodeCoordinate) CoordinateResponse {
	return CoordinateResponse{
		ID:           c.ID,
		Latitude:     c.Latitude,
		Longitude:    c.Longitude,
		StreetcodeID: c.StreetcodeID,
	}
}

func statisticToResponse(s *domain.StatisticRecord) StatisticRecordResponse {
	return StatisticRecordResponse{
		ID:                     s.ID,
		QrID:                   s.QrID,
		Count:                  s.Count,
		Address:                s.Address,
		StreetcodeID:           s.StreetcodeID,
		StreetcodeCoordinateID: s.StreetcodeCoordinateID,
	}
}

// LocationHandler handles coordinate and QR statistic requests.
type LocationHandler struct {
	coordinates service.CoordinateService
	statistics  service.StatisticService
	logger      *slog.Logger
}

// NewLocationHandler creates a new LocationHandler.
func NewLocationHandler(
	coordinates service.CoordinateService,
	statistics service.StatisticService,
	logger *slog.Logger,
) *LocationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocationHandler{
		coordinates: coordinates,
		statistics:  statistics,
		logger:      logger.With(slog.String("component", "location_handler")),
	}
}

// GetAllCoordinates handles GET /coordinates.
func (h *LocationHandler) GetAllCoordinates(w http.ResponseWriter, r *http.Request) {
	coordinates, err := h.coordinates.GetAll(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list coordinates")
		return
	}
	respondOK(w, r, mapSlice(coordinates, coordinateToResponse))
}

// GetCoordinateByID handles GET /coordinates/{id}.
func (h *LocationHandler) GetCoordinateByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	coordinate, err := h.coordinates.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get coordinate")
		return
	}
	respondOK(w, r, coordinateToResponse(coordinate))
}

// GetCoordinatesByStreetcodeID handles GET /streetcodes/{id}/coordinates.
func (h *LocationHandler) GetCoordinatesByStreetcodeID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	coordinates, err := h.coordinates.GetByStreetcodeID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list coordinates")
		return
	}
	respondOK(w, r, mapSlice(coordinates, coordinateToResponse))
}

// CreateCoordinate handles POST /coordinates.
func (h *LocationHandler) CreateCoordinate(w http.ResponseWriter, r *http.Request) {
	var req CoordinateRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	coordinate := req.toDomain(0)
	if err := h.coordinates.Create(r.Context(), coordinate); err != nil {
		HandleAPIError(w, r, err, "Failed to create coordinate")
		return
	}
	respondCreated(w, r, coordinateToResponse(coordinate))
}

// UpdateCoordinate handles PUT /coordinates/{id}.
func (h *LocationHandler) UpdateCoordinate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req CoordinateRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	coordinate := req.toDomain(id)
	if err := h.coordinates.Update(r.Context(), coordinate); err != nil {
		HandleAPIError(w, r, err, "Failed to update coordinate")
		return
	}
	respondOK(w, r, coordinateToResponse(coordinate))
}

// DeleteCoordinate handles DELETE /coordinates/{id}.
func (h *LocationHandler) DeleteCoordinate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.coordinates.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete coordinate")
		return
	}
	respondNoContent(w)
}

// GetAllStatistics handles GET /statistics.
func (h *LocationHandler) GetAllStatistics(w http.ResponseWriter, r *http.Request) {
	records, err := h.statistics.GetAll(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list statistic records")
		return
	}
	respondOK(w, r, mapSlice(records, statisticToResponse))
}

// GetStatisticByID handles GET /statistics/{id}.
func (h *LocationHandler) GetStatisticByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	record, err := h.statistics.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get statistic record")
		return
	}
	respondOK(w, r, statisticToResponse(record))
}

// GetStatisticByQrID handles GET /statistics/qr/{qrId}.
func (h *LocationHandler) GetStatisticByQrID(w http.ResponseWriter, r *http.Request) {
	qrID, ok := pathID(w, r, "qrId")
	if !ok {
		return
	}
	record, err := h.statistics.GetByQrID(r.Context(), qrID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get statistic record")
		return
	}
	respondOK(w, r, statisticToResponse(record))
}

// GetStatisticsByStreetcodeID handles GET /streetcodes/{id}/statistics.
func (h *LocationHandler) GetStatisticsByStreetcodeID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	records, err := h.statistics.GetByStreetcodeID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list statistic records")
		return
	}
	respondOK(w, r, mapSlice(records, statisticToResponse))
}

// CreateStatistic handles POST /statistics.
func (h *LocationHandler) CreateStatistic(w http.ResponseWriter, r *http.Request) {
	var req StatisticRecordRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	record := req.toDomain(0)
	if err := h.statistics.Create(r.Context(), record); err != nil {
		HandleAPIError(w, r, err, "Failed to create statistic record")
		return
	}
	respondCreated(w, r, statisticToResponse(record))
}

// UpdateStatistic handles PUT /statistics/{id}.
func (h *LocationHandler) UpdateStatistic(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req StatisticRecordRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	record := req.toDomain(id)
	if err := h.statistics.Update(r.Context(), record); err != nil {
		HandleAPIError(w, r, err, "Failed to update statistic record")
		return
	}
	respondOK(w, r, statisticToResponse(record))
}

// DeleteStatistic handles DELETE /statistics/{id}.
func (h *LocationHandler) DeleteStatistic(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.statistics.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete statistic record")
		return
	}
	respondNoContent(w)
}

// RecordScan handles POST /statistics/qr/{qrId}/scan. It is called when a
// visitor scans a plate and needs no authentication.
func (h *LocationHandler) RecordScan(w http.ResponseWriter, r *http.Request) {
	qrID, ok := pathID(w, r, "qrId")
	if !ok {
		return
	}
	record, err := h.statistics.IncrementCount(r.Context(), qrID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to record scan")
		return
	}
	respondOK(w, r, statisticToResponse(record))
}
