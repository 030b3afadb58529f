package handlers

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/De-Keersmaecker/Octovoc/internal/model"
	"github.com/De-Keersmaecker/Octovoc/internal/service"
	"github.com/De-Keersmaecker/Octovoc/internal/webutil"
)

// maxUploadSize bounds word list uploads.
const maxUploadSize = 10 << 20

// CatalogHandler serves the admin module endpoints.
type CatalogHandler struct {
	service service.CatalogService
	logger  *slog.Logger
}

func NewCatalogHandler(s service.CatalogService, logger *slog.Logger) *CatalogHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogHandler{service: s, logger: logger}
}

func (h *CatalogHandler) ListModules(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "AdminListModules"))

	modules, err := h.service.ListModules(r.Context(), false)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, modules, logger)
}

func (h *CatalogHandler) GetModule(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "AdminGetModule"))

	moduleID, err := uuidParam(r, "module_id", logger)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	module, err := h.service.GetModule(r.Context(), moduleID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	words, err := h.service.WordsForModule(r.Context(), moduleID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	batteries, err := h.service.BatteriesForModule(r.Context(), moduleID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, &model.ModuleDetail{Module: module, Words: words, Batteries: batteries}, logger)
}

// UploadModule creates a module from a multipart form with a "file" part
// and the name, difficulty, is_free and case_sensitive fields.
func (h *CatalogHandler) UploadModule(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "UploadModule"))

	file, header, err := uploadedFile(w, r)
	if err != nil {
		logger.Warn("Invalid module upload", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	defer file.Close()

	req := model.CreateModuleRequest{
		Name:       strings.TrimSpace(r.FormValue("name")),
		Difficulty: strings.TrimSpace(r.FormValue("difficulty")),
	}
	if req.IsFree, err = formBool(r, "is_free"); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if req.CaseSensitive, err = formBool(r, "case_sensitive"); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if err := webutil.ValidateStruct(&req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	summary, err := h.service.ImportModule(r.Context(), &req, header.Filename, file)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	logger.Info("Module uploaded", slog.String("module_id", summary.ModuleID.String()), slog.String("filename", header.Filename))
	webutil.RespondWithJSON(w, http.StatusCreated, summary, logger)
}

// ReplaceContent re-imports the words of an existing module.
func (h *CatalogHandler) ReplaceContent(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ReplaceModuleContent"))

	moduleID, err := uuidParam(r, "module_id", logger)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	file, header, err := uploadedFile(w, r)
	if err != nil {
		logger.Warn("Invalid module upload", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	defer file.Close()

	summary, err := h.service.ReimportModule(r.Context(), moduleID, header.Filename, file)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, summary, logger)
}

func (h *CatalogHandler) PatchModule(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PatchModule"))

	moduleID, err := uuidParam(r, "module_id", logger)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	var req model.PatchModuleRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid patch request", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	module, err := h.service.PatchModule(r.Context(), moduleID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, module, logger)
}

func uploadedFile(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil, model.NewAppError("FILE_TOO_LARGE", "The uploaded file is too large.", "file", model.ErrInvalidInput)
		}
		return nil, nil, model.NewAppError("INVALID_REQUEST_BODY", "Expected a multipart form upload.", "", model.ErrInvalidInput)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, nil, model.NewAppError("VALIDATION_ERROR", "file is required.", "file", model.ErrInvalidInput)
	}
	return file, header, nil
}

// formBool reads an optional boolean form field; empty means false.
func formBool(r *http.Request, name string) (bool, error) {
	raw := strings.TrimSpace(r.FormValue(name))
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, model.NewAppError("VALIDATION_ERROR", name+" must be true or false.", name, model.ErrInvalidInput)
	}
	return v, nil
}
