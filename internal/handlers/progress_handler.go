package handlers

import (
	"log/slog"
	"net/http"

	"github.com/De-Keersmaecker/Octovoc/internal/middleware"
	"github.com/De-Keersmaecker/Octovoc/internal/model"
	"github.com/De-Keersmaecker/Octovoc/internal/service"
	"github.com/De-Keersmaecker/Octovoc/internal/webutil"
)

type ProgressHandler struct {
	service service.ProgressService
	logger  *slog.Logger
}

func NewProgressHandler(s service.ProgressService, logger *slog.Logger) *ProgressHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressHandler{
		service: s,
		logger:  logger,
	}
}

// ListModules lists active modules, with the caller's progress when known.
func (h *ProgressHandler) ListModules(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ListModules"))

	modules, err := h.service.ListModules(r.Context(), middleware.IdentityFromContext(r.Context()))
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, modules, logger)
}

func (h *ProgressHandler) StartModule(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "StartModule"))

	moduleID, err := uuidParam(r, "module_id", logger)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	resp, err := h.service.StartModule(r.Context(), middleware.IdentityFromContext(r.Context()), moduleID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

func (h *ProgressHandler) GetModuleProgress(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetModuleProgress"))

	student, err := studentID(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	moduleID, err := uuidParam(r, "module_id", logger)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	view, err := h.service.GetModuleProgress(r.Context(), student, moduleID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, view, logger)
}

func (h *ProgressHandler) StartBattery(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "StartBattery"))

	batteryID, err := uuidParam(r, "battery_id", logger)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	resp, err := h.service.StartBattery(r.Context(), middleware.IdentityFromContext(r.Context()), batteryID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

// SubmitAnswer records an answer for a persisted battery run.
func (h *ProgressHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "SubmitAnswer"))

	student, err := studentID(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	var req model.AnswerRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid answer request", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	resp, err := h.service.SubmitAnswer(r.Context(), student, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

// SubmitAnonymousAnswer evaluates an answer against client-held state.
func (h *ProgressHandler) SubmitAnonymousAnswer(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "SubmitAnonymousAnswer"))

	var req model.AnonymousAnswerRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid anonymous answer request", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	resp, err := h.service.SubmitAnonymousAnswer(r.Context(), &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

func (h *ProgressHandler) StartFinalRound(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "StartFinalRound"))

	student, err := studentID(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	moduleID, err := uuidParam(r, "module_id", logger)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	resp, err := h.service.StartFinalRound(r.Context(), student, moduleID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

func (h *ProgressHandler) SubmitFinalRoundAnswer(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "SubmitFinalRoundAnswer"))

	student, err := studentID(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	moduleID, err := uuidParam(r, "module_id", logger)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	var req model.FinalRoundAnswerRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid final round answer request", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	resp, err := h.service.SubmitFinalRoundAnswer(r.Context(), student, moduleID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

func (h *ProgressHandler) CompleteModule(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "CompleteModule"))

	student, err := studentID(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	moduleID, err := uuidParam(r, "module_id", logger)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	resp, err := h.service.CompleteModule(r.Context(), student, moduleID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	logger.Info("Module completion acknowledged", slog.String("module_id", moduleID.String()))
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}
