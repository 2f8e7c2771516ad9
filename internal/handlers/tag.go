package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/middleware"
	"github.com/GregMSThompson/finance-tracker/internal/response"
)

type tagHandlers struct {
	ResponseHandler response.ResponseHandler
	TagSvc          TagService
}

func NewTagHandlers(deps *Deps) *tagHandlers {
	return &tagHandlers{
		ResponseHandler: deps.ResponseHandler,
		TagSvc:          deps.TagSvc,
	}
}

func (h *tagHandlers) TagRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListTags)
	r.Post("/", h.CreateTag)
	r.Get("/{tagId}", h.GetTag)
	r.Put("/{tagId}", h.UpdateTag)
	r.Delete("/{tagId}", h.DeleteTag)
	r.Post("/{tagId}/restore", h.RestoreTag)
	return r
}

func (h *tagHandlers) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.TagSvc.ListTags(r.Context(), middleware.UID(r.Context()), queryString(r.URL.Query(), "search"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.NewTagList(tags))
}

func (h *tagHandlers) GetTag(w http.ResponseWriter, r *http.Request) {
	tag, err := h.TagSvc.GetTag(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "tagId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.NewTagOutput(tag))
}

func (h *tagHandlers) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req dto.TagRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	tag, err := h.TagSvc.CreateTag(r.Context(), middleware.UID(r.Context()), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, dto.NewTagOutput(tag))
}

func (h *tagHandlers) UpdateTag(w http.ResponseWriter, r *http.Request) {
	var req dto.TagRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	tag, err := h.TagSvc.UpdateTag(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "tagId"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.NewTagOutput(tag))
}

func (h *tagHandlers) DeleteTag(w http.ResponseWriter, r *http.Request) {
	if err := h.TagSvc.DeleteTag(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "tagId")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *tagHandlers) RestoreTag(w http.ResponseWriter, r *http.Request) {
	tag, err := h.TagSvc.RestoreTag(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "tagId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.NewTagOutput(tag))
}
