package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/office"
	"github.com/mengistu3137/jimma-zone-erp/internal/handler/http/response"
)

type OfficeHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Hierarchy(w http.ResponseWriter, r *http.Request)
}

type officeHandlerImpl struct {
	officeService office.OfficeService
}

func NewOfficeHandler(officeService office.OfficeService) OfficeHandler {
	return &officeHandlerImpl{officeService: officeService}
}

func (h *officeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := office.OfficeFilter{
		Search: queryString(r, "search"),
		Params: queryPagination(r),
	}

	results, err := h.officeService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

func (h *officeHandlerImpl) Hierarchy(w http.ResponseWriter, r *http.Request) {
	tree, err := h.officeService.Hierarchy(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, tree)
}
