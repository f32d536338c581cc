package http

import (
	"net/http"
	"strconv"

	"github.com/mengistu3137/jimma-zone-erp/internal/pkg/pagination"
)

// queryString returns the named query parameter, or nil when absent.
func queryString(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}

// queryPagination reads page and limit. Unparseable values fall back to the
// defaults applied during validation.
func queryPagination(r *http.Request) pagination.Params {
	var p pagination.Params
	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		p.Page = page
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		p.Limit = limit
	}
	return p
}
