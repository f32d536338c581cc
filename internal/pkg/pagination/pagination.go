package pagination

import (
	"fmt"
	"math"

	"github.com/mengistu3137/jimma-zone-erp/internal/pkg/validator"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params is the page/limit pair every list filter embeds.
type Params struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Normalize applies defaults and appends range errors to errs.
func (p *Params) Normalize(errs *validator.ValidationErrors) {
	if p.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if p.Page == 0 {
		p.Page = 1
	}
	if p.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		errs.Add("limit", fmt.Sprintf("limit must not exceed %d", MaxLimit))
	}
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

type Meta struct {
	TotalCount int64  `json:"total_count"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"total_pages"`
	Showing    string `json:"showing"`
}

func NewMeta(p Params, total int64) Meta {
	limit := max(p.Limit, 1)
	showing := fmt.Sprintf("%d-%d of %d", p.Offset()+1, min(p.Page*limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}
	return Meta{
		TotalCount: total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		Showing:    showing,
	}
}
