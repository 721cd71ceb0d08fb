package model

import "github.com/Alijeyrad/clinica_backend/pkg/constants"

// Page is a 1-based page request.
type Page struct {
	Page  int
	Limit int
}

func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > constants.MaxPage {
		p.Page = constants.MaxPage
	}
	if p.Limit < 1 {
		p.Limit = constants.DefaultPageSize
	}
	if p.Limit > constants.MaxPageSize {
		p.Limit = constants.MaxPageSize
	}
	return p
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

type PageMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

func NewPageMeta(p Page, total int) PageMeta {
	pages := 0
	if p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return PageMeta{Total: total, Page: p.Page, Limit: p.Limit, TotalPages: pages}
}
