// Package repository exposes typed access to the backend's REST resources.
// Every repository decodes through pkg/envelope so an endpoint changing its
// wrapper shape never leaks past this package.
package repository

import (
	"net/url"
	"strconv"

	"github.com/noah-isme/campus-portal-client/internal/models"
)

// pageQuery renders the shared pagination and search parameters.
func pageQuery(filter models.PageFilter) url.Values {
	query := url.Values{}
	if filter.Page > 0 {
		query.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.PageSize > 0 {
		query.Set("pageSize", strconv.Itoa(filter.PageSize))
	}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}
	return query
}
