package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/artemisia-corp/storefront/pkg/errors"
	"github.com/artemisia-corp/storefront/pkg/pagination"
	"github.com/go-chi/chi/v5"
)

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// ParsePageParams reads page, size, sortBy and sortDir. Pages are zero based.
func ParsePageParams(r *http.Request) (pagination.Params, error) {
	page, err := ParseQueryInt(r, "page", 0, 0, 1_000_000)
	if err != nil {
		return pagination.Params{}, err
	}
	size, err := ParseQueryInt(r, "size", pagination.DefaultSize, 1, pagination.MaxSize)
	if err != nil {
		return pagination.Params{}, err
	}
	sortDir := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("sortDir")))
	if sortDir != "" && sortDir != "ASC" && sortDir != "DESC" {
		return pagination.Params{}, pkgerrors.New(pkgerrors.CodeValidation, "sortDir must be ASC or DESC").WithDetails(map[string]any{"field": "sortDir"})
	}
	return pagination.Params{
		Page:    page,
		Size:    size,
		SortBy:  CleanText(r.URL.Query().Get("sortBy"), 64),
		SortDir: sortDir,
	}, nil
}

// ParsePathID reads a positive numeric route parameter.
func ParsePathID(r *http.Request, key string) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid path parameter").WithDetails(map[string]any{"field": key})
	}
	return id, nil
}
