package pagination

import "strings"

const (
	// DefaultSize is the standard page size when a size is not provided.
	DefaultSize = 10
	// MaxSize caps how many rows any page request can ask the backend for.
	MaxSize = 100
)

// Params holds zero-based page inputs from controllers or services.
type Params struct {
	Page    int
	Size    int
	SortBy  string
	SortDir string
}

// NormalizeSize enforces the configured default and maximum sizes.
func NormalizeSize(size int) int {
	if size <= 0 {
		return DefaultSize
	}
	if size > MaxSize {
		return MaxSize
	}
	return size
}

// Normalize clamps the page and size and upper-cases the sort direction.
func (p Params) Normalize() Params {
	out := p
	if out.Page < 0 {
		out.Page = 0
	}
	out.Size = NormalizeSize(out.Size)
	out.SortBy = strings.TrimSpace(out.SortBy)
	switch strings.ToUpper(strings.TrimSpace(out.SortDir)) {
	case "ASC":
		out.SortDir = "ASC"
	case "DESC":
		out.SortDir = "DESC"
	default:
		out.SortDir = ""
	}
	return out
}

// Page mirrors the page envelope returned by the marketplace backend.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

// Map converts the page content while keeping the page coordinates.
func Map[T, U any](in Page[T], fn func(T) U) Page[U] {
	out := Page[U]{
		Content:       make([]U, 0, len(in.Content)),
		TotalElements: in.TotalElements,
		TotalPages:    in.TotalPages,
		Number:        in.Number,
		Size:          in.Size,
		First:         in.First,
		Last:          in.Last,
	}
	for _, item := range in.Content {
		out.Content = append(out.Content, fn(item))
	}
	return out
}
