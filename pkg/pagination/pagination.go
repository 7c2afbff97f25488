package pagination

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params holds limit/offset pagination parameters extracted from a request.
type Params struct {
	Limit  int
	Offset int
}

// FromContext extracts pagination parameters from the echo context.
func FromContext(c echo.Context) Params {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if offset < 0 {
		offset = 0
	}

	return Params{Limit: limit, Offset: offset}
}

// Response wraps a limit/offset paginated API response.
type Response struct {
	Data    interface{} `json:"data"`
	Total   int         `json:"total"`
	Limit   int         `json:"limit"`
	Offset  int         `json:"offset"`
	HasMore bool        `json:"has_more"`
}

func NewResponse(data interface{}, total, limit, offset int) *Response {
	return &Response{
		Data:    data,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: offset+limit < total,
	}
}

// PageMeta describes one page of an in-memory page/size slicing.
type PageMeta struct {
	Page          int  `json:"page"`
	Size          int  `json:"size"`
	TotalElements int  `json:"total_elements"`
	TotalPages    int  `json:"total_pages"`
	HasNext       bool `json:"has_next"`
}

// Slice computes the [lo, hi) bounds of a zero-indexed page over a
// fully-materialized list of n elements, plus the page metadata. Pages past
// the end yield an empty window, never an error.
func Slice(n, page, size int) (lo, hi int, meta PageMeta) {
	if page < 0 {
		page = 0
	}
	totalPages := 0
	if size > 0 {
		totalPages = (n + size - 1) / size
	}

	lo = page * size
	if lo > n {
		lo = n
	}
	hi = lo + size
	if hi > n {
		hi = n
	}

	meta = PageMeta{
		Page:          page,
		Size:          size,
		TotalElements: n,
		TotalPages:    totalPages,
		HasNext:       hi < n,
	}
	return lo, hi, meta
}
