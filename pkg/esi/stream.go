package esi

import (
	"context"
	"iter"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Stream executes req lazily and yields the elements of the response.
//
// For paginated requests every page is fetched only once the elements of the
// previous page have been consumed. Fetching starts at the page already set on
// the request (default 1) and ends at the first empty page or after the page
// count announced by the X-Pages header. A response that is not a list is
// yielded as a single element and ends the sequence.
//
// Requests that are not paginated are run once and their decoded body is
// yielded as a single element.
//
// A failure ends the sequence: it is yielded as (nil, err) and no further
// request is made. Breaking out of the loop stops fetching as well.
func (c *Client) Stream(ctx context.Context, req Request) iter.Seq2[any, error] {
	logger := c.logger.With("stream_id", uuid.NewString())

	if !req.Paginated() {
		return func(yield func(any, error) bool) {
			resp, err := c.do(ctx, logger, req)
			if err != nil {
				yield(nil, err)
				return
			}
			yield(resp.value, nil)
		}
	}

	return func(yield func(any, error) bool) {
		page := startPage(req)
		maxPage := DefaultMaxPage

		for {
			logger.Debug("fetching page", "request", req, "page", page, "max_page", maxPage)

			resp, err := c.do(ctx, logger, req.Options(map[string]any{PageOption: page}))
			if err != nil {
				yield(nil, err)
				return
			}

			items, ok := resp.value.([]any)
			if !ok {
				yield(resp.value, nil)
				return
			}
			if len(items) == 0 {
				return
			}

			for _, item := range items {
				if !yield(item, nil) {
					return
				}
			}

			page++
			maxPage = pageCount(resp.header)
			if page > maxPage {
				logger.Debug("reached last page", "request", req, "max_page", maxPage)
				return
			}
		}
	}
}

// Collect drains Stream into a slice. The elements read before a failure are
// discarded.
func (c *Client) Collect(ctx context.Context, req Request) ([]any, error) {
	var out []any
	for item, err := range c.Stream(ctx, req) {
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// startPage returns the page option already set on req, 1 when unset or not
// a positive integer.
func startPage(req Request) int {
	v, ok := req.Option(PageOption)
	if !ok {
		return 1
	}

	var page int
	switch vv := v.(type) {
	case int:
		page = vv
	case int32:
		page = int(vv)
	case int64:
		page = int(vv)
	case float64:
		page = int(vv)
	case string:
		page, _ = strconv.Atoi(strings.TrimSpace(vv))
	}
	if page < 1 {
		return 1
	}
	return page
}

// pageCount reads the X-Pages header, DefaultMaxPage when missing.
func pageCount(header http.Header) int {
	n, err := strconv.Atoi(strings.TrimSpace(header.Get(PageCountHeader)))
	if err != nil || n < 1 {
		return DefaultMaxPage
	}
	return n
}
