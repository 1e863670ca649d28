package entity

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dimasprakoso/siakad-cli/internal/client/api"
	"github.com/dimasprakoso/siakad-cli/internal/client/listview"
	"github.com/dimasprakoso/siakad-cli/internal/client/models"
	"github.com/dimasprakoso/siakad-cli/internal/client/query"
	"github.com/dimasprakoso/siakad-cli/internal/logging"
)

// ListResult is what a list view renders: the normalized page plus the
// cache's fetching flag (true while a background revalidation runs).
type ListResult[T any] struct {
	Page       models.Page[T]
	IsFetching bool
}

// Resource is the generic CRUD service for one entity. Reads flow through
// the query cache; writes go straight to the backend and rely on the
// caller's mutation effects for cache maintenance.
type Resource[T any] struct {
	desc  Descriptor
	api   *api.Client
	cache *query.Cache
	log   logging.Logger

	// searchText extracts the text an ListArray entity is searched on
	// client-side. Unused for paginated entities.
	searchText func(T) string
}

func NewResource[T any](desc Descriptor, client *api.Client, cache *query.Cache, log logging.Logger, searchText func(T) string) *Resource[T] {
	return &Resource[T]{desc: desc, api: client, cache: cache, log: log, searchText: searchText}
}

func (r *Resource[T]) Descriptor() Descriptor { return r.desc }

// NewListController builds the list state owner for this entity.
func (r *Resource[T]) NewListController(pageSize int) *listview.Controller {
	return listview.NewController(r.desc.ListEntity(), pageSize)
}

// List serves the page described by view through the cache. prev, when
// non-nil, is the previous key of a pagination transition: its data stays
// visible while the new page loads.
func (r *Resource[T]) List(ctx context.Context, view *listview.Controller, prev *query.Key) (ListResult[T], error) {
	key := view.Key()

	var opts []query.QueryOption
	if prev != nil {
		opts = append(opts, query.WithPlaceholder(*prev))
	}

	res := r.cache.Query(ctx, key, r.listFetcher(view), opts...)
	if res.Err != nil && res.Status == query.StatusError {
		return ListResult[T]{}, res.Err
	}

	page, ok := res.Data.(models.Page[T])
	if !ok {
		return ListResult[T]{IsFetching: res.IsFetching}, nil
	}
	return ListResult[T]{Page: page, IsFetching: res.IsFetching}, nil
}

func (r *Resource[T]) listFetcher(view *listview.Controller) query.FetchFunc {
	// Capture the request parameters now: the controller may move on while
	// a background revalidation is still in flight.
	params := url.Values{}
	search := view.SearchTerm()
	if r.desc.ListShape == ListPaginated {
		params.Set("page", fmt.Sprintf("%d", view.Page()))
		params.Set("limit", fmt.Sprintf("%d", view.PageSize()))
		if search != "" {
			params.Set("search", search)
		}
		if view.SortBy() != "" {
			params.Set("sortBy", view.SortBy())
			params.Set("sortOrder", view.SortOrder())
		}
		if name, value := view.Filter(); name != "" && value != "" {
			params.Set(name, value)
		}
	}

	return func(ctx context.Context) (any, error) {
		if r.desc.ListShape == ListPaginated {
			var page models.Page[T]
			if err := r.api.Get(ctx, r.desc.BasePath, params, &page); err != nil {
				return nil, err
			}
			if page.CurrentPage == 0 {
				page.CurrentPage = 1
			}
			if page.TotalPages == 0 && page.TotalCount > 0 {
				page.TotalPages = models.PageCount(page.TotalCount, view.PageSize())
			}
			return page, nil
		}

		var items []T
		if err := r.api.Get(ctx, r.desc.BasePath, nil, &items); err != nil {
			return nil, err
		}
		if search != "" && r.searchText != nil {
			filtered := make([]T, 0, len(items))
			needle := strings.ToLower(search)
			for _, item := range items {
				if strings.Contains(strings.ToLower(r.searchText(item)), needle) {
					filtered = append(filtered, item)
				}
			}
			items = filtered
		}
		return models.SinglePage(items), nil
	}
}

// Get serves the detail entry for id through the cache.
func (r *Resource[T]) Get(ctx context.Context, id int) (T, error) {
	var zero T
	res := r.cache.Query(ctx, r.desc.DetailKey(id), func(ctx context.Context) (any, error) {
		var item T
		if err := r.api.Get(ctx, r.desc.ItemPath(id), nil, &item); err != nil {
			return nil, err
		}
		return item, nil
	})
	if res.Err != nil && res.Status == query.StatusError {
		return zero, res.Err
	}
	item, ok := res.Data.(T)
	if !ok {
		return zero, fmt.Errorf("no cached data for %s %d", r.desc.Title, id)
	}
	return item, nil
}

// Create posts a new record and returns the created resource.
func (r *Resource[T]) Create(ctx context.Context, payload any) (T, error) {
	var created T
	if err := r.api.Post(ctx, r.desc.BasePath, payload, &created, true); err != nil {
		var zero T
		return zero, err
	}
	return created, nil
}

// Update modifies the record using the entity's verb (PATCH for students,
// PUT elsewhere, matching the backend).
func (r *Resource[T]) Update(ctx context.Context, id int, payload any) (T, error) {
	var updated T
	var err error
	switch r.desc.UpdateVerb() {
	case http.MethodPatch:
		err = r.api.Patch(ctx, r.desc.ItemPath(id), payload, &updated)
	default:
		err = r.api.Put(ctx, r.desc.ItemPath(id), payload, &updated)
	}
	if err != nil {
		var zero T
		return zero, err
	}
	return updated, nil
}

// Delete removes the record. Cache effects (invalidate list, remove
// detail) belong to the mutation coordinator driving this call.
func (r *Resource[T]) Delete(ctx context.Context, id int) error {
	return r.api.Delete(ctx, r.desc.ItemPath(id))
}

// UploadPhoto sends the multipart photo for id and returns the updated
// record. Only valid when the descriptor supports uploads.
func (r *Resource[T]) UploadPhoto(ctx context.Context, id int, filename string, file io.Reader) (T, error) {
	var zero T
	if !r.desc.SupportsUpload {
		return zero, fmt.Errorf("%s does not support uploads", r.desc.Title)
	}
	var updated T
	if err := r.api.Upload(ctx, r.desc.UploadPath(id), r.desc.UploadField, filename, file, &updated); err != nil {
		return zero, err
	}
	return updated, nil
}

// InvalidateList marks every cached page of the list stale.
func (r *Resource[T]) InvalidateList() {
	r.cache.Invalidate(r.desc.ListPrefix())
}

// RemoveDetail deletes the cached detail entry for id outright so a stale
// in-flight refetch cannot resurrect it.
func (r *Resource[T]) RemoveDetail(id int) {
	r.cache.Remove(r.desc.DetailKey(id))
}

// InvalidateDetail marks the cached detail entry for id stale.
func (r *Resource[T]) InvalidateDetail(id int) {
	r.cache.Invalidate(r.desc.DetailKey(id))
}
