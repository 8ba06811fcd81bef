package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/gymadmin/internal/client/client"
	"github.com/dmitrijs2005/gymadmin/internal/client/models"
)

// ErrUnsupported is returned for mutations the API does not expose for an
// entity. No request is made.
var ErrUnsupported = errors.New("operation not supported for this resource")

// Resource is a REST collection of records of type T mounted at path.
//
// List accepts two response shapes: a paginated envelope
// {"<itemsKey>": [...], "total": n, "page": p, "pages": k} and a bare JSON
// array, which is filtered and paginated locally.
type Resource[T models.Record] struct {
	client   client.Client
	path     string
	itemsKey string
	mutable  bool
}

// NewResource builds a resource. itemsKey names the envelope field holding
// the page items; "items" is always accepted as well. Update and Remove are
// only available when mutable is true.
func NewResource[T models.Record](c client.Client, path, itemsKey string, mutable bool) *Resource[T] {
	return &Resource[T]{client: c, path: path, itemsKey: itemsKey, mutable: mutable}
}

func NewUsers(c client.Client) *Resource[models.User] {
	return NewResource[models.User](c, "/users", "users", true)
}

func NewClasses(c client.Client) *Resource[models.Class] {
	return NewResource[models.Class](c, "/classes", "classes", false)
}

func NewPayments(c client.Client) *Resource[models.Payment] {
	return NewResource[models.Payment](c, "/payments", "payments", false)
}

func (r *Resource[T]) Path() string { return r.path }

// List fetches the page described by q.
func (r *Resource[T]) List(ctx context.Context, q models.QueryState) (models.ListResult[T], error) {
	var raw json.RawMessage
	if err := r.client.Get(ctx, r.path, q.Values(), &raw); err != nil {
		return models.ListResult[T]{}, err
	}

	res, err := r.decodeList(raw, q)
	if err != nil {
		return models.ListResult[T]{}, fmt.Errorf("%w: %v", client.ErrUnexpectedResponse, err)
	}
	return res.Normalize(q.PageSize), nil
}

func (r *Resource[T]) decodeList(raw json.RawMessage, q models.QueryState) (models.ListResult[T], error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return models.ListResult[T]{Page: q.Page}, nil
	}

	if raw[0] == '[' {
		var all []T
		if err := json.Unmarshal(raw, &all); err != nil {
			return models.ListResult[T]{}, err
		}
		return models.FilterPage(all, q), nil
	}

	var env map[string]json.RawMessage
	if err := json.Unmarshal(raw, &env); err != nil {
		return models.ListResult[T]{}, err
	}

	res := models.ListResult[T]{Page: q.Page}
	items, ok := env[r.itemsKey]
	if !ok {
		items = env["items"]
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &res.Items); err != nil {
			return models.ListResult[T]{}, fmt.Errorf("decode %s: %w", r.itemsKey, err)
		}
	}
	for key, dst := range map[string]*int{"total": &res.Total, "page": &res.Page, "pages": &res.Pages} {
		if v, ok := env[key]; ok {
			if err := json.Unmarshal(v, dst); err != nil {
				return models.ListResult[T]{}, fmt.Errorf("decode %s: %w", key, err)
			}
		}
	}
	return res, nil
}

// Create posts rec. The response body is not needed: the caller refetches.
func (r *Resource[T]) Create(ctx context.Context, rec T) error {
	return r.client.Post(ctx, r.path, rec, nil)
}

func (r *Resource[T]) Update(ctx context.Context, key string, rec T) error {
	if !r.mutable {
		return ErrUnsupported
	}
	return r.client.Put(ctx, r.itemPath(key), rec, nil)
}

func (r *Resource[T]) Remove(ctx context.Context, key string) error {
	if !r.mutable {
		return ErrUnsupported
	}
	return r.client.Delete(ctx, r.itemPath(key))
}

func (r *Resource[T]) itemPath(key string) string {
	return r.path + "/" + url.PathEscape(key)
}
