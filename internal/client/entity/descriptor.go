// Package entity generalizes the per-entity CRUD flows into one
// parametrized service driven by a descriptor: endpoint paths, list shape,
// update verb, role requirements, and form fields are data, not code.
package entity

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dimasprakoso/siakad-cli/internal/client/models"
	"github.com/dimasprakoso/siakad-cli/internal/client/query"
	"github.com/dimasprakoso/siakad-cli/internal/common"
)

// ListShape tells the resource how the backend returns list responses.
type ListShape int

const (
	// ListPaginated: {data, count, currentPage, totalPages} honoring
	// page/limit/search/sort parameters server-side.
	ListPaginated ListShape = iota
	// ListArray: a bare JSON array; pagination and search happen
	// client-side.
	ListArray
)

// FieldKind drives prompt parsing and validation for form fields.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldMultiline
	FieldInt
)

// Field describes one form field of an entity.
type Field struct {
	Name     string
	Label    string
	Kind     FieldKind
	Required bool
}

// Descriptor is the static configuration of one entity.
type Descriptor struct {
	// Name seeds cache key entities ("<name>:list", "<name>:detail").
	Name string
	// Title is the human-readable singular name for messages.
	Title string
	// BasePath is the collection endpoint, e.g. "/api/postings".
	BasePath string

	ListShape    ListShape
	UpdateMethod string // http.MethodPatch or http.MethodPut

	// MutateRole, when non-empty, restricts create/update/delete to that
	// role. Reads stay open to any authenticated session.
	MutateRole models.Role

	// SupportsUpload enables the multipart photo endpoint
	// POST <BasePath>/:id/<UploadField>.
	SupportsUpload bool
	UploadField    string

	Fields []Field
}

// ItemPath is the detail endpoint for one record.
func (d Descriptor) ItemPath(id int) string {
	return fmt.Sprintf("%s/%d", strings.TrimRight(d.BasePath, "/"), id)
}

// UploadPath is the multipart upload endpoint for one record.
func (d Descriptor) UploadPath(id int) string {
	return fmt.Sprintf("%s/%s", d.ItemPath(id), d.UploadField)
}

// ListEntity and DetailEntity are the cache key namespaces. They are
// distinct so invalidating every list page never touches detail entries
// and vice versa.
func (d Descriptor) ListEntity() string   { return d.Name + ":list" }
func (d Descriptor) DetailEntity() string { return d.Name + ":detail" }

// ListPrefix covers all cached pages/filters of this entity's list.
func (d Descriptor) ListPrefix() query.Key {
	return query.NewKey(d.ListEntity(), nil)
}

// DetailKey identifies the cached detail entry of one record.
func (d Descriptor) DetailKey(id int) query.Key {
	return query.NewKey(d.DetailEntity(), query.Params{"id": fmt.Sprintf("%d", id)})
}

// ValidateInput performs the client-side form validation: required fields
// must be present and non-blank. Failures are common.ErrValidation and
// never reach the network.
func (d Descriptor) ValidateInput(values map[string]string) error {
	var missing []string
	for _, f := range d.Fields {
		if f.Required && strings.TrimSpace(values[f.Name]) == "" {
			missing = append(missing, f.Label)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: wajib diisi: %s", common.ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

// UpdateVerb defaults to PUT when the descriptor does not say otherwise.
func (d Descriptor) UpdateVerb() string {
	if d.UpdateMethod == "" {
		return http.MethodPut
	}
	return d.UpdateMethod
}
