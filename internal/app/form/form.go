// Package form holds the editable staging state of one entity while the
// create/edit modal is open.
package form

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"admin/internal/app/asset"
	"admin/internal/app/ds"
)

var (
	ErrUnknownField    = errors.New("unknown list field")
	ErrIndexOutOfRange = errors.New("list index out of range")
	ErrNoAsset         = errors.New("resource has no asset field")
)

// ListField binds a dynamic list field name to its slice inside the entity.
type ListField[E any] struct {
	Name  string
	Slots func(*E) *[]string
}

// AssetField describes the binary asset a resource uploads with its fields.
type AssetField[E any] struct {
	Name             string // multipart part name
	RequiredOnCreate bool
	StoredPath       func(E) string
}

// Descriptor tells the generic form, modal and mutator how one resource type
// behaves.
type Descriptor[E any] struct {
	Resource string // API path segment, also used as shell route
	Noun     string // for user-facing messages
	Defaults func() E
	Meta     func(*E) *ds.Meta
	Lists    []ListField[E]
	// Hydrate adjusts a copied entity before editing (date truncation, defaults for missing values)
	Hydrate func(*E)
	// Normalize derives computed fields at submit time
	Normalize func(*E)
	// Fields renders the multipart text parts. Nil means the payload goes as JSON.
	Fields func(E) map[string]string
	Asset  *AssetField[E]
}

// ID returns the server identity of an entity of this resource.
func (d *Descriptor[E]) ID(e E) string {
	return d.Meta(&e).ID
}

// Multipart reports whether payloads of this resource are sent as multipart.
func (d *Descriptor[E]) Multipart() bool {
	return d.Fields != nil
}

func (d *Descriptor[E]) list(name string) (ListField[E], bool) {
	for _, l := range d.Lists {
		if l.Name == name {
			return l, true
		}
	}
	return ListField[E]{}, false
}

// Assets carries what the form needs to preview assets.
type Assets struct {
	Encoder *asset.Encoder
	Origin  string // backend origin prepended to stored asset paths
}

// Payload is the normalized projection of a form, ready for transport.
type Payload[E any] struct {
	Values E
	Asset  *asset.File // nil keeps the asset already stored by the API
}

type Form[E any] struct {
	desc    *Descriptor[E]
	assets  Assets
	values  E
	file    *asset.File
	preview string
}

// New returns a form reset to the resource defaults.
func New[E any](d *Descriptor[E], assets Assets) *Form[E] {
	f := &Form[E]{desc: d, assets: assets}
	f.values = f.detached(d.Defaults())
	return f
}

// Hydrate returns a form populated field by field from an existing entity.
// Lists are copied; an empty list becomes a single empty slot.
func Hydrate[E any](d *Descriptor[E], assets Assets, entity E) *Form[E] {
	f := &Form[E]{desc: d, assets: assets}
	f.values = f.detached(entity)
	if d.Hydrate != nil {
		d.Hydrate(&f.values)
	}
	if d.Asset != nil {
		f.preview = asset.StoredPreview(assets.Origin, d.Asset.StoredPath(entity))
	}
	return f
}

// detached copies v without server fields and without sharing list storage,
// guaranteeing one slot per list.
func (f *Form[E]) detached(v E) E {
	*f.desc.Meta(&v) = ds.Meta{}
	for _, l := range f.desc.Lists {
		slots := l.Slots(&v)
		if len(*slots) == 0 {
			*slots = []string{""}
			continue
		}
		*slots = append([]string(nil), *slots...)
	}
	return v
}

func (f *Form[E]) Descriptor() *Descriptor[E] {
	return f.desc
}

// Values returns a copy of the raw editing state, empty slots included.
func (f *Form[E]) Values() E {
	v := f.values
	for _, l := range f.desc.Lists {
		slots := l.Slots(&v)
		*slots = append([]string{}, *slots...)
	}
	return v
}

// View is Values with every emptied list shown as one empty slot.
func (f *Form[E]) View() E {
	v := f.Values()
	for _, l := range f.desc.Lists {
		if slots := l.Slots(&v); len(*slots) == 0 {
			*slots = []string{""}
		}
	}
	return v
}

// Replace overwrites the editable fields, e.g. after the user edited scalars.
func (f *Form[E]) Replace(v E) {
	f.values = f.detached(v)
}

// Update applies an in-place edit to the staged values.
func (f *Form[E]) Update(edit func(*E)) {
	edit(&f.values)
	*f.desc.Meta(&f.values) = ds.Meta{}
}

func (f *Form[E]) slots(field string) (*[]string, error) {
	l, ok := f.desc.list(field)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownField, f.desc.Resource, field)
	}
	return l.Slots(&f.values), nil
}

// List returns a copy of the slots of a list field.
func (f *Form[E]) List(field string) ([]string, error) {
	s, err := f.slots(field)
	if err != nil {
		return nil, err
	}
	return append([]string{}, *s...), nil
}

// UpdateListEntry replaces slot index in place. Index 0 of an emptied list
// addresses the slot the view renders for it.
func (f *Form[E]) UpdateListEntry(field string, index int, value string) error {
	s, err := f.slots(field)
	if err != nil {
		return err
	}
	if index == 0 && len(*s) == 0 {
		*s = append(*s, value)
		return nil
	}
	if index < 0 || index >= len(*s) {
		return fmt.Errorf("%w: %s[%d] of %d", ErrIndexOutOfRange, field, index, len(*s))
	}
	(*s)[index] = value
	return nil
}

// AddListEntry appends an empty slot.
func (f *Form[E]) AddListEntry(field string) error {
	s, err := f.slots(field)
	if err != nil {
		return err
	}
	*s = append(*s, "")
	return nil
}

// RemoveListEntry drops slot index. The list may become empty.
func (f *Form[E]) RemoveListEntry(field string, index int) error {
	s, err := f.slots(field)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(*s) {
		return fmt.Errorf("%w: %s[%d] of %d", ErrIndexOutOfRange, field, index, len(*s))
	}
	*s = append((*s)[:index:index], (*s)[index+1:]...)
	return nil
}

// SelectAsset reads a newly chosen file and replaces the preview with its
// data URL.
func (f *Form[E]) SelectAsset(ctx context.Context, name string, r io.Reader) error {
	if f.desc.Asset == nil {
		return fmt.Errorf("%w: %s", ErrNoAsset, f.desc.Resource)
	}
	file, err := f.assets.Encoder.Read(ctx, name, r)
	if err != nil {
		return err
	}
	f.file = file
	f.preview = file.DataURL()
	return nil
}

// Asset returns the newly selected file, nil when none was chosen.
func (f *Form[E]) Asset() *asset.File {
	return f.file
}

// Preview is the data URL of the selected file, the stored asset URL when
// editing without a new file, or empty.
func (f *Form[E]) Preview() string {
	return f.preview
}

// Normalize builds the submission payload: blank list entries are dropped
// keeping the order of the rest, then derived fields are computed. It does
// not validate.
func (f *Form[E]) Normalize() Payload[E] {
	v := f.values
	for _, l := range f.desc.Lists {
		slots := l.Slots(&v)
		kept := make([]string, 0, len(*slots))
		for _, entry := range *slots {
			if strings.TrimSpace(entry) != "" {
				kept = append(kept, entry)
			}
		}
		*slots = kept
	}
	*f.desc.Meta(&v) = ds.Meta{}
	if f.desc.Normalize != nil {
		f.desc.Normalize(&v)
	}
	return Payload[E]{Values: v, Asset: f.file}
}
