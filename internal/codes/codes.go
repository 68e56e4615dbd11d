// Package codes holds the code tables that translate the numeric media list
// type and property codes of a Songbird database into their names.
//
// A Cache is created once at startup and passed to every consumer. It is
// populated on first use through a Loader and is read without locking
// afterwards.
package codes

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/mesh-intelligence/songbird/pkg/types"
)

// ErrEmptyTable is returned by EnsureLoaded when a code table has no rows.
// A Songbird library always defines list types and properties.
var ErrEmptyTable = fmt.Errorf("%w: empty code table", types.ErrDataAccess)

// Loader supplies the (code, name) rows of both code domains.
type Loader interface {
	// LoadListTypes calls fn for every row of the media list type table.
	LoadListTypes(ctx context.Context, fn func(code int, name string)) error

	// LoadProperties calls fn for every row of the property table.
	LoadProperties(ctx context.Context, fn func(code int, name string)) error
}

// Table is an immutable bidirectional mapping between codes and names.
type Table struct {
	byCode map[int]string
	byName map[string]int
}

func newTable() *Table {
	return &Table{byCode: make(map[int]string), byName: make(map[string]int)}
}

// add records one row. Codes and names must be unique in both directions.
func (t *Table) add(code int, name string) error {
	if prev, ok := t.byCode[code]; ok {
		return fmt.Errorf("%w: duplicate code %d (%q, %q)", types.ErrDataAccess, code, prev, name)
	}
	if prev, ok := t.byName[name]; ok {
		return fmt.Errorf("%w: duplicate name %q (%d, %d)", types.ErrDataAccess, name, prev, code)
	}
	t.byCode[code] = name
	t.byName[name] = code
	return nil
}

// Name returns the name of code.
func (t *Table) Name(code int) (string, bool) {
	name, ok := t.byCode[code]
	return name, ok
}

// Code returns the code of name, or ErrUnknownCode.
func (t *Table) Code(name string) (int, error) {
	code, ok := t.byName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", types.ErrUnknownCode, name)
	}
	return code, nil
}

// Has reports whether name is in the table.
func (t *Table) Has(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.byCode)
}

// snapshot is the committed state of a Cache.
type snapshot struct {
	listTypes  *Table
	properties *Table
}

// Cache holds the list type and property tables. The zero value is an empty,
// uninitialized cache ready for EnsureLoaded.
type Cache struct {
	mu     sync.Mutex
	loaded atomic.Pointer[snapshot]
}

// NewCache creates an uninitialized cache.
func NewCache() *Cache {
	return &Cache{}
}

// EnsureLoaded populates both tables from loader unless the cache is already
// initialized. Only one caller performs the load; concurrent callers wait for
// it. Loading is all-or-nothing: on error, including an empty table, the
// cache stays uninitialized and the error, wrapped in ErrDataAccess, is
// returned.
func (c *Cache) EnsureLoaded(ctx context.Context, loader Loader) error {
	if c.loaded.Load() != nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded.Load() != nil {
		return nil
	}

	listTypes := newTable()
	properties := newTable()
	var addErr error
	collect := func(t *Table) func(int, string) {
		return func(code int, name string) {
			if addErr == nil {
				addErr = t.add(code, name)
			}
		}
	}

	if err := loader.LoadListTypes(ctx, collect(listTypes)); err != nil {
		return wrapDataAccess("load list types", err)
	}
	if addErr != nil {
		return fmt.Errorf("load list types: %w", addErr)
	}
	if err := loader.LoadProperties(ctx, collect(properties)); err != nil {
		return wrapDataAccess("load properties", err)
	}
	if addErr != nil {
		return fmt.Errorf("load properties: %w", addErr)
	}
	if listTypes.Len() == 0 {
		return fmt.Errorf("load list types: %w", ErrEmptyTable)
	}
	if properties.Len() == 0 {
		return fmt.Errorf("load properties: %w", ErrEmptyTable)
	}

	c.loaded.Store(&snapshot{listTypes: listTypes, properties: properties})
	return nil
}

// wrapDataAccess wraps err in ErrDataAccess unless it already is one.
func wrapDataAccess(op string, err error) error {
	if errors.Is(err, types.ErrDataAccess) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, types.ErrDataAccess, err)
}

// IsInitialized reports whether the tables have been loaded.
func (c *Cache) IsInitialized() bool {
	return c.loaded.Load() != nil
}

// ListTypes returns the media list type table, or nil before loading.
func (c *Cache) ListTypes() *Table {
	if s := c.loaded.Load(); s != nil {
		return s.listTypes
	}
	return nil
}

// Properties returns the property table, or nil before loading.
func (c *Cache) Properties() *Table {
	if s := c.loaded.Load(); s != nil {
		return s.properties
	}
	return nil
}

// ListTypeName returns the name of a list type code.
func (c *Cache) ListTypeName(code int) (string, bool) {
	t := c.ListTypes()
	if t == nil {
		return "", false
	}
	return t.Name(code)
}

// ListTypeCode returns the code of a list type name.
func (c *Cache) ListTypeCode(name string) (int, error) {
	t := c.ListTypes()
	if t == nil {
		return 0, types.ErrCodesNotLoaded
	}
	return t.Code(name)
}

// PropertyCode returns the code of a property name.
func (c *Cache) PropertyCode(name string) (int, error) {
	t := c.Properties()
	if t == nil {
		return 0, types.ErrCodesNotLoaded
	}
	return t.Code(name)
}

// PropertyName returns the name of a property code.
func (c *Cache) PropertyName(code int) (string, bool) {
	t := c.Properties()
	if t == nil {
		return "", false
	}
	return t.Name(code)
}

var _ types.CodeLookup = (*Cache)(nil)
