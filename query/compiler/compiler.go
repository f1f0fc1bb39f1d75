// Package compiler turns comprehension source text into relational queries
// over the tables of a schema registry.
package compiler

import (
	"fmt"

	"github.com/satishbabariya/frm-go/internal/debug"
	"github.com/satishbabariya/frm-go/query"
	"github.com/satishbabariya/frm-go/query/cache"
	"github.com/satishbabariya/frm-go/schema"
)

// Session creates queries for a projection. *session.Session and
// query.Detached implement it.
type Session interface {
	Query(cols ...query.Column) *query.Query
}

// Compiler compiles comprehensions against a registry.
type Compiler struct {
	registry *schema.Registry
	filename string
	cache    *cache.LRU[*Descriptor]
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithFilename sets the file name reported in error positions.
func WithFilename(name string) Option {
	return func(c *Compiler) {
		c.filename = name
	}
}

// WithCache reuses descriptors extracted from identical source text.
// Cached descriptors are still resolved against the registry on every compile.
func WithCache(c *cache.LRU[*Descriptor]) Option {
	return func(cc *Compiler) {
		cc.cache = c
	}
}

// New creates a compiler resolving collection names in reg.
func New(reg *schema.Registry, opts ...Option) *Compiler {
	c := &Compiler{registry: reg}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile compiles src, which holds one function or a bare generator
// expression, into a query created by sess. A nil sess yields a detached
// query.
func (c *Compiler) Compile(src string, sess Session) (*query.Query, error) {
	return c.CompileFunc(src, "", sess)
}

// CompileFunc compiles the function called name in src.
func (c *Compiler) CompileFunc(src, name string, sess Session) (*query.Query, error) {
	d, err := c.extract(src, name)
	if err != nil {
		return nil, err
	}
	return c.Build(d, sess)
}

func (c *Compiler) extract(src, name string) (*Descriptor, error) {
	if c.cache == nil {
		return ExtractFunc(c.filename, src, name)
	}
	key := cache.Key(c.filename, name, src)
	if d, ok := c.cache.Get(key); ok {
		return d, nil
	}
	d, err := ExtractFunc(c.filename, src, name)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, d)
	return d, nil
}

// Build resolves a descriptor against the registry and emits the query.
// Unregistered collection names fail with a *CompileError wrapping
// *schema.NotFoundError.
func (c *Compiler) Build(d *Descriptor, sess Session) (*query.Query, error) {
	if sess == nil {
		sess = query.Detached{}
	}

	sources := make(map[string]query.Source, len(d.Generators))
	order := make([]query.Source, 0, len(d.Generators))
	for _, g := range d.Generators {
		entry, err := c.registry.Lookup(g.Collection)
		if err != nil {
			return nil, &CompileError{
				Pos: g.CollectionPos,
				Msg: fmt.Sprintf("collection %q is not registered", g.Collection),
				Err: err,
			}
		}
		src := query.As(entry, g.Var)
		sources[g.Var] = src
		order = append(order, src)
	}

	resolve := func(ref AttrRef) (query.Column, error) {
		src := sources[ref.Var]
		col, err := src.Col(ref.Attr)
		if err != nil {
			return query.Column{}, &CompileError{
				Pos: ref.Pos,
				Msg: fmt.Sprintf("%s (%s) has no attribute %q", ref.Var, src.Entry.Table(), ref.Attr),
				Err: err,
			}
		}
		return col, nil
	}

	cols := make([]query.Column, 0, len(d.Projection))
	for _, ref := range d.Projection {
		col, err := resolve(ref)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}

	eqs := make([]query.Equal, 0, len(d.Conditions))
	for _, cond := range d.Conditions {
		left, err := resolve(cond.Left)
		if err != nil {
			return nil, err
		}
		right, err := resolve(cond.Right)
		if err != nil {
			return nil, err
		}
		eqs = append(eqs, left.Eq(right))
	}

	q := sess.Query(cols...).From(order...)
	if len(eqs) > 0 {
		q = q.Filter(eqs...)
	}

	debug.Debug("compiled comprehension", "func", d.Func, "descriptor", d.String(), "query", q.String())
	return q, nil
}
