// Copyright 2026 the kslice project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package centity defines the entity value objects extracted from C source
// text and the derived identifier/tag sets used by the cross-reference
// graph builder.
package centity

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Kind is the syntactic category of an extracted C construct.
type Kind int

const (
	Macro Kind = iota
	Typedef
	Enum
	Struct
	Global
	Declaration
	Function
)

func (k Kind) String() string {
	switch k {
	case Macro:
		return "macro"
	case Typedef:
		return "typedef"
	case Enum:
		return "enum"
	case Struct:
		return "struct"
	case Global:
		return "global"
	case Declaration:
		return "decl"
	case Function:
		return "function"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Priority is the emission tiebreak order from the distilled spec §4.5:
// Macro:1, Enum:2, Typedef:3, Struct:4, Global:5, Declaration:6, Function:7.
func (k Kind) Priority() int {
	switch k {
	case Macro:
		return 1
	case Enum:
		return 2
	case Typedef:
		return 3
	case Struct:
		return 4
	case Global:
		return 5
	case Declaration:
		return 6
	case Function:
		return 7
	default:
		return 99
	}
}

// Area identifies which source tree a parsed entity came from.
type Area int

const (
	Kernel Area = iota
	Module
)

func (a Area) String() string {
	if a == Kernel {
		return "kernel"
	}
	return "module"
}

// ID is a process-unique opaque handle for a vertex/entity. We use a uuid
// rather than a bare counter because entities from independently-parsed
// areas (see pkg/kslice's errgroup-parallel stage B) must never collide
// without any cross-area coordination.
type ID uuid.UUID

func (id ID) String() string {
	return uuid.UUID(id).String()
}

// NewID allocates a fresh opaque handle.
func NewID() ID {
	return ID(uuid.New())
}

// StructInfo carries optional byte-size/alignment passthrough from the
// preprocessor collaborator (supplemental feature, SPEC_FULL.md §9.2).
// Zero value means "unknown"; it is not consulted by slicing or emission.
type StructInfo struct {
	ByteSize int
	Align    int
}

// Entity is a single extracted top-level C construct.
type Entity struct {
	ID   ID
	Kind Kind
	Name string
	Code string
	Area Area

	// Ids is the set of identifiers this entity defines. Usually {Name};
	// for Enum it is {Name} union the constant names.
	Ids map[string]bool

	// Tags is the tokenised text searched by other entities' edge
	// discovery. NewEntity sets it to Code for every kind; for Function
	// that is the whole definition (return type, name, parameter list and
	// body).
	Tags string

	// Struct is only meaningful when Kind == Struct; optional passthrough.
	Struct StructInfo

	// ForwardDecl, when non-empty, is a prototype text that the slicer
	// attached to break a function-pair cycle (§4.4). It must be emitted
	// immediately before Code.
	ForwardDecl string
}

var identRe = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

// TagTokens returns the set of identifier-shaped tokens appearing in Tags,
// used by pkg/xrefgraph to test "s.Ids appears as a whole-word token of
// t.Tags" in O(1) per candidate identifier instead of one regexp pass per
// identifier.
func (e *Entity) TagTokens() map[string]bool {
	toks := make(map[string]bool)
	for _, m := range identRe.FindAllString(e.Tags, -1) {
		toks[m] = true
	}
	return toks
}

// NewEntity builds an Entity, deriving Ids as {name} unless the caller
// overrides it (enums do, via WithExtraIds).
func NewEntity(kind Kind, name, code string, area Area) *Entity {
	return &Entity{
		ID:   NewID(),
		Kind: kind,
		Name: name,
		Code: code,
		Area: area,
		Ids:  map[string]bool{name: true},
		Tags: code,
	}
}

// WithExtraIds adds additional defined identifiers (enum constants).
func (e *Entity) WithExtraIds(names ...string) *Entity {
	for _, n := range names {
		e.Ids[n] = true
	}
	return e
}

// SortedIds returns Ids in deterministic order, for stable diagnostics.
func (e *Entity) SortedIds() []string {
	out := make([]string, 0, len(e.Ids))
	for id := range e.Ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Set is an ordered collection of entities for one (area, kind) bucket.
// Order is source order, per the distilled spec's parsing-order guarantee.
type Set struct {
	Area     Area
	Kind     Kind
	Entities []*Entity
}

// Key identifies an (area, kind) bucket, the vertex space of the meta-graph.
type Key struct {
	Area Area
	Kind Kind
}

func (k Key) String() string {
	return k.Area.String() + "." + k.Kind.String()
}

// Table indexes all entities by (area, kind) and by name, enforcing the
// "keep first occurrence, warn on repeat" duplicate policy (distilled spec
// §4.2). It is the output of stage B (pkg/cparse) and the input to stage E
// (pkg/xrefgraph).
type Table struct {
	byKey  map[Key][]*Entity
	byName map[Key]map[string]*Entity
	byID   map[ID]*Entity

	Warnings []string
}

// NewTable creates an empty entity table.
func NewTable() *Table {
	return &Table{
		byKey:  make(map[Key][]*Entity),
		byName: make(map[Key]map[string]*Entity),
		byID:   make(map[ID]*Entity),
	}
}

// Add inserts an entity, applying the duplicate-name policy per (area,
// kind, name). It returns false (and records a warning, possibly with a
// diff of the two bodies supplied by the caller) when a duplicate was
// dropped.
func (t *Table) Add(e *Entity) bool {
	key := Key{Area: e.Area, Kind: e.Kind}
	if t.byName[key] == nil {
		t.byName[key] = make(map[string]*Entity)
	}
	if existing, ok := t.byName[key][e.Name]; ok {
		t.Warnings = append(t.Warnings, fmt.Sprintf(
			"duplicate %v %v %v: keeping first occurrence (id %v), dropping id %v%v",
			e.Area, e.Kind, e.Name, existing.ID, e.ID, bodyDiffSuffix(existing.Code, e.Code)))
		return false
	}
	t.byName[key][e.Name] = e
	t.byKey[key] = append(t.byKey[key], e)
	t.byID[e.ID] = e
	return true
}

// Entities returns all entities for one (area, kind) bucket, in source
// order.
func (t *Table) Entities(area Area, kind Kind) []*Entity {
	return t.byKey[Key{Area: area, Kind: kind}]
}

// All returns every entity in the table, sorted by (area, kind, name) for
// deterministic iteration.
func (t *Table) All() []*Entity {
	var out []*Entity
	for _, es := range t.byKey {
		out = append(out, es...)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Area != b.Area {
			return a.Area < b.Area
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Name < b.Name
	})
	return out
}

// ByID looks up an entity by its opaque handle.
func (t *Table) ByID(id ID) *Entity {
	return t.byID[id]
}

// ByName looks up an entity by (area, kind, name).
func (t *Table) ByName(area Area, kind Kind, name string) (*Entity, bool) {
	m := t.byName[Key{Area: area, Kind: kind}]
	if m == nil {
		return nil, false
	}
	e, ok := m[name]
	return e, ok
}

// Merge folds another table's entities into t, applying the same
// duplicate policy. Used to combine the independently-parsed kernel and
// module tables (see pkg/kslice's errgroup-parallel stage B).
func (t *Table) Merge(other *Table) {
	for _, e := range other.All() {
		t.Add(e)
	}
	t.Warnings = append(t.Warnings, other.Warnings...)
}

// bodyDiffSuffix appends a compact diff of the two bodies when they
// differ, so a duplicate-definition warning (e.g. two #ifdef variants of
// the same helper) shows what actually changed rather than just the name.
// Identical bodies produce no suffix at all.
func bodyDiffSuffix(a, b string) string {
	if a == b {
		return ""
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	return fmt.Sprintf(" (bodies differ: %v)", dmp.DiffPrettyText(diffs))
}

// FixIdentifier returns name unchanged unless it is empty (after trimming
// spaces), in which case it returns a synthetic "_anon_<pos>" name for an
// anonymous construct (anonymous enums). pos is
// the byte offset of the construct within its source area, used to give
// each anonymous occurrence in that area a distinct synthetic name — two
// unrelated anonymous enums in the same area must not collide on a single
// fixed "_anon" and silently drop one under Table.Add's duplicate policy.
func FixIdentifier(name string, pos int) string {
	switch strings.TrimSpace(name) {
	case "":
		return fmt.Sprintf("_anon_%d", pos)
	default:
		return name
	}
}
