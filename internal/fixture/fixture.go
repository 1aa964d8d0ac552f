// Package fixture holds the built-in XMLTABLE statements exercised by the harness.
package fixture

import (
	"github.com/pkg/errors"
)

// ID identifies a built-in fixture.
type ID int

// Built-in fixture identifiers, in execution order.
const (
	NamespacedColumns ID = iota + 1
	PlainColumns
	MultipleNamespaces
	DefaultNamespace
)

// Default is the fixture run when no selection is given.
const Default = PlainColumns

// ErrNotFound is returned when an identifier is not in the registry.
var ErrNotFound = errors.New("fixture not found")

// Fixture is a labeled SQL statement.
type Fixture struct {
	ID  ID
	SQL string
}

// registry is indexed by ID-1 and must stay in ID order.
var registry = [...]Fixture{
	{ID: NamespacedColumns, SQL: `
    SELECT element_id, is_active, updated_at, description, reference_id 
    FROM XMLTABLE(
        XMLNAMESPACES(
            'http://example.com/xsd/sample/v1' AS "ex"
        ),
        '/root/item/*[local-name()="exampleElement"]'
        PASSING xml_content
        COLUMNS
            element_id   VARCHAR2(128) PATH '@id',
            is_active    BOOLEAN       PATH '@ex:isActive',
            updated_at   TIMESTAMP     PATH '@ex:updatedAt',
            description  VARCHAR2(4000) PATH 'ex:description/text()',
            reference_id UUID          PATH 'ex:reference/@ref'
    ) AS x
    `},
	{ID: PlainColumns, SQL: `
    SELECT id, name 
    FROM XMLTABLE(
        '/root/user'
        PASSING xml_data
        COLUMNS
            id   INT    PATH '@id',
            name TEXT   PATH 'name/text()'
    ) AS t
    `},
	{ID: MultipleNamespaces, SQL: `
    SELECT id, value 
    FROM XMLTABLE(
        XMLNAMESPACES(
            'http://example.com/ns1' AS "ns1",
            'http://example.com/ns2' AS "ns2"
        ),
        '/root/data'
        PASSING xml_content
        COLUMNS
            id    INT  PATH '@ns1:id',
            value TEXT PATH 'ns2:value/text()'
    ) AS t
    `},
	{ID: DefaultNamespace, SQL: `
    SELECT id, value 
    FROM XMLTABLE(
        XMLNAMESPACES(
            DEFAULT 'http://example.com/default',
            'http://example.com/ns1' AS "ns1"
        ),
        '/root/data'
        PASSING xml_content
        COLUMNS
            id    INT  PATH '@id',
            value TEXT PATH 'ns1:value/text()'
    ) AS t
    `},
}

// Valid reports whether id belongs to the registry.
func Valid(id ID) bool {
	return id >= NamespacedColumns && int(id) <= len(registry)
}

// Get returns the fixture for id.
func Get(id ID) (Fixture, error) {
	if !Valid(id) {
		return Fixture{}, errors.Wrapf(ErrNotFound, "id %d", id)
	}
	return registry[id-1], nil
}

// All returns every fixture in registry order.
func All() []Fixture {
	out := make([]Fixture, len(registry))
	copy(out, registry[:])
	return out
}

// IDs returns the registered identifiers in order.
func IDs() []ID {
	ids := make([]ID, 0, len(registry))
	for _, f := range registry {
		ids = append(ids, f.ID)
	}
	return ids
}
