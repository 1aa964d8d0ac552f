package dialect

import (
	"fmt"
	"strings"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	"github.com/pingcap/tidb/pkg/parser/format"
	_ "github.com/pingcap/tidb/pkg/types/parser_driver" // Register TiDB parser driver.
)

// TiDB parses and restores with the TiDB (MySQL-compatible) parser.
type TiDB struct {
	name string
}

// Name implements Dialect.
func (d TiDB) Name() string {
	if d.name == "" {
		return "tidb"
	}
	return d.name
}

// Parse implements Dialect. Each call builds its own parser.
func (d TiDB) Parse(sql string) (Tree, error) {
	stmts, _, err := parser.New().Parse(sql, "", "")
	if err != nil {
		return nil, err
	}
	return tidbTree{stmts: stmts}, nil
}

type tidbTree struct {
	stmts []ast.StmtNode
}

func (t tidbTree) String() string {
	v := &shapeVisitor{}
	for _, stmt := range t.stmts {
		stmt.Accept(v)
	}
	return strings.TrimRight(v.b.String(), "\n")
}

func (t tidbTree) SQL() (string, error) {
	parts := make([]string, 0, len(t.stmts))
	for _, stmt := range t.stmts {
		var b strings.Builder
		ctx := format.NewRestoreCtx(format.DefaultRestoreFlags, &b)
		if err := stmt.Restore(ctx); err != nil {
			return "", err
		}
		parts = append(parts, b.String())
	}
	return strings.Join(parts, "; "), nil
}

// shapeVisitor prints one line per node, indented by depth.
type shapeVisitor struct {
	b     strings.Builder
	depth int
}

func (v *shapeVisitor) Enter(n ast.Node) (ast.Node, bool) {
	v.b.WriteString(strings.Repeat("  ", v.depth))
	v.b.WriteString(strings.TrimPrefix(fmt.Sprintf("%T", n), "*"))
	v.b.WriteByte('\n')
	v.depth++
	return n, false
}

func (v *shapeVisitor) Leave(n ast.Node) (ast.Node, bool) {
	v.depth--
	return n, true
}
