package dialect

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"
	"google.golang.org/protobuf/encoding/protojson"
)

// Postgres parses and deparses with libpg_query.
type Postgres struct{}

// Name implements Dialect.
func (Postgres) Name() string { return "postgres" }

// Parse implements Dialect.
func (Postgres) Parse(sql string) (Tree, error) {
	result, err := pg_query.Parse(sql)
	if err != nil {
		return nil, err
	}
	return pgTree{result: result}, nil
}

type pgTree struct {
	result *pg_query.ParseResult
}

func (t pgTree) String() string {
	data, err := protojson.Marshal(t.result)
	if err != nil {
		return t.result.String()
	}
	return string(data)
}

func (t pgTree) SQL() (string, error) {
	return pg_query.Deparse(t.result)
}
