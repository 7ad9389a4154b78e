package etl

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"text/template"

	"go.uber.org/zap"
)

//go:embed queries/*.sql
var queries embed.FS

// Queries returns the names of the enrichment queries, sorted.
func Queries() []string {
	names, _ := fs.Glob(queries, "queries/*.sql")
	for i, name := range names {
		names[i] = path.Base(name)
	}
	sort.Strings(names)
	return names
}

// Query returns the SQL of the named query, with the raw schema set.
func Query(name, rawSchema string) (string, error) {
	content, err := queries.ReadFile("queries/" + name)
	if err != nil {
		return "", fmt.Errorf("unknown query %q, available: %s", name, strings.Join(Queries(), ", "))
	}
	tpl, err := template.New(name).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return "", fmt.Errorf("invalid query %q: %w", name, err)
	}
	var b strings.Builder
	if err := tpl.Execute(&b, struct{ Raw string }{rawSchema}); err != nil {
		return "", fmt.Errorf("invalid query %q: %w", name, err)
	}
	return b.String(), nil
}

// Enricher builds the enriched schema from the raw tables.
type Enricher struct {
	DB        DB
	RawSchema string
	Logger    *zap.Logger
}

// Enrich runs the named queries in order, all of them when names is empty,
// in a single transaction.
func (e *Enricher) Enrich(ctx context.Context, names ...string) error {
	log := e.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if len(names) == 0 {
		names = Queries()
	}
	// resolve everything before touching the database
	sqls := make([]string, len(names))
	for i, name := range names {
		sql, err := Query(strings.TrimSpace(name), e.RawSchema)
		if err != nil {
			return err
		}
		sqls[i] = sql
	}

	tx, err := e.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	for i, sql := range sqls {
		// without arguments pgx uses the simple protocol, that accepts several
		// statements at once.
		if _, err := tx.Exec(ctx, sql); err != nil {
			return fmt.Errorf("query %s failed: %w", names[i], err)
		}
		log.Info("query executed", zap.String("query", names[i]))
	}
	return tx.Commit(ctx)
}
