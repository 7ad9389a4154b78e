package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// dryRun returns a store that builds statements without a database, and a
// function returning the last statement.
func dryRun(t *testing.T) (*Store, func() string) {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost user=test dbname=test sslmode=disable"}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm.Open() unexpected error: %v", err)
	}
	var last string
	err = db.Callback().Query().After("gorm:query").Register("test:capture", func(tx *gorm.DB) {
		last = tx.Statement.SQL.String()
	})
	if err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}
	return New(db), func() string { return last }
}

func TestStore_Queries(t *testing.T) {
	ctx := context.Background()
	s, last := dryRun(t)

	testCases := []struct {
		name string
		run  func() error
		want []string
	}{
		{
			name: "list",
			run:  func() error { _, err := s.ListCPIs(ctx); return err },
			want: []string{"cpis.name AS cpi_name", "JOIN enriched.dim_countries AS countries", "ORDER BY cpis.id"},
		},
		{
			name: "all values",
			run:  func() error { _, err := s.ListCPIValues(ctx, 3); return err },
			want: []string{"fact_cpi_values", "cpi_id = $1", "ORDER BY year"},
		},
		{
			name: "some values",
			run:  func() error { _, err := s.ListCPIValues(ctx, 3, 2020, 2021); return err },
			want: []string{"cpi_id = $1", "year IN ($2,$3)"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.run(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := last()
			for _, w := range tc.want {
				if !strings.Contains(got, w) {
					t.Errorf("statement %q does not contain %q", got, w)
				}
			}
		})
	}
}

func TestStore_GetCPI_NotFound(t *testing.T) {
	s, last := dryRun(t)
	_, err := s.GetCPI(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetCPI() error = %v, want ErrNotFound", err)
	}
	if got := last(); !strings.Contains(got, "cpis.id = $1") {
		t.Errorf("statement %q does not filter on the index id", got)
	}
}
