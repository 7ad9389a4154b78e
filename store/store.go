// Package store reads the consumer price indices of the enriched schema.
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/etnz/inflation/config"
)

// ErrNotFound is returned when an index does not exist.
var ErrNotFound = errors.New("not found")

// Repository is the read access to the indices used by the API.
type Repository interface {
	ListCPIs(ctx context.Context) ([]CPISummary, error)
	GetCPI(ctx context.Context, id int64) (*CPIDetail, error)
	// ListCPIValues returns the values of the index, restricted to 'years' when
	// any is given, by increasing year.
	ListCPIValues(ctx context.Context, id int64, years ...int) ([]CPIValue, error)
	Ping(ctx context.Context) error
}

// Store implements Repository with gorm.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Open connects to postgres as the read only user.
func Open(cfg config.DBConfig) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	gdb, err := gorm.Open(postgres.Open(cfg.ReadOnlyDSN()), gcfg)
	if err != nil {
		return nil, fmt.Errorf("cannot open database %s: %w", cfg.Name, err)
	}

	sqldb, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return gdb, nil
}

// Close releases the connections of db.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqldb, err := db.DB()
	if err != nil {
		return err
	}
	return sqldb.Close()
}

func (s *Store) ListCPIs(ctx context.Context) ([]CPISummary, error) {
	var items []CPISummary
	err := s.db.WithContext(ctx).
		Table("enriched.dim_cpis AS cpis").
		Select("cpis.id AS cpi_id, cpis.name AS cpi_name, countries.name AS country_name").
		Joins("JOIN enriched.dim_countries AS countries ON countries.id = cpis.country_id").
		Order("cpis.id").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("cannot list indices: %w", err)
	}
	return items, nil
}

func (s *Store) GetCPI(ctx context.Context, id int64) (*CPIDetail, error) {
	var items []CPIDetail
	err := s.db.WithContext(ctx).
		Table("enriched.dim_cpis AS cpis").
		Select(`cpis.id AS cpi_id, cpis.name AS cpi_name, countries.name AS country_name,
			cpis.institution_name, countries.currency_symbol,
			cpis.documentation_link, cpis.legal_mentions`).
		Joins("JOIN enriched.dim_countries AS countries ON countries.id = cpis.country_id").
		Where("cpis.id = ?", id).
		Limit(1).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("cannot get index %d: %w", id, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("index %d: %w", id, ErrNotFound)
	}
	return &items[0], nil
}

func (s *Store) ListCPIValues(ctx context.Context, id int64, years ...int) ([]CPIValue, error) {
	query := s.db.WithContext(ctx).Model(&CPIValue{}).Where("cpi_id = ?", id)
	if len(years) > 0 {
		query = query.Where("year IN ?", years)
	}
	var items []CPIValue
	if err := query.Order("year").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("cannot list values of index %d: %w", id, err)
	}
	return items, nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqldb, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqldb.PingContext(ctx)
}
