// Package cmd implements the infl CLI: the projection calculator, the CPI
// queries, the HTTP server and the ETL jobs.
package cmd

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/etnz/inflation/config"
	"github.com/etnz/inflation/logger"
	"github.com/etnz/inflation/store"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configDir = flag.String("config-dir", ".", "Folder holding the .env and config.yaml files")

// Command is a subcommand and the group it is listed in.
type Command struct {
	subcommands.Command
	Group string
}

// Commands returns every subcommand of infl.
func Commands() []Command {
	return []Command{
		{&projectCmd{}, "projection"},
		{&cpisCmd{}, "indices"},
		{&cpiCmd{}, "indices"},
		{&correctCmd{}, "indices"},
		{&serveCmd{}, "server"},
		{&etlCmd{}, "etl"},
		{&enrichCmd{}, "etl"},
		{&scheduleCmd{}, "etl"},
		{&topicCmd{}, "help"},
	}
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, cmd := range Commands() {
		c.Register(cmd.Command, cmd.Group)
	}
}

// setup loads the configuration and builds the logger.
func setup() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(*configDir)
	if err != nil {
		return cfg, nil, err
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, log, nil
}

// openStore opens the read only repository.
func openStore(cfg config.DBConfig) (*store.Store, *gorm.DB, error) {
	db, err := store.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	return store.New(db), db, nil
}

// parseID parses a positive index id.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid index id %q", s)
	}
	return id, nil
}

// isTerminal reports whether f is a character device.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// printMarkdown renders md for the terminal, or prints it as is when the
// output is redirected.
func printMarkdown(md string) {
	if !isTerminal(os.Stdout) {
		fmt.Print(md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(0))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
