package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"iwingmobile-store/config"
	"iwingmobile-store/db"
	"iwingmobile-store/logger"
	"iwingmobile-store/repository"
	"iwingmobile-store/service"
)

// fileConfig is the optional cartctl.yaml
//
//	database: /home/me/.config/iwingmobile/carts.db
//	slot: iwingmobile-cart
type fileConfig struct {
	Database string `yaml:"database"`
	Slot     string `yaml:"slot"`
}

// cli carries the state shared by all subcommands
type cli struct {
	configPath string
	dbPath     string
	slot       string
	verbose    bool

	conn *sql.DB
	cart *service.PersistentCart
}

func defaultDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "iwingmobile")
}

// loadFileConfig reads path. A missing file is only an error when the user
// named it explicitly.
func loadFileConfig(path string, explicit bool) (fileConfig, error) {
	var cfg fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// execute runs cartctl with args, writing command output to out
func execute(args []string, out io.Writer) error {
	c := &cli{}
	root := newRootCmd(c)
	root.SetArgs(args)
	root.SetOut(out)
	defer c.close()
	return root.Execute()
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "cartctl",
		Short: "Manage the local iWingMobile cart",
		Long: `cartctl edits a single shopping cart kept in a local SQLite file.

The cart survives between runs the same way the storefront cart survives
page reloads. Flags override values from the config file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.open(cmd)
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", filepath.Join(defaultDir(), "cartctl.yaml"), "config file")
	root.PersistentFlags().StringVar(&c.dbPath, "db", "", "SQLite file holding the cart (default from config, then "+filepath.Join(defaultDir(), "carts.db")+")")
	root.PersistentFlags().StringVar(&c.slot, "slot", "", "slot key the cart is stored under (default "+config.DefaultSlotPrefix+")")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log storage activity")

	root.AddCommand(
		newShowCmd(c),
		newAddCmd(c),
		newRemoveCmd(c),
		newSetCmd(c),
		newClearCmd(c),
		newCheckoutCmd(c),
	)
	return root
}

// open resolves settings, opens the database and hydrates the cart
func (c *cli) open(cmd *cobra.Command) error {
	fileCfg, err := loadFileConfig(c.configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}

	dbPath := firstNonEmpty(c.dbPath, fileCfg.Database, filepath.Join(defaultDir(), "carts.db"))
	slot := firstNonEmpty(c.slot, fileCfg.Slot, config.DefaultSlotPrefix)

	log := zap.NewNop()
	if c.verbose {
		if log, err = logger.New(logger.Options{Service: "cartctl", Env: "dev", Level: "debug"}); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	conn, err := db.OpenSQLite(ctx, dbPath)
	if err != nil {
		return err
	}
	if err := db.EnsureSlotSchema(ctx, conn, db.SQLite); err != nil {
		conn.Close()
		return err
	}
	slots, err := repository.NewSlotRepository(conn, db.SQLite, log)
	if err != nil {
		conn.Close()
		return err
	}

	c.conn = conn
	c.cart = service.NewPersistentCart(ctx, service.NewCartPersistence(slots, slot, log))
	return nil
}

func (c *cli) close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
