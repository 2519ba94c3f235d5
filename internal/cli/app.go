// Package cli implements the interactive card keeper shell: wiring of the
// encrypted preference store, record repositories and image machinery, plus
// a small REPL over them.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/dmitrijs2005/cardkeep/internal/cards"
	"github.com/dmitrijs2005/cardkeep/internal/config"
	"github.com/dmitrijs2005/cardkeep/internal/filex"
	"github.com/dmitrijs2005/cardkeep/internal/images"
	"github.com/dmitrijs2005/cardkeep/internal/janitor"
	"github.com/dmitrijs2005/cardkeep/internal/keystore"
	"github.com/dmitrijs2005/cardkeep/internal/logging"
	"github.com/dmitrijs2005/cardkeep/internal/passwords"
	"github.com/dmitrijs2005/cardkeep/internal/prefs"
)

type App struct {
	config *config.Config
	log    logging.Logger
	reader *bufio.Reader

	db        *sql.DB
	cardStore prefs.Store
	cards     cards.Repository
	passwords passwords.Repository

	crypter *images.Crypter
	loader  *images.Loader
	sweeper *janitor.Janitor
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {

	if err := filex.EnsureDir(c.DataDir); err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}
	if err := filex.EnsureDir(c.ScratchDir); err != nil {
		return nil, fmt.Errorf("scratch dir: %w", err)
	}
	imageDir, err := filex.EnsureSubDir(c.DataDir, "images")
	if err != nil {
		return nil, fmt.Errorf("image dir: %w", err)
	}

	keys := keystore.New(c.KeyringService, c.DataDir, log)
	masterKey, err := keys.Key(ctx)
	if err != nil {
		return nil, fmt.Errorf("master key: %w", err)
	}

	db, err := prefs.Connect(ctx, c.DBPath())
	if err != nil {
		return nil, err
	}

	manager := prefs.NewManager(db, masterKey, log)
	cardStore, err := manager.Open(ctx, cards.Namespace)
	if err != nil {
		db.Close()
		return nil, err
	}
	passwordStore, err := manager.Open(ctx, passwords.Namespace)
	if err != nil {
		db.Close()
		return nil, err
	}

	crypter := images.NewCrypter(masterKey)

	app := &App{
		config:    c,
		log:       log,
		reader:    bufio.NewReader(os.Stdin),
		db:        db,
		cardStore: cardStore,
		cards:     cards.NewPrefsRepository(cardStore, log),
		passwords: passwords.NewPrefsRepository(passwordStore, log),
		crypter:   crypter,
		loader:    images.NewLoader(crypter, imageDir, c.MaxImageBytes, log),
		sweeper:   janitor.New(c.ScratchDir, c.SweepInterval, log),
	}

	if err := app.seedExampleCard(ctx); err != nil {
		app.log.Warn(ctx, "could not seed example card", "error", err)
	}

	return app, nil
}

func (a *App) Run(ctx context.Context) {
	// clear anything a previous run left staged
	janitor.Clear(a.config.ScratchDir)
	a.sweeper.Start(ctx)

	defer func() {
		a.sweeper.Stop()
		janitor.Clear(a.config.ScratchDir)
		a.db.Close()
	}()

	// the scanner shares the app reader so prompts and commands stay in sync
	runREPL(ctx, a, bufio.NewScanner(a.reader))
}
