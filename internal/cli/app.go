package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/dmitrijs2005/authvault/internal/auth"
	"github.com/dmitrijs2005/authvault/internal/config"
	"github.com/dmitrijs2005/authvault/internal/guard"
	"github.com/dmitrijs2005/authvault/internal/logging"
	"github.com/dmitrijs2005/authvault/internal/session"
	"github.com/dmitrijs2005/authvault/internal/store"

	_ "modernc.org/sqlite"
)

type App struct {
	config  *config.Config
	svc     *auth.Service
	session *session.Manager
	db      *sql.DB
	log     logging.Logger
	reader  *bufio.Reader
}

func NewApp(cfg *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	st, db, err := store.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	sess := session.NewManager(st, log)
	svc := auth.NewService(st, sess, log, []byte(cfg.TokenSecret), cfg.BcryptCost)

	return &App{
		config:  cfg,
		svc:     svc,
		session: sess,
		db:      db,
		log:     log,
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

// Close releases the underlying database handle.
func (a *App) Close() error {
	return a.db.Close()
}

// Run restores the stored session and starts the REPL. The first prompt is
// the initial-load gate: nothing renders until the session settles.
func (a *App) Run(ctx context.Context) {
	a.session.Load(ctx)

	fmt.Println("AuthVault (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

// screen routes the current session snapshot.
func (a *App) screen() guard.Screen {
	return guard.Route(a.session.Snapshot())
}

func (a *App) getStatus() string {
	snap := a.session.Snapshot()
	if snap.User != nil {
		return fmt.Sprintf("(%s)", snap.User.Email)
	}
	return ""
}
