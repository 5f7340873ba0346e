package dig_container

import (
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/classplan/apps/api/echo"
	"github.com/trezcool/classplan/core"
	"github.com/trezcool/classplan/core/sequence"
	"github.com/trezcool/classplan/core/session"
	logsvc "github.com/trezcool/classplan/services/logger"
	"github.com/trezcool/classplan/storage/database"
	inmemdb "github.com/trezcool/classplan/storage/database/inmem"
	sqlxrepos "github.com/trezcool/classplan/storage/database/sqlx"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

type ServerParams struct {
	dig.In
	Conf        *core.Config
	Logger      core.Logger
	SequenceSvc *sequence.Service
	SessionSvc  *session.Service
	Validate    *validator.Validate
	Translator  ut.Translator
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

// Stores are either SQL-backed (db != nil) or in-memory.
type Stores struct {
	dig.Out
	DB        *sqlx.DB
	Sequences sequence.Repository
	Links     sequence.AssignmentRepository
	Sessions  session.Repository
}

func newStores(conf *core.Config, loggerParam DBLoggerParam) Stores {
	if conf.Database.Engine == core.EngineMemory {
		memDB := inmemdb.Open()
		loggerParam.Logger.Warn("using the in-memory database: data is lost on shutdown")
		return Stores{
			Sequences: inmemdb.NewSequenceRepository(memDB),
			Links:     inmemdb.NewAssignmentRepository(memDB),
			Sessions:  inmemdb.NewSessionRepository(memDB),
		}
	}

	setUp := func() (*sqlx.DB, error) {
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, err
		}

		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}
		if err = database.Ping(db); err != nil {
			return nil, err
		}

		if err = database.Migrate(db); err != nil {
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return Stores{
		DB:        db,
		Sequences: sqlxrepos.NewSequenceRepository(db),
		Links:     sqlxrepos.NewAssignmentRepository(db),
		Sessions:  sqlxrepos.NewSessionRepository(db),
	}
}

func newSequenceService(
	db *sqlx.DB,
	repo sequence.Repository,
	linkRepo sequence.AssignmentRepository,
	sessRepo session.Repository,
	logger core.Logger,
) *sequence.Service {
	if db == nil {
		return sequence.NewService(nil, repo, linkRepo, sessRepo, logger)
	}
	return sequence.NewService(db, repo, linkRepo, sessRepo, logger)
}

func newServer(p ServerParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:        p.Conf,
		Logger:      p.Logger,
		SequenceSvc: p.SequenceSvc,
		SessionSvc:  p.SessionSvc,
		Validate:    p.Validate,
		Translator:  p.Translator,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newStores))
	must(c.Provide(validator.New))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(session.NewService))
	must(c.Provide(newSequenceService))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
