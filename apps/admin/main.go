package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/classplan/core"
	"github.com/trezcool/classplan/core/sequence"
	"github.com/trezcool/classplan/core/session"
	logsvc "github.com/trezcool/classplan/services/logger"
	"github.com/trezcool/classplan/storage/database"
	sqlxrepos "github.com/trezcool/classplan/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()
	if conf.Database.Engine == core.EngineMemory {
		logger.Fatalf("the %q database engine cannot be administered", core.EngineMemory)
	}

	// set up DB
	errAndDie(database.CreateIfNotExist(conf))
	db, err := database.Open(conf)
	errAndDie(err)
	errAndDie(database.Ping(db))

	// set up services
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	sequence.InitValidators(validate, translator)

	sessRepo := sqlxrepos.NewSessionRepository(db)
	cli := commandLine{
		db:      db,
		out:     os.Stdout,
		sessSvc: session.NewService(sessRepo),
		seqSvc: sequence.NewService(
			db,
			sqlxrepos.NewSequenceRepository(db),
			sqlxrepos.NewAssignmentRepository(db),
			sessRepo,
			logsvc.NewConsoleLogger(logger, logsvc.LevelInfo),
		),
		validate:   validate,
		translator: translator,
	}

	// start CLI
	err = cli.run(os.Args)
	_ = db.Close()
	if err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
