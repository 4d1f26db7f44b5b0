package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	echoapi "github.com/mwalimu/tutorhub/apps/api/echo"
	"github.com/mwalimu/tutorhub/core"
	"github.com/mwalimu/tutorhub/core/blog"
	"github.com/mwalimu/tutorhub/core/contact"
	"github.com/mwalimu/tutorhub/core/dashboard"
	"github.com/mwalimu/tutorhub/core/pricing"
	"github.com/mwalimu/tutorhub/core/submission"
	"github.com/mwalimu/tutorhub/core/subscriber"
	"github.com/mwalimu/tutorhub/core/tutor"
	"github.com/mwalimu/tutorhub/core/user"
	emailsvc "github.com/mwalimu/tutorhub/services/email"
	logsvc "github.com/mwalimu/tutorhub/services/logger"
	mediasvc "github.com/mwalimu/tutorhub/services/media"
	"github.com/mwalimu/tutorhub/storage/database"
	sqlxrepos "github.com/mwalimu/tutorhub/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			dbLogger.Fatal("Failed to close", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(logger, conf)
	}

	mediaSvc, err := mediasvc.NewS3Service(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up media storage: %v", err), err)
	}

	usrSvc := user.NewService(db, sqlxrepos.NewUserRepository(db), mailSvc, conf)
	tutSvc := tutor.NewService(db, sqlxrepos.NewTutorRepository(db), mediaSvc, logger)
	blogSvc := blog.NewService(db, sqlxrepos.NewBlogRepository(db), mediaSvc, logger)
	contSvc := contact.NewService(db, sqlxrepos.NewContactRepository(db), mailSvc, conf)
	subSvc := submission.NewService(db, sqlxrepos.NewSubmissionRepository(db))
	planSvc := pricing.NewService(db, sqlxrepos.NewPricingRepository(db))
	newsSvc := subscriber.NewService(db, sqlxrepos.NewSubscriberRepository(db), mailSvc, conf)
	dashSvc := dashboard.NewService(db, sqlxrepos.NewDashboardRepository(db))

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	user.Init(conf)

	core.ParseEmailTemplates(logger)

	user.LoadCommonPasswords(logger)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err = http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:          conf,
			Logger:        logger,
			UserSvc:       usrSvc,
			TutorSvc:      tutSvc,
			BlogSvc:       blogSvc,
			ContactSvc:    contSvc,
			SubmissionSvc: subSvc,
			PricingSvc:    planSvc,
			SubscriberSvc: newsSvc,
			DashboardSvc:  dashSvc,
			Validate:      validate,
			Translator:    translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return sqlx.NewDb(db, conf.Database.Engine), nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
