package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/mwalimu/tutorhub/core"
	"github.com/mwalimu/tutorhub/core/blog"
	"github.com/mwalimu/tutorhub/core/contact"
	"github.com/mwalimu/tutorhub/core/dashboard"
	"github.com/mwalimu/tutorhub/core/pricing"
	"github.com/mwalimu/tutorhub/core/submission"
	"github.com/mwalimu/tutorhub/core/subscriber"
	"github.com/mwalimu/tutorhub/core/tutor"
	"github.com/mwalimu/tutorhub/core/user"
)

type (
	ServerDeps struct {
		Conf          *core.Config
		Logger        core.Logger
		UserSvc       user.Service
		TutorSvc      tutor.Service
		BlogSvc       blog.Service
		ContactSvc    contact.Service
		SubmissionSvc submission.Service
		PricingSvc    pricing.Service
		SubscriberSvc subscriber.Service
		DashboardSvc  dashboard.Service
		Validate      *validator.Validate
		Translator    ut.Translator
	}

	Server interface {
		http.Handler
		Start()
		Shutdown(context.Context) error
		Close() error
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
	}

	server struct {
		deps     ServerDeps
		app      *echo.Echo
		errs     chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps:     deps,
		app:      echo.New(),
		errs:     make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf
	appJWTConfig.SigningKey = conf.SecretKey

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	api := s.app.Group("/api")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerUserAPI(api, jwt, s.deps.UserSvc, s.deps.Validate)
	registerTutorAPI(api, jwt, s.deps.TutorSvc, s.deps.Validate)
	registerBlogAPI(api, jwt, s.deps.BlogSvc, s.deps.Validate)
	registerContactAPI(api, jwt, s.deps.ContactSvc, s.deps.Validate)
	registerSubmissionAPI(api, jwt, s.deps.SubmissionSvc, s.deps.Validate)
	registerPricingAPI(api, jwt, s.deps.PricingSvc, s.deps.Validate)
	registerSubscriberAPI(api, jwt, s.deps.SubscriberSvc, s.deps.Validate)
	registerDashboardAPI(api, jwt, s.deps.DashboardSvc)
}

func (s *server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Address()); err != nil && err != http.ErrServerClosed {
		s.errs <- err
	}
}

// signalShutdown lets the error handler ask for a graceful stop.
func (s *server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *server) Errors() <-chan error { return s.errs }

func (s *server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to the TutorHub API!")
}
