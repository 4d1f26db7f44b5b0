package tests

import (
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

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
	mediasvc "github.com/mwalimu/tutorhub/services/media"
	dummydb "github.com/mwalimu/tutorhub/storage/database/dummy"
)

var (
	conf *core.Config
	app  echoapi.Server

	usrRepo  user.Repository
	tutRepo  tutor.Repository
	blogRepo blog.Repository
	contRepo contact.Repository
	subRepo  submission.Repository
	planRepo pricing.Repository
	newsRepo subscriber.Repository
)

func TestMain(m *testing.M) {
	_ = os.Setenv("ENV", "TEST")
	conf = core.NewConfig()

	logger := stdLogger{}

	db, err := dummydb.Open()
	if err != nil {
		fmt.Printf("dummydb.Open(): %v", err)
		os.Exit(1)
	}

	usrRepo = dummydb.NewUserRepository(db)
	tutRepo = dummydb.NewTutorRepository(db)
	blogRepo = dummydb.NewBlogRepository(db)
	contRepo = dummydb.NewContactRepository(db)
	subRepo = dummydb.NewSubmissionRepository(db)
	planRepo = dummydb.NewPricingRepository(db)
	newsRepo = dummydb.NewSubscriberRepository(db)
	dashRepo := dummydb.NewDashboardRepository(db)

	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	mediaSvc := mediasvc.NewMockService()

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	user.Init(conf)
	core.ParseEmailTemplates(logger)
	user.LoadCommonPasswords(logger)

	app = echoapi.NewServer(echoapi.ServerDeps{
		Conf:          conf,
		Logger:        logger,
		UserSvc:       user.NewServiceMock(nil, usrRepo, mailSvc, conf),
		TutorSvc:      tutor.NewService(nil, tutRepo, mediaSvc, logger),
		BlogSvc:       blog.NewService(nil, blogRepo, mediaSvc, logger),
		ContactSvc:    contact.NewService(nil, contRepo, mailSvc, conf),
		SubmissionSvc: submission.NewService(nil, subRepo),
		PricingSvc:    pricing.NewService(nil, planRepo),
		SubscriberSvc: subscriber.NewService(nil, newsRepo, mailSvc, conf),
		DashboardSvc:  dashboard.NewService(nil, dashRepo),
		Validate:      validate,
		Translator:    translator,
	})

	os.Exit(m.Run())
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

// stdLogger satisfies core.Logger without reporting anywhere.
type stdLogger struct{}

func (stdLogger) Debug(msg string, args ...interface{}) { log.Println(msg) }
func (stdLogger) Info(msg string, args ...interface{})  { log.Println(msg) }
func (stdLogger) Warn(msg string, args ...interface{})  { log.Println(msg) }
func (stdLogger) Error(msg string, args ...interface{}) { log.Println(msg) }
func (stdLogger) Fatal(msg string, args ...interface{}) { log.Fatalln(msg) }
