package routes

import (
	accessController "visit-access/controllers/access"
	catalogController "visit-access/controllers/catalog"
	qrController "visit-access/controllers/qr"
	twilioController "visit-access/controllers/twilio"
	httpServices "visit-access/httpServices/decision"
	"visit-access/logger"
	"visit-access/middleware"
	"visit-access/repository"
	accessService "visit-access/services/access"
	"visit-access/services/callstore"
	catalogService "visit-access/services/catalog"
	qrService "visit-access/services/qr"
	twilioService "visit-access/services/twilio"

	"os"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	twilioConfig := twilioService.ConfigFromEnv()

	// One call store per process, injected everywhere that needs live
	// call state.
	calls := callstore.New()
	var notifier twilioService.Notifier
	if decisionClient := httpServices.NewClient(os.Getenv("DECISION_WEBHOOK_URL")); decisionClient.Configured() {
		notifier = decisionClient
	} else {
		logger.Warning("DECISION_WEBHOOK_URL is not set, captured call decisions will be dropped")
	}
	provider := twilioService.NewRestCallProvider(twilioConfig.AccountSid, twilioConfig.AuthToken)
	twilioSvc := twilioService.NewService(provider, notifier, calls, twilioConfig)

	accessRepo := repository.NewAccessRepository(db)
	accessSvc := accessService.NewService(accessRepo, twilioSvc)

	asyncLogger := logger.NewAsyncLogger(db)
	accessCtl := accessController.NewAccessController(accessSvc)
	twilioCtl := twilioController.NewTwilioController(twilioSvc, asyncLogger)
	catalogCtl := catalogController.NewCatalogController(catalogService.NewService(db))
	qrCtl := qrController.NewQRController(qrService.NewService(db))

	// Start the async logger processing goroutine
	go asyncLogger.ProcessLog()

	/*=============================================================================
	| Provider webhooks (public: Twilio cannot carry our bearer token)
	===============================================================================*/
	app.Get("/twilio/", twilioCtl.Health)
	app.Get("/twilio/voice", twilioCtl.Voice)
	app.Post("/twilio/voice", twilioCtl.Voice)
	app.Post("/twilio/voice/handle-input", twilioCtl.HandleInput)
	app.Post("/twilio/status-callback", twilioCtl.StatusCallback)

	// The decision push originates from the digit webhook, which cannot
	// carry the service token either.
	app.Post("/api/access/twilio-decision", accessCtl.ApplyDecision)

	/*=============================================================================
	| Access Request Routes
	===============================================================================*/
	api := app.Group("/api")

	accessGroup := api.Group("/access", middleware.RequireServiceToken())
	accessGroup.Post("/", accessCtl.Store)
	accessGroup.Post("/:id/call", accessCtl.StartCall)
	accessGroup.Get("/:id/status", accessCtl.PollStatus)
	accessGroup.Get("/:id", accessCtl.Show)

	/*=============================================================================
	| Call state lookups + direct call trigger
	===============================================================================*/
	twilioGroup := api.Group("/twilio", middleware.RequireServiceToken())
	twilioGroup.Post("/call", twilioCtl.StartCall)
	twilioGroup.Get("/call/:callSid", twilioCtl.CallStatus)
	twilioGroup.Get("/visit/:visitId", twilioCtl.VisitStatus)

	/*=============================================================================
	| Catalog + QR Routes
	===============================================================================*/
	catalogGroup := api.Group("/catalog", middleware.RequireServiceToken())
	catalogGroup.Get("/housing", catalogCtl.Housing)
	catalogGroup.Get("/housing/resident", catalogCtl.ResidentContact)

	qrGroup := api.Group("/qr", middleware.RequireServiceToken())
	qrGroup.Post("/", qrCtl.Issue)
	qrGroup.Post("/validate", qrCtl.Validate)
	qrGroup.Get("/:id/image", qrCtl.Image)
}
