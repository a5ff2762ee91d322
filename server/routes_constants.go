package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Embedded Signup API Routes
	RouteESUStart    = "/api/whatsapp/esu/start"
	RouteESULink     = "/api/whatsapp/esu/link"
	RouteESUCallback = "/api/whatsapp/esu/callback"

	// Webhook Routes
	RouteWebhook = "/api/whatsapp/webhook"

	// Page Routes
	RouteESUStartPage = "/esu/start"
)
