package server

func (s *Server) initRoutes() {
	// Embedded signup
	s.RegisterRouteFunc("GET "+RouteESUStart, ChainMiddleware(s.ESUStartHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteESULink, ChainMiddleware(s.ESULinkHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteESUCallback, ChainMiddleware(s.ESUCallbackHandler(), s.HTMLMiddleware()...))

	// Webhook subscription
	s.RegisterRouteFunc("GET "+RouteWebhook, ChainMiddleware(s.WebhookVerifyHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteWebhook, ChainMiddleware(s.WebhookReceiveHandler(), s.APIMiddleware()...))

	// Page-based redirect variant
	s.RegisterRouteFunc("GET "+RouteESUStartPage, ChainMiddleware(s.ESUStartPageHandler(), s.HTMLMiddleware()...))
}
