package server

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	r := s.router

	// Classification
	r.Post("/classify", s.classifyCommand)
	r.Post("/classify/tool", s.classifyTool)

	// Mode inspection and reload
	r.Get("/mode", s.getMode)
	r.Post("/mode/reload", s.reloadMode)

	// Event streaming (SSE)
	r.Get("/event", s.events)

	// Health
	r.Get("/health", s.health)
}
