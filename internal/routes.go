package internal

import (
	"net/http"

	"rpd/internal/controllers"
	"rpd/internal/providers"
	"rpd/internal/structures"
)

func InitRoutes(apiController *controllers.ApiController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/sessions", http.HandlerFunc(apiController.StartSession))
	routers.Post("/sessions/close", http.HandlerFunc(apiController.CloseSession))
	routers.Post("/events", http.HandlerFunc(apiController.ReceiveEvent))
	routers.Get("/state", http.HandlerFunc(apiController.GetState))
	routers.Get("/progress", http.HandlerFunc(apiController.GetProgress))
	routers.Get("/book", http.HandlerFunc(apiController.GetBookStatus))
	routers.Get("/leaderboard", http.HandlerFunc(apiController.GetLeaderboard))
	return routers
}
