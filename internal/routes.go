package internal

import (
	"net/http"

	"warden/internal/controllers"
	"warden/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/leaderboard", http.HandlerFunc(apiController.GetLeaderboard))
	routers.Get("/user", http.HandlerFunc(apiController.GetUser))
	routers.Get("/mutes", http.HandlerFunc(apiController.GetMutes))
	return routers
}
