package internal

import (
	"net/http"
	"votekiosk/internal/controllers"
	"votekiosk/internal/providers"
)

func InitRoutes(kioskController *controllers.KioskController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/session", http.HandlerFunc(kioskController.GetSession))
	routers.Post("/session/start", http.HandlerFunc(kioskController.StartSession))
	routers.Post("/session/capture", http.HandlerFunc(kioskController.Capture))
	routers.Get("/session/image", http.HandlerFunc(kioskController.GetImage))
	routers.Get("/ballot", http.HandlerFunc(kioskController.GetBallot))
	routers.Post("/ballot/vote", http.HandlerFunc(kioskController.Vote))
	routers.Get("/parties", http.HandlerFunc(kioskController.GetParties))
	routers.Post("/display/retry", http.HandlerFunc(kioskController.RetryDisplay))
	routers.Post("/display/report", http.HandlerFunc(kioskController.ReportDisplay))
	return routers
}
