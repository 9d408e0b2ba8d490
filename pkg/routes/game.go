package routes

import (
	"github.com/DedS3t/monopoly-server/app/controllers"
	"github.com/gofiber/fiber/v2"
)

func GameRoutes(a *fiber.App, games *controllers.GameController) {
	a.Get("/health", games.Health)

	route := a.Group("/game")
	route.Post("/create", games.CreateGame)
	route.Get("/verify", games.VerifyGame)
	route.Get("/all", games.GetAllAvailGames)
	route.Get("/find", games.FindAvailGame)
	route.Get("/modes", games.GetModes)
}
