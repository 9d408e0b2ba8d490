package controllers

import (
	"github.com/DedS3t/monopoly-server/app/models"
	"github.com/DedS3t/monopoly-server/pkg"
	"github.com/DedS3t/monopoly-server/platform/cache"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const codeLength = 8

// GameController serves the lobby listing from the room directory.
type GameController struct {
	dir cache.Directory
	log logrus.FieldLogger
}

func NewGameController(dir cache.Directory, log logrus.FieldLogger) *GameController {
	return &GameController{dir: dir, log: log.WithField("component", "http")}
}

func (g *GameController) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// CreateGame hands out a fresh room code. The room itself comes to life
// on the first join.
func (g *GameController) CreateGame(c *fiber.Ctx) error {
	for i := 0; i < 5; i++ {
		id := pkg.RandString(codeLength)
		_, taken, err := g.dir.Get(id)
		if err != nil {
			g.log.WithError(err).Error("directory lookup failed")
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		if !taken {
			return c.JSON(fiber.Map{"id": id})
		}
	}
	return c.SendStatus(fiber.StatusServiceUnavailable)
}

func (g *GameController) GetAllAvailGames(c *fiber.Ctx) error {
	rooms, err := g.forming()
	if err != nil {
		g.log.WithError(err).Error("directory list failed")
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.JSON(rooms)
}

// FindAvailGame returns the forming room with the fewest free seats, so
// players fill up rooms before opening new ones.
func (g *GameController) FindAvailGame(c *fiber.Ctx) error {
	rooms, err := g.forming()
	if err != nil {
		g.log.WithError(err).Error("directory list failed")
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	var best *models.RoomSummary
	for i := range rooms {
		r := &rooms[i]
		if r.Size >= r.MaxSize {
			continue
		}
		if best == nil || r.MaxSize-r.Size < best.MaxSize-best.Size {
			best = r
		}
	}
	if best == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"id": ""})
	}
	return c.JSON(fiber.Map{"id": best.Id})
}

func (g *GameController) VerifyGame(c *fiber.Ctx) error {
	verifyGameDto := new(models.VerifyGameDto)
	if err := c.QueryParser(verifyGameDto); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	room, ok, err := g.dir.Get(verifyGameDto.Code)
	if err != nil {
		g.log.WithError(err).Error("directory lookup failed")
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	joinable := ok && room.Status == "forming" && room.Size < room.MaxSize
	return c.JSON(fiber.Map{"status": joinable})
}

func (g *GameController) GetModes(c *fiber.Ctx) error {
	return c.JSON(models.Modes)
}

func (g *GameController) forming() ([]models.RoomSummary, error) {
	all, err := g.dir.List()
	if err != nil {
		return nil, err
	}
	out := make([]models.RoomSummary, 0, len(all))
	for _, r := range all {
		if r.Status == "forming" {
			out = append(out, r)
		}
	}
	return out, nil
}
