package controllers

import (
	"encoding/json"
	"errors"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DedS3t/monopoly-server/app/models"
	"github.com/DedS3t/monopoly-server/platform/cache"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenDirectory struct{ cache.Directory }

func (brokenDirectory) List() ([]models.RoomSummary, error) {
	return nil, errors.New("redis down")
}

func (brokenDirectory) Get(string) (models.RoomSummary, bool, error) {
	return models.RoomSummary{}, false, errors.New("redis down")
}

func newTestApp(dir cache.Directory) *fiber.App {
	log := logrus.New()
	log.SetOutput(ioutil.Discard)
	g := NewGameController(dir, log)

	app := fiber.New()
	app.Get("/health", g.Health)
	app.Post("/game/create", g.CreateGame)
	app.Get("/game/all", g.GetAllAvailGames)
	app.Get("/game/find", g.FindAvailGame)
	app.Get("/game/verify", g.VerifyGame)
	app.Get("/game/modes", g.GetModes)
	return app
}

func seededDirectory() *cache.MemoryDirectory {
	dir := cache.NewMemoryDirectory()
	dir.Publish(models.RoomSummary{Id: "OPEN", Instance: "1", Status: "forming", Size: 1, MaxSize: 4})
	dir.Publish(models.RoomSummary{Id: "ALMOST", Instance: "1", Status: "forming", Size: 3, MaxSize: 4})
	dir.Publish(models.RoomSummary{Id: "FULL", Instance: "1", Status: "forming", Size: 2, MaxSize: 2})
	dir.Publish(models.RoomSummary{Id: "PLAYING", Instance: "1", Status: "active", Size: 3, MaxSize: 3})
	return dir
}

func get(t *testing.T, app *fiber.App, method, path string, out interface{}) int {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		body, err := ioutil.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, out))
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	var body map[string]string
	assert.Equal(t, http.StatusOK, get(t, newTestApp(cache.NewMemoryDirectory()), http.MethodGet, "/health", &body))
	assert.Equal(t, "ok", body["status"])
}

func TestGetAllAvailGames(t *testing.T) {
	var rooms []models.RoomSummary
	code := get(t, newTestApp(seededDirectory()), http.MethodGet, "/game/all", &rooms)
	assert.Equal(t, http.StatusOK, code)

	ids := make([]string, 0, len(rooms))
	for _, r := range rooms {
		ids = append(ids, r.Id)
	}
	assert.Equal(t, []string{"ALMOST", "FULL", "OPEN"}, ids)
}

func TestFindAvailGame(t *testing.T) {
	var body map[string]string
	assert.Equal(t, http.StatusOK, get(t, newTestApp(seededDirectory()), http.MethodGet, "/game/find", &body))
	assert.Equal(t, "ALMOST", body["id"])

	assert.Equal(t, http.StatusNotFound, get(t, newTestApp(cache.NewMemoryDirectory()), http.MethodGet, "/game/find", nil))
}

func TestVerifyGame(t *testing.T) {
	app := newTestApp(seededDirectory())
	cases := map[string]bool{
		"OPEN":    true,
		"FULL":    false,
		"PLAYING": false,
		"NOPE":    false,
	}
	for code, want := range cases {
		var body map[string]bool
		assert.Equal(t, http.StatusOK, get(t, app, http.MethodGet, "/game/verify?code="+code, &body))
		assert.Equal(t, want, body["status"], code)
	}
}

func TestCreateGame(t *testing.T) {
	var body map[string]string
	assert.Equal(t, http.StatusOK, get(t, newTestApp(seededDirectory()), http.MethodPost, "/game/create", &body))
	assert.Len(t, body["id"], codeLength)
}

func TestGetModes(t *testing.T) {
	var modes []models.GameMode
	assert.Equal(t, http.StatusOK, get(t, newTestApp(cache.NewMemoryDirectory()), http.MethodGet, "/game/modes", &modes))
	assert.Equal(t, models.Modes, modes)
}

func TestDirectoryFailures(t *testing.T) {
	app := newTestApp(brokenDirectory{})
	assert.Equal(t, http.StatusInternalServerError, get(t, app, http.MethodGet, "/game/all", nil))
	assert.Equal(t, http.StatusInternalServerError, get(t, app, http.MethodGet, "/game/find", nil))
	assert.Equal(t, http.StatusInternalServerError, get(t, app, http.MethodGet, "/game/verify?code=X", nil))
	assert.Equal(t, http.StatusInternalServerError, get(t, app, http.MethodPost, "/game/create", nil))
}
