package cache

import (
	"encoding/json"
	"errors"
	"sort"
	"sync"

	"github.com/DedS3t/monopoly-server/app/models"
	"github.com/gomodule/redigo/redis"
)

// RoomsKey is the redis hash holding one lobby summary per room id.
const RoomsKey = "monopoly.rooms"

// Directory is the lobby listing of live rooms.
type Directory interface {
	Publish(summary models.RoomSummary) error
	// Remove deletes the entry only if it still belongs to summary.Instance.
	Remove(summary models.RoomSummary) error
	Get(id string) (models.RoomSummary, bool, error)
	List() ([]models.RoomSummary, error)
}

type MemoryDirectory struct {
	mu    sync.RWMutex
	rooms map[string]models.RoomSummary
}

func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{rooms: make(map[string]models.RoomSummary)}
}

func (d *MemoryDirectory) Publish(summary models.RoomSummary) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rooms[summary.Id] = summary
	return nil
}

func (d *MemoryDirectory) Remove(summary models.RoomSummary) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if cur, ok := d.rooms[summary.Id]; ok && cur.Instance == summary.Instance {
		delete(d.rooms, summary.Id)
	}
	return nil
}

func (d *MemoryDirectory) Get(id string) (models.RoomSummary, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s, ok := d.rooms[id]
	return s, ok, nil
}

func (d *MemoryDirectory) List() ([]models.RoomSummary, error) {
	d.mu.RLock()
	out := make([]models.RoomSummary, 0, len(d.rooms))
	for _, s := range d.rooms {
		out = append(out, s)
	}
	d.mu.RUnlock()
	sortSummaries(out)
	return out, nil
}

type RedisDirectory struct {
	pool *redis.Pool
}

func NewRedisDirectory(pool *redis.Pool) *RedisDirectory {
	return &RedisDirectory{pool: pool}
}

func (d *RedisDirectory) Ping() error {
	conn := d.pool.Get()
	defer conn.Close()
	_, err := conn.Do("PING")
	return err
}

func (d *RedisDirectory) Publish(summary models.RoomSummary) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	conn := d.pool.Get()
	defer conn.Close()
	return HSET(RoomsKey, summary.Id, raw, conn)
}

func (d *RedisDirectory) Remove(summary models.RoomSummary) error {
	conn := d.pool.Get()
	defer conn.Close()

	cur, ok, err := get(summary.Id, conn)
	if err != nil || !ok || cur.Instance != summary.Instance {
		return err
	}
	return HDEL(RoomsKey, summary.Id, conn)
}

func (d *RedisDirectory) Get(id string) (models.RoomSummary, bool, error) {
	conn := d.pool.Get()
	defer conn.Close()
	return get(id, conn)
}

func (d *RedisDirectory) List() ([]models.RoomSummary, error) {
	conn := d.pool.Get()
	defer conn.Close()

	all, err := HGETALL(RoomsKey, conn)
	if err != nil {
		return nil, err
	}
	out := make([]models.RoomSummary, 0, len(all))
	for _, raw := range all {
		var s models.RoomSummary
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			continue
		}
		out = append(out, s)
	}
	sortSummaries(out)
	return out, nil
}

func get(id string, conn redis.Conn) (models.RoomSummary, bool, error) {
	raw, err := HGET(RoomsKey, id, conn)
	if errors.Is(err, redis.ErrNil) {
		return models.RoomSummary{}, false, nil
	}
	if err != nil {
		return models.RoomSummary{}, false, err
	}
	var s models.RoomSummary
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return models.RoomSummary{}, false, err
	}
	return s, true, nil
}

func sortSummaries(s []models.RoomSummary) {
	sort.Slice(s, func(i, j int) bool { return s[i].Id < s[j].Id })
}
