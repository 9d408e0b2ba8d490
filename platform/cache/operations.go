package cache

import (
	"github.com/gomodule/redigo/redis"
)

func HSET(key string, field string, value interface{}, conn redis.Conn) error {
	_, err := conn.Do("HSET", key, field, value)
	return err
}

func HGET(key string, field string, conn redis.Conn) (string, error) {
	return redis.String(conn.Do("HGET", key, field))
}

func HDEL(key string, field string, conn redis.Conn) error {
	_, err := conn.Do("HDEL", key, field)
	return err
}

func HGETALL(key string, conn redis.Conn) (map[string]string, error) {
	return redis.StringMap(conn.Do("HGETALL", key))
}
