package redis

import "fmt"

// valueKey returns the Redis key holding a store value
func (s *Storage) valueKey(key string) string {
	return fmt.Sprintf("%s:kv:%s", s.cfg.KeyPrefix, key)
}

// changesChannel returns the pub/sub channel carrying change notifications
func (s *Storage) changesChannel() string {
	return fmt.Sprintf("%s:changes", s.cfg.KeyPrefix)
}
