//go:build unit

package holdstore

// OnSweepRead runs fn after the sweep has read a slot's record and before it
// writes, inside the watched transaction.
func (s *RedisHoldStore) OnSweepRead(fn func(slotKey string)) {
	s.afterSweepRead = fn
}
