package scheduler

import (
	"time"

	"github.com/ikkim/variant-editor/pkg/logger"
	"github.com/robfig/cron/v3"
)

// SessionExpirer removes sessions idle for longer than ttl.
type SessionExpirer interface {
	ExpireIdle(ttl time.Duration) (int, error)
}

// SessionSweeper periodically drops idle editing sessions.
type SessionSweeper struct {
	cron    *cron.Cron
	expirer SessionExpirer
	spec    string
	ttl     time.Duration
}

// NewSessionSweeper takes a cron spec such as "@every 5m".
func NewSessionSweeper(expirer SessionExpirer, spec string, ttl time.Duration) *SessionSweeper {
	return &SessionSweeper{
		cron:    cron.New(),
		expirer: expirer,
		spec:    spec,
		ttl:     ttl,
	}
}

func (s *SessionSweeper) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.Sweep)
	if err != nil {
		logger.Error("Failed to add cron job for session sweep", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Session sweeper started", map[string]interface{}{
		"spec": s.spec,
		"ttl":  s.ttl.String(),
	})
	return nil
}

// Sweep runs one expiry pass.
func (s *SessionSweeper) Sweep() {
	expired, err := s.expirer.ExpireIdle(s.ttl)
	if err != nil {
		logger.Error("Failed to sweep idle sessions", err)
		return
	}
	logger.Debug("Session sweep finished", map[string]interface{}{
		"expired": expired,
	})
}

func (s *SessionSweeper) Stop() {
	logger.Info("Stopping session sweeper...", nil)
	<-s.cron.Stop().Done()
	logger.Info("Session sweeper stopped", nil)
}
