package session

import (
	"time"

	"github.com/timeblock/timeblock/internal/model"
)

// TimerRunning reports whether the stopwatch is running.
func (s *Session) TimerRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timerRunning
}

// TimerElapsed returns the current elapsed seconds. While running it is
// recomputed from the start instant, so it is immune to tick jitter.
func (s *Session) TimerElapsed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsedLocked()
}

func (s *Session) elapsedLocked() int {
	if s.timerRunning {
		return int(s.now().Sub(s.timerStart) / time.Second)
	}
	return s.timerSeconds
}

// StartTimer starts the stopwatch against the open draft. An unsaved
// draft cannot accumulate billable time: the session warns and stays
// stopped. A prior accumulation in this editing session is preserved by
// back-dating the start instant.
func (s *Session) StartTimer() error {
	s.mu.Lock()
	if s.timerRunning {
		s.mu.Unlock()
		return nil
	}
	if s.draft.ID == "" {
		s.mu.Unlock()
		s.notify.Notify(LevelWarning, "Please save the task before starting the timer")
		return ErrNoOpenTask
	}

	s.timerRunning = true
	s.timerStart = s.now().Add(-time.Duration(s.timerSeconds) * time.Second)
	s.startTickerLocked()
	s.mu.Unlock()

	s.notify.Notify(LevelInfo, "Timer started")
	return nil
}

// StopTimer stops the stopwatch. A nonzero elapsed duration against a
// saved draft is committed as a time log with an empty note; against an
// unsaved draft the duration is discarded with a warning.
func (s *Session) StopTimer() error {
	s.mu.Lock()
	if !s.timerRunning {
		s.mu.Unlock()
		return nil
	}
	elapsed := s.elapsedLocked()
	s.timerRunning = false
	s.timerSeconds = elapsed
	s.stopTickerLocked()
	taskID := s.draft.ID
	s.mu.Unlock()

	if taskID == "" {
		s.mu.Lock()
		s.timerSeconds = 0
		s.mu.Unlock()
		s.notify.Notify(LevelWarning, "Cannot save time log: save the task first")
		return ErrNoOpenTask
	}
	if elapsed == 0 {
		return nil
	}

	if _, err := s.backend.SaveTimeLog(taskID, elapsed, ""); err != nil {
		// Keep the accumulated time so the user can retry the stop.
		s.notify.Notify(LevelError, "Error saving time log: "+errMessage(err))
		return err
	}

	s.mu.Lock()
	s.timerSeconds = 0
	s.mu.Unlock()
	s.reloadLogs(taskID)
	s.notify.Notify(LevelSuccess, "Time log saved: "+model.FormatDuration(elapsed))
	return nil
}

// ResetTimer forces the stopwatch to stopped/zero with no backend
// interaction. Switching the open draft implies a reset.
func (s *Session) ResetTimer() {
	s.mu.Lock()
	s.timerRunning = false
	s.timerSeconds = 0
	s.stopTickerLocked()
	s.mu.Unlock()
}

// startTickerLocked begins the periodic display recomputation. The tick
// path does local arithmetic only; it never performs I/O.
func (s *Session) startTickerLocked() {
	if s.tickInterval <= 0 || s.onTick == nil {
		return
	}
	stop := make(chan struct{})
	s.tickStop = stop
	go func() {
		ticker := time.NewTicker(s.tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.mu.Lock()
				secs := s.elapsedLocked()
				cb := s.onTick
				s.mu.Unlock()
				cb(secs)
			}
		}
	}()
}

func (s *Session) stopTickerLocked() {
	if s.tickStop != nil {
		close(s.tickStop)
		s.tickStop = nil
	}
}
