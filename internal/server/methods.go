package server

import (
	"context"
	"errors"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"

	"github.com/ayoisaiah/chime/daemon"
	"github.com/ayoisaiah/chime/internal/config"
	"github.com/ayoisaiah/chime/scheduler"
	"github.com/ayoisaiah/chime/timer"
)

const codeInvalidParams = jrpc2.Code(-32602)

// Service is the set of daemon operations exposed over RPC.
type Service interface {
	StartTimer(seconds float64) error
	CancelTimer()
	LoadRecents() []float64
	SetSubtleMode(enabled bool) error
	LoadSubtleMode() bool
	LoadRemainingSeconds() float64
	Status() daemon.Status
	SetAlarm(slot, hour, minute int) error
	SetAlarmLabel(slot int, label string) error
	Alarms() (scheduler.Alarms, error)
	ToggleAlarm(slot int, enabled bool) error
	SetIntervalTimer(startHour, startMinute, endHour, endMinute int) error
	IntervalTimer() (scheduler.IntervalConfig, error)
	ToggleIntervalTimer(enabled bool) error
	SetIntervalRate(every, lateEvery int) error
}

// VersionResult is the response for system.getVersion.
type VersionResult struct {
	Version string `json:"version"`
}

func (s *Server) methodMap() handler.Map {
	return handler.Map{
		"system.getVersion": handler.New(s.systemGetVersion),

		"startTimer":           handler.NewPos(s.startTimer, "seconds"),
		"cancelTimer":          handler.New(s.cancelTimer),
		"loadRecents":          handler.New(s.loadRecents),
		"setSubtleMode":        handler.NewPos(s.setSubtleMode, "enabled"),
		"loadSubtleMode":       handler.New(s.loadSubtleMode),
		"loadRemainingSeconds": handler.New(s.loadRemainingSeconds),
		"getStatus":            handler.New(s.getStatus),

		"setAlarm":      handler.NewPos(s.setAlarm, "slot", "hour", "minute"),
		"setAlarmLabel": handler.NewPos(s.setAlarmLabel, "slot", "label"),
		"getAlarms":     handler.New(s.getAlarms),
		"toggleAlarm":   handler.NewPos(s.toggleAlarm, "slot", "enabled"),

		"setIntervalTimer": handler.NewPos(
			s.setIntervalTimer,
			"startHour", "startMinute", "endHour", "endMinute",
		),
		"getIntervalTimer":    handler.New(s.getIntervalTimer),
		"toggleIntervalTimer": handler.NewPos(s.toggleIntervalTimer, "enabled"),
		"setIntervalRate":     handler.NewPos(s.setIntervalRate, "every", "lateEvery"),
	}
}

// rpcError maps validation failures to the invalid params code.
func rpcError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, timer.ErrInvalidDuration) ||
		errors.Is(err, scheduler.ErrInvalidTime) ||
		errors.Is(err, scheduler.ErrInvalidSlot) ||
		errors.Is(err, scheduler.ErrInvalidRate) {
		return &jrpc2.Error{Code: codeInvalidParams, Message: err.Error()}
	}

	return err
}

func (s *Server) systemGetVersion(_ context.Context) (*VersionResult, error) {
	return &VersionResult{Version: config.Version}, nil
}

func (s *Server) startTimer(_ context.Context, seconds float64) error {
	return rpcError(s.svc.StartTimer(seconds))
}

func (s *Server) cancelTimer(_ context.Context) error {
	s.svc.CancelTimer()
	return nil
}

func (s *Server) loadRecents(_ context.Context) ([]float64, error) {
	return s.svc.LoadRecents(), nil
}

// setSubtleMode reports the new flag. A failed commit is logged by the
// daemon and keeps the in-memory value, so it is not an RPC failure.
func (s *Server) setSubtleMode(_ context.Context, enabled bool) (bool, error) {
	_ = s.svc.SetSubtleMode(enabled)
	return enabled, nil
}

func (s *Server) loadSubtleMode(_ context.Context) (bool, error) {
	return s.svc.LoadSubtleMode(), nil
}

func (s *Server) loadRemainingSeconds(_ context.Context) (float64, error) {
	return s.svc.LoadRemainingSeconds(), nil
}

func (s *Server) getStatus(_ context.Context) (daemon.Status, error) {
	return s.svc.Status(), nil
}

func (s *Server) setAlarm(_ context.Context, slot, hour, minute int) error {
	return rpcError(s.svc.SetAlarm(slot, hour, minute))
}

func (s *Server) setAlarmLabel(_ context.Context, slot int, label string) error {
	return rpcError(s.svc.SetAlarmLabel(slot, label))
}

func (s *Server) getAlarms(_ context.Context) (scheduler.Alarms, error) {
	return s.svc.Alarms()
}

func (s *Server) toggleAlarm(_ context.Context, slot int, enabled bool) error {
	return rpcError(s.svc.ToggleAlarm(slot, enabled))
}

func (s *Server) setIntervalTimer(
	_ context.Context,
	startHour, startMinute, endHour, endMinute int,
) error {
	return rpcError(s.svc.SetIntervalTimer(startHour, startMinute, endHour, endMinute))
}

func (s *Server) getIntervalTimer(_ context.Context) (scheduler.IntervalConfig, error) {
	return s.svc.IntervalTimer()
}

func (s *Server) toggleIntervalTimer(_ context.Context, enabled bool) error {
	return rpcError(s.svc.ToggleIntervalTimer(enabled))
}

func (s *Server) setIntervalRate(_ context.Context, every, lateEvery int) error {
	return rpcError(s.svc.SetIntervalRate(every, lateEvery))
}
