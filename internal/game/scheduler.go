package game

import (
	"fmt"
	"time"

	"github.com/bronald/uhcd/internal/domain"
)

// Tick runs one scheduler pass: the repeating minute marker, the one-shot
// flags and the disconnect sweep, then publishes a status snapshot. Only a
// live match has scheduled work; a failed sink write never un-fires a flag.
func (s *Session) Tick(now time.Time) {
	if s.state == StateLive {
		elapsed := int(now.Sub(*s.startedAt) / time.Minute)

		s.tickMinuteMarker(now, elapsed)

		for _, f := range s.flags {
			if f.Fired || elapsed < s.flagThreshold(f.Kind) {
				continue
			}
			// Fired before the actions go out: a transient write failure
			// loses at most one action and must not cause a double fire
			f.Fired = true
			s.fireFlag(f.Kind)
		}

		s.sweepDisconnected(now)
	}

	s.emit(domain.EventStatus, s.Status(now))
}

// tickMinuteMarker advances the repeating marker. The next target is always
// re-derived from the match start when stale (left over from an earlier
// match), and advanced by exactly one period per fire so that near-miss
// polls never accumulate drift.
func (s *Session) tickMinuteMarker(now time.Time, elapsed int) {
	period := s.markerPeriod()
	if period <= 0 {
		return
	}
	if s.nextMarkerAt.Before(*s.startedAt) {
		s.nextMarkerAt = s.startedAt.Add(period)
	}
	if now.After(s.nextMarkerAt) {
		s.apply("execute @a ~ ~ ~ playsound minecraft:entity.firework.launch ambient @a[c=1]")
		s.announceAllGold(fmt.Sprintf("Minute marker: %d minutes", elapsed))
		s.nextMarkerAt = s.nextMarkerAt.Add(period)
		s.emit(domain.EventMinuteMarker, domain.MinuteMarkerEvent{Minutes: elapsed})
	}
}

// flagThreshold reads the live config so operator commands that adjust
// timings before or during a match take effect without restart
func (s *Session) flagThreshold(kind FlagKind) int {
	switch kind {
	case FlagNametagReveal:
		return s.cfg.Game.RevealNames
	case FlagEternalCycle:
		return s.cfg.Game.Eternal.TimeBegin
	case FlagBorderShrink:
		return s.cfg.Game.WorldBorder.TimeBegin
	}
	return 0
}

// fireFlag performs the one-shot transition's world mutation and announcement
func (s *Session) fireFlag(kind FlagKind) {
	switch kind {
	case FlagNametagReveal:
		for id := range s.teams {
			s.apply(fmt.Sprintf("scoreboard teams option %d nametagVisibility always", id))
		}
		s.announceAllGold("Your nametags are now visible to the enemy.")

	case FlagEternalCycle:
		switch s.cfg.Game.Eternal.Mode {
		case "day":
			s.apply("gamerule doDaylightCycle false")
			s.apply("time set 6000")
			s.announceAllGold("Eternal day has begun.")
		case "night":
			s.apply("gamerule doDaylightCycle false")
			s.apply("time set 18000")
			s.announceAllGold("Eternal night has begun.")
		}

	case FlagBorderShrink:
		wb := s.cfg.Game.WorldBorder
		seconds := wb.Duration * 60
		s.apply(fmt.Sprintf("worldborder set %d %d", wb.Finish, seconds))
		s.announceAllGold("The world border has started shrinking.")
		s.emit(domain.EventBorderShrink, domain.BorderShrinkEvent{
			FinishWidth:     wb.Finish,
			DurationSeconds: seconds,
		})
	}
}
