// Pomodesk
// Copyright (c) 2026 The Pomodesk Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Pomodesk.
//
// Pomodesk is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Pomodesk is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Pomodesk.  If not, see <http://www.gnu.org/licenses/>.

package display

import (
	"fmt"
	"strconv"

	"github.com/pomodesk/pomodesk/pkg/pomodoro"
	"github.com/pomodesk/pomodesk/pkg/rtc"
)

// View identifies which screen a render produced.
type View int

const (
	ViewTime View = iota
	ViewDate
	ViewPomodoro
)

func (v View) String() string {
	switch v {
	case ViewTime:
		return "time"
	case ViewDate:
		return "date"
	case ViewPomodoro:
		return "pomodoro"
	default:
		return "unknown"
	}
}

// DefaultAlternateEvery is how many clock renders pass before the view
// switches between time and date.
const DefaultAlternateEvery = 3

const (
	largeAdvance = 16
	colonAdvance = 12
	smallAdvance = GlyphSize

	timePage = 2
	timeBase = 4

	datePage = 2
	dateBase = 24
	yearPage = 5
	yearBase = 32

	summaryPage   = 5
	summaryBase   = 30
	summaryLetter = summaryBase + 45
	summaryCount  = summaryBase + 55

	labelPage    = 1
	labelCol     = 4
	timerPage    = 3
	timerBase    = 26
	progressPage = 6
	progressCol  = 4
	progressLen  = Width - 2*progressCol
	progressBits = 0x3C
)

// Screen composes full frames. It keeps the time/date alternation counter
// and is owned by a single render loop.
type Screen struct {
	r              *Renderer
	alternateEvery int
	cycles         int
	showDate       bool
}

// NewScreen returns a composer drawing through r. alternateEvery <= 0
// uses DefaultAlternateEvery.
func NewScreen(r *Renderer, alternateEvery int) *Screen {
	if alternateEvery <= 0 {
		alternateEvery = DefaultAlternateEvery
	}
	return &Screen{r: r, alternateEvery: alternateEvery}
}

// Render clears the panel and draws one frame. The Pomodoro view takes
// over whenever the session is running or in a break; otherwise time and
// date alternate.
func (s *Screen) Render(now rtc.WallClock, snap pomodoro.Snapshot) (View, error) {
	view := s.next(snap)

	if err := s.r.Clear(); err != nil {
		return view, err
	}

	var err error
	switch view {
	case ViewPomodoro:
		err = s.drawPomodoro(snap)
	case ViewDate:
		err = s.drawDate(now)
	default:
		err = s.drawTime(now, snap)
	}
	if err != nil {
		return view, fmt.Errorf("draw %s view: %w", view, err)
	}
	return view, s.r.Flush()
}

func (s *Screen) next(snap pomodoro.Snapshot) View {
	if !snap.Idle() {
		return ViewPomodoro
	}
	view := ViewTime
	if s.showDate {
		view = ViewDate
	}
	s.cycles++
	if s.cycles >= s.alternateEvery {
		s.showDate = !s.showDate
		s.cycles = 0
	}
	return view
}

func (s *Screen) drawLargeText(page, col int, text string) error {
	for _, c := range text {
		if err := s.r.DrawLarge(page, col, c); err != nil {
			return err
		}
		if c == ':' {
			col += colonAdvance
		} else {
			col += largeAdvance
		}
	}
	return nil
}

func largeTextWidth(text string) int {
	w := 0
	for _, c := range text {
		if c == ':' {
			w += colonAdvance
		} else {
			w += largeAdvance
		}
	}
	return w
}

func (s *Screen) drawTime(now rtc.WallClock, snap pomodoro.Snapshot) error {
	if err := s.drawLargeText(timePage, timeBase, now.ClockString()); err != nil {
		return err
	}
	if err := s.r.DrawSmallText(summaryPage, summaryBase, snap.TimerString()); err != nil {
		return err
	}
	if err := s.r.DrawBitmap(summaryPage, summaryLetter, stateLetter(snap.State)); err != nil {
		return err
	}
	if snap.Completed < 10 {
		return s.r.DrawSmall(summaryPage, summaryCount, rune('0'+snap.Completed))
	}
	return nil
}

func (s *Screen) drawDate(now rtc.WallClock) error {
	dayMonth := fmt.Sprintf("%02d/%02d", now.Day, now.Month)
	if err := s.drawLargeText(datePage, dateBase, dayMonth); err != nil {
		return err
	}
	return s.drawLargeText(yearPage, yearBase, fmt.Sprintf("%04d", now.Year))
}

func (s *Screen) drawPomodoro(snap pomodoro.Snapshot) error {
	if err := s.r.DrawBitmap(labelPage, labelCol, stateLabel(snap.State)); err != nil {
		return err
	}

	count := strconv.FormatUint(uint64(snap.Completed), 10)
	if len(count) > 3 {
		count = count[len(count)-3:]
	}
	countCol := Width - labelCol - len(count)*smallAdvance
	if err := s.r.DrawSmallText(labelPage, countCol, count); err != nil {
		return err
	}

	timer := snap.TimerString()
	base := timerBase
	if w := largeTextWidth(timer); w > Width-2*timerBase {
		base = max((Width-w)/2, 0)
	}
	if err := s.drawLargeText(timerPage, base, timer); err != nil {
		return err
	}

	return s.drawProgress(snap)
}

func (s *Screen) drawProgress(snap pomodoro.Snapshot) error {
	total := snap.Duration()
	if total <= 0 {
		return nil
	}
	elapsed := total - snap.TimeLeft
	filled := progressLen * elapsed / total
	if filled <= 0 {
		return nil
	}
	bar := make([]byte, filled)
	for i := range bar {
		bar[i] = progressBits
	}
	return s.r.DrawBitmap(progressPage, progressCol, bar)
}

func stateLabel(st pomodoro.State) []byte {
	switch st {
	case pomodoro.Break:
		return labelBreak
	case pomodoro.LongBreak:
		return labelLong
	default:
		return labelWork
	}
}

func stateLetter(st pomodoro.State) []byte {
	if st == pomodoro.Work {
		return letterW
	}
	return letterB
}
