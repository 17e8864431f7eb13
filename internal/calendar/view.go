package calendar

import (
	"fmt"
	"time"
)

// ViewState is the month currently shown by the date picker. It is independent
// of the draft's selected date.
type ViewState struct {
	Month time.Month `json:"month"`
	Year  int        `json:"year"`
}

// NewViewState opens the picker on now's month.
func NewViewState(now time.Time) ViewState {
	return ViewState{Month: now.Month(), Year: now.Year()}
}

// ChangeMonth moves the view by delta months, wrapping the year.
func (v ViewState) ChangeMonth(delta int) ViewState {
	idx := int(v.Month) - 1 + delta
	year := v.Year + idx/12
	idx %= 12
	if idx < 0 {
		idx += 12
		year--
	}
	return ViewState{Month: time.Month(idx + 1), Year: year}
}

// Title renders "January 2025".
func (v ViewState) Title() string {
	return fmt.Sprintf("%s %d", v.Month, v.Year)
}

// Day is one selectable cell of the grid.
type Day struct {
	Date       string `json:"date"`
	Day        int    `json:"day"`
	IsToday    bool   `json:"is_today"`
	IsPast     bool   `json:"is_past"`
	IsSelected bool   `json:"is_selected"`
}

// Grid is a month laid out Sunday first.
type Grid struct {
	Title          string    `json:"title"`
	Month          int       `json:"month"`
	Year           int       `json:"year"`
	Headers        []string  `json:"headers"`
	LeadingBlanks  int       `json:"leading_blanks"`
	Days           []Day     `json:"days"`
	PreviousMonth  ViewState `json:"previous"`
	FollowingMonth ViewState `json:"next"`
}

// BuildGrid lays out view's month. Past days are flagged so they can be disabled.
func BuildGrid(view ViewState, selected *time.Time, now time.Time) Grid {
	count := DaysInMonth(view.Month, view.Year)
	grid := Grid{
		Title:          view.Title(),
		Month:          int(view.Month),
		Year:           view.Year,
		Headers:        append([]string(nil), WeekdayHeaders...),
		LeadingBlanks:  FirstWeekdayOfMonth(view.Month, view.Year),
		Days:           make([]Day, 0, count),
		PreviousMonth:  view.ChangeMonth(-1),
		FollowingMonth: view.ChangeMonth(1),
	}

	for d := 1; d <= count; d++ {
		date := time.Date(view.Year, view.Month, d, 0, 0, 0, 0, now.Location())
		grid.Days = append(grid.Days, Day{
			Date:       date.Format("2006-01-02"),
			Day:        d,
			IsToday:    IsToday(date, now),
			IsPast:     IsPastDate(date, now),
			IsSelected: selected != nil && dayKey(*selected).Equal(dayKey(date)),
		})
	}
	return grid
}
