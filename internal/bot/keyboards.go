package bot

import (
	"fmt"
	"strconv"

	"jamservices/internal/calendar"
	"jamservices/internal/models"
	"jamservices/internal/pricing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback data. Prefixed values carry an argument after the colon.
const (
	cbService     = "svc:"
	cbSubcategory = "sub:"
	cbCalendar    = "cal:"
	cbDate        = "date:"
	cbSlot        = "slot:"
	cbNext        = "next"
	cbBack        = "back"
	cbServices    = "services"
	cbNoop        = "noop"
)

const calendarMonthLayout = "2006-01"

func noopButton(text string) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(text, cbNoop)
}

func navRow(withBack bool) []tgbotapi.InlineKeyboardButton {
	row := make([]tgbotapi.InlineKeyboardButton, 0, 2)
	if withBack {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", cbBack))
	}
	return append(row, tgbotapi.NewInlineKeyboardButtonData("Next ➡️", cbNext))
}

// servicesKeyboard lists one service per row.
func servicesKeyboard(services []models.Service) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(services))
	for _, svc := range services {
		label := svc.Name
		if svc.PriceRangeLabel != "" {
			label = fmt.Sprintf("%s · %s", svc.Name, svc.PriceRangeLabel)
		}
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(label, cbService+svc.ID),
		})
	}
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// subcategoriesKeyboard lists the service's offerings with their totals and
// marks the selected one.
func subcategoriesKeyboard(svc models.Service, selectedID string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(svc.Subcategories)+1)
	for _, sub := range svc.Subcategories {
		label := fmt.Sprintf("%s · %s", sub.Name, pricing.FormatPrice(pricing.ComputeTotal(sub)))
		if sub.ID == selectedID {
			label = "✅ " + label
		}
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(label, cbSubcategory+sub.ID),
		})
	}
	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("⬅️ Services", cbServices),
		tgbotapi.NewInlineKeyboardButtonData("Next ➡️", cbNext),
	})
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// calendarKeyboard renders a month grid, Sunday first. Past days are shown
// but not selectable.
func calendarKeyboard(grid calendar.Grid) tgbotapi.InlineKeyboardMarkup {
	prev := fmt.Sprintf("%04d-%02d", grid.PreviousMonth.Year, int(grid.PreviousMonth.Month))
	next := fmt.Sprintf("%04d-%02d", grid.FollowingMonth.Year, int(grid.FollowingMonth.Month))

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, 9)
	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("‹", cbCalendar+prev),
		noopButton(grid.Title),
		tgbotapi.NewInlineKeyboardButtonData("›", cbCalendar+next),
	})

	header := make([]tgbotapi.InlineKeyboardButton, 0, 7)
	for _, h := range grid.Headers {
		header = append(header, noopButton(h[:2]))
	}
	rows = append(rows, header)

	row := make([]tgbotapi.InlineKeyboardButton, 0, 7)
	for i := 0; i < grid.LeadingBlanks; i++ {
		row = append(row, noopButton(" "))
	}
	for _, day := range grid.Days {
		label := strconv.Itoa(day.Day)
		data := cbDate + day.Date
		switch {
		case day.IsPast:
			label, data = "·", cbNoop
		case day.IsSelected:
			label = "✅"
		case day.IsToday:
			label = "•" + label
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, data))
		if len(row) == 7 {
			rows = append(rows, row)
			row = make([]tgbotapi.InlineKeyboardButton, 0, 7)
		}
	}
	if len(row) > 0 {
		for len(row) < 7 {
			row = append(row, noopButton(" "))
		}
		rows = append(rows, row)
	}

	rows = append(rows, navRow(true))
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// slotsKeyboard lays slots out two per row. Callback data carries the slot
// index since labels contain spaces.
func slotsKeyboard(slots []string, selected string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(slots)/2+2)
	row := make([]tgbotapi.InlineKeyboardButton, 0, 2)
	for i, slot := range slots {
		label := slot
		if slot == selected {
			label = "✅ " + slot
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, cbSlot+strconv.Itoa(i)))
		if len(row) == 2 {
			rows = append(rows, row)
			row = make([]tgbotapi.InlineKeyboardButton, 0, 2)
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, navRow(true))
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}
