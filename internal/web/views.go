package web

import (
	"time"

	"github.com/nicetransit/operator-signup/pkg/core/model"
	"github.com/nicetransit/operator-signup/pkg/core/window"
)

// Steps name the screen a session is on.
const (
	StepCategories = "categories"
	StepDates      = "dates"
	StepForm       = "form"
	StepSuccess    = "success"
)

// shiftOptions are the choices on the AM/PM radio for spare and extra work.
var shiftOptions = []string{"AM", "PM", "Either"}

// StateView is the whole flow state rendered for the tablet. Exactly one of
// the step payloads is set, matching Step.
type StateView struct {
	Step       string         `json:"step"`
	Categories []CategoryTile `json:"categories,omitempty"`
	Dates      []DateButton   `json:"dates,omitempty"`
	Form       *FormView      `json:"form,omitempty"`
	Success    *SuccessView   `json:"success,omitempty"`
}

// CategoryTile is one clipboard choice on the home screen.
type CategoryTile struct {
	Value model.Category `json:"value"`
	Title string         `json:"title"`
}

// DateButton is one open date on the date picker.
type DateButton struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// TableView is the current partition's signups shaped for display.
type TableView struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// FormView is everything the signup form screen needs: the heading, the
// operator picker entries, the category's field set and the signups so far.
type FormView struct {
	Category      model.Category `json:"category"`
	CategoryTitle string         `json:"categoryTitle"`
	Date          string         `json:"date"`
	DateLabel     string         `json:"dateLabel"`
	Fields        []string       `json:"fields"`
	ShiftOptions  []string       `json:"shiftOptions,omitempty"`
	Operators     []string       `json:"operators"`
	Signups       TableView      `json:"signups"`
}

// SuccessView is the confirmation screen, with the countdown the tablet
// shows before the flow returns home by itself.
type SuccessView struct {
	OperatorName   string `json:"operatorName"`
	CategoryLabel  string `json:"categoryLabel"`
	DateLabel      string `json:"dateLabel"`
	ResetInSeconds int    `json:"resetInSeconds"`
}

// CategoryTiles lists the clipboard choices in presentation order.
func CategoryTiles() []CategoryTile {
	categories := model.Categories()
	tiles := make([]CategoryTile, 0, len(categories))
	for _, c := range categories {
		tiles = append(tiles, CategoryTile{Value: c, Title: c.Title()})
	}
	return tiles
}

// DateButtons labels the dates open at now, blackouts removed.
func DateButtons(now time.Time, days int, blackouts *window.Blackouts) []DateButton {
	open := blackouts.Filter(window.OpenDates(now, days))
	buttons := make([]DateButton, 0, len(open))
	for _, d := range open {
		buttons = append(buttons, DateButton{
			Value: window.Key(d),
			Label: window.DisplayLabel(now, d),
		})
	}
	return buttons
}

// formShiftOptions returns the radio choices for categories that ask for a
// shift preference and nil for the rest.
func formShiftOptions(c model.Category) []string {
	if c == model.CategorySpareWork || c == model.CategoryExtraWork {
		return shiftOptions
	}
	return nil
}
