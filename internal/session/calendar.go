package session

import "github.com/timeblock/timeblock/internal/model"

// Event is one rendered calendar entry. Events are a pure projection of
// the task list plus category color lookups; the calendar never owns task
// data.
type Event struct {
	ID        string
	Title     string
	Start     string // YYYY-MM-DDTHH:MM
	End       string
	Color     string
	TextColor string
	Secondary []Marker
}

// Marker is a secondary-category dot rendered on an event. Markers ride
// on the event value so the renderer can draw them in the same pass as the
// event itself.
type Marker struct {
	Name  string
	Color string
}

// Calendar is the rendering capability the session drives. The widget is
// an event renderer and input source only.
type Calendar interface {
	ReplaceEvents(events []Event)
}

// BuildEvents projects tasks onto calendar events. Tasks whose category
// reference dangles render with the default color pair; unknown secondary
// references are skipped.
func BuildEvents(tasks []model.Task, categories []model.Category) []Event {
	byID := make(map[string]model.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	events := make([]Event, 0, len(tasks))
	for _, t := range tasks {
		color, textColor := model.DefaultColor, model.DefaultTextColor
		if c, ok := byID[t.Category]; ok {
			color, textColor = c.Color, c.TextColor
		}

		var markers []Marker
		for _, id := range t.SecondaryCategories {
			if c, ok := byID[id]; ok {
				markers = append(markers, Marker{Name: c.Name, Color: c.Color})
			}
		}

		events = append(events, Event{
			ID:        t.ID,
			Title:     t.Title,
			Start:     t.StartDate + "T" + t.StartTime,
			End:       t.EndDate + "T" + t.EndTime,
			Color:     color,
			TextColor: textColor,
			Secondary: markers,
		})
	}
	return events
}
