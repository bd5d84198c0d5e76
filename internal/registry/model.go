package registry

import "github.com/google/uuid"

// App is a named shell command with display metadata.
type App struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Command     string    `json:"command"`
	URL         string    `json:"url"`
}

// Fields holds the mutable part of an App.
type Fields struct {
	Name        string
	Description *string
	Command     string
	URL         string
}

func (a App) clone() App {
	a.Description = cloneString(a.Description)
	return a
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
