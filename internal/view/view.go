// Package view projects the history into display items.
package view

import (
	"fmt"
	"time"

	"github.com/vadimbarashkov/shortlink/internal/entity"
)

// Item is one rendered history row.
type Item struct {
	OriginalURL string
	ShortURL    string
	ShortCode   string
	ClickCount  int64
	CreatedAt   string
	Age         string
}

// Project maps results to items in stored order.
func Project(results []entity.ShortenResult, now time.Time) []Item {
	items := make([]Item, 0, len(results))

	for _, r := range results {
		items = append(items, Item{
			OriginalURL: r.OriginalURL,
			ShortURL:    r.ShortURL,
			ShortCode:   r.ShortCode,
			ClickCount:  r.ClickCount,
			CreatedAt:   r.CreatedAt,
			Age:         age(r, now),
		})
	}

	return items
}

func age(r entity.ShortenResult, now time.Time) string {
	t, err := r.CreatedTime()
	if err != nil {
		return r.CreatedAt
	}
	return RelativeTime(t, now)
}

// RelativeTime describes how long before now t was. Ages past a day are
// always expressed in days.
func RelativeTime(t, now time.Time) string {
	d := now.Sub(t)

	switch {
	case d < time.Minute:
		return "Just now"
	case d < time.Hour:
		return plural(int(d/time.Minute), "minute")
	case d < 24*time.Hour:
		return plural(int(d/time.Hour), "hour")
	default:
		return plural(int(d/(24*time.Hour)), "day")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
