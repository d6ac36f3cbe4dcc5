package service

import (
	"io"
	"log/slog"
	"time"

	"github.com/abhms/alter/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testAlias(alias, owner, topic string) *model.Alias {
	return &model.Alias{
		ID:          "id-" + alias,
		OwnerID:     owner,
		TargetURL:   "https://example.com/" + alias,
		ShortURL:    model.ShortURLFor("http://sho.rt", alias),
		CustomAlias: alias,
		Topic:       topic,
		CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func testClick(shortURL, viewer, ua string, at time.Time) model.ClickRecord {
	return model.ClickRecord{
		ID:        "c-" + at.Format(time.RFC3339Nano),
		ViewerID:  viewer,
		ShortURL:  shortURL,
		UserAgent: ua,
		IPAddress: "203.0.113.1",
		Timestamp: at,
		Location:  model.UnknownLocationValue(),
	}
}

// fixedResolver returns the same location for every address.
type fixedResolver struct {
	loc model.Location
}

func (f fixedResolver) Lookup(string) model.Location { return f.loc }
