package session

import (
	"context"
	"errors"
	"net/url"

	"astrobook/models"

	"github.com/google/uuid"
)

// RoomLinks hands out a fresh video room URL per accepted online consultation.
type RoomLinks struct {
	BaseURL string
}

func (r RoomLinks) CreateLink(_ context.Context, item models.BookingItem) (string, error) {
	if r.BaseURL == "" {
		return "", errors.New("session link base URL is not configured")
	}
	u, err := url.Parse(r.BaseURL)
	if err != nil {
		return "", err
	}
	u = u.JoinPath(uuid.NewString())
	q := u.Query()
	q.Set("booking", item.ID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
