package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// runScenario registers three travellers, fills a two-seat trip, exchanges messages and
// checks that the third traveller is refused both the seat and the chat. It returns a
// human-readable report, which is partial when err is non-nil.
func runScenario(ctx context.Context, c *client) ([]string, error) {
	var report []string
	logf := func(format string, args ...any) {
		report = append(report, fmt.Sprintf(format, args...))
	}

	suffix := time.Now().UTC().Format("20060102150405.000")
	names := []string{"Asha", "Bilal", "Chen"}
	tokens := make(map[string]string, len(names))
	for _, n := range names {
		email := fmt.Sprintf("%s+%s@example.com", n, suffix)
		sess, err := c.register(ctx, email, "travel-safe", n)
		if err != nil {
			return report, fmt.Errorf("register %s: %w", n, err)
		}
		tokens[n] = sess.Token
		logf("registered %s (%s)", n, sess.User.ID)
	}

	trip, err := c.createTrip(ctx, tokens["Asha"], map[string]any{
		"title":            "Goa Beaches",
		"destination":      "Goa",
		"max_participants": 2,
	})
	if err != nil {
		return report, fmt.Errorf("create trip: %w", err)
	}
	logf("created trip %s", trip.TripID)

	if err := c.joinTrip(ctx, tokens["Bilal"], trip.TripID); err != nil {
		return report, fmt.Errorf("bilal join: %w", err)
	}
	logf("Bilal joined")

	if err := expectCode(c.joinTrip(ctx, tokens["Chen"], trip.TripID), http.StatusConflict, "TRIP_FULL"); err != nil {
		return report, fmt.Errorf("chen join: %w", err)
	}
	logf("Chen refused: trip full")

	for _, m := range []struct{ who, text string }{{"Asha", "Packing list?"}, {"Bilal", "Sunscreen."}} {
		if err := c.sendMessage(ctx, tokens[m.who], trip.TripID, m.text); err != nil {
			return report, fmt.Errorf("%s send: %w", m.who, err)
		}
	}

	_, err = c.listMessages(ctx, tokens["Chen"], trip.TripID)
	if err := expectCode(err, http.StatusForbidden, "NOT_TRIP_PARTICIPANT"); err != nil {
		return report, fmt.Errorf("chen read: %w", err)
	}
	logf("Chen refused: chat is participants-only")

	msgs, err := c.listMessages(ctx, tokens["Bilal"], trip.TripID)
	if err != nil {
		return report, fmt.Errorf("bilal read: %w", err)
	}
	for _, m := range msgs {
		logf("  [%s] %s: %s", m.Timestamp.Format(time.RFC3339), m.SenderName, m.Content)
	}
	if len(msgs) != 2 {
		return report, fmt.Errorf("expected 2 messages, got %d", len(msgs))
	}
	logf("scenario ok")
	return report, nil
}

func expectCode(err error, status int, code string) error {
	if err == nil {
		return fmt.Errorf("expected %d %s, request succeeded", status, code)
	}
	var ae *apiError
	if !errors.As(err, &ae) {
		return err
	}
	if ae.Status != status || ae.Code != code {
		return fmt.Errorf("expected %d %s, got %w", status, code, ae)
	}
	return nil
}
