package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/mwalimu/tutorhub/core"
	"github.com/mwalimu/tutorhub/core/subscriber"
)

func Test_subscriberApi(t *testing.T) {
	email := "news.fan@example.test"
	body := []byte(`{"email":"` + email + `"}`)

	subscribe := func(t *testing.T) subscriber.Subscriber {
		req, rec := newRequest(http.MethodPost, "/api/subscribe-emails", body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		var sub subscriber.Subscriber
		env := decodeEnvelope(t, rec)
		if err := json.Unmarshal(env.Data, &sub); err != nil {
			t.Fatalf("unmarshalling data: %v", err)
		}
		return sub
	}

	t.Run("first subscribe", func(t *testing.T) {
		sub := subscribe(t)
		if sub.Status != subscriber.StatusActive {
			t.Errorf("failed! status = %q; want %q", sub.Status, subscriber.StatusActive)
		}
	})

	t.Run("subscribing twice is refused", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/subscribe-emails", body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"success":false,"error":{"email":"This email is already subscribed"}}`),
		}, rec)
	})

	t.Run("unsubscribe", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/subscribe-emails/unsubscribe", body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK,
			wantData: []byte(`{"success":true,"message":"You have been unsubscribed."}`),
		}, rec)

		sub, err := newsRepo.GetSubscriberByEmail(context.Background(), email)
		if err != nil {
			t.Fatalf("GetSubscriberByEmail() failed: %v", err)
		}
		if sub.Active() || !sub.UnsubscribedAt.Valid {
			t.Errorf("failed! subscriber = %+v; want unsubscribed with a timestamp", sub)
		}
	})

	t.Run("resubscribe flips the same row back", func(t *testing.T) {
		sub := subscribe(t)
		if sub.Status != subscriber.StatusActive || sub.UnsubscribedAt.Valid {
			t.Errorf("failed! subscriber = %+v; want active with unsubscribedAt cleared", sub)
		}

		_, total, err := newsRepo.QuerySubscribers(context.Background(), &subscriber.QueryFilter{Search: email}, nil, core.PageQuery{Page: 1, Limit: 10})
		if err != nil {
			t.Fatalf("QuerySubscribers() failed: %v", err)
		}
		if total != 1 {
			t.Errorf("failed! total = %v; want exactly one row for %s", total, email)
		}
	})
}
