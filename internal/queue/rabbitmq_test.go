package queue

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestPublishTarget(t *testing.T) {
	t.Parallel()

	future := time.Now().Add(30 * time.Second)
	past := time.Now().Add(-time.Second)

	tests := []struct {
		name             string
		delayedAvailable bool
		notBefore        *time.Time
		wantExchange     string
		wantDelayHeader  bool
	}{
		{"debounced with plugin", true, &future, DefaultDelayedExchangeName, true},
		{"debounced without plugin", false, &future, DefaultExchangeName, false},
		{"immediate with plugin", true, nil, DefaultExchangeName, false},
		{"not-before already passed", true, &past, DefaultExchangeName, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			q := &RabbitMQQueue{
				exchangeName:        DefaultExchangeName,
				delayedExchangeName: DefaultDelayedExchangeName,
				delayedAvailable:    tt.delayedAvailable,
			}
			job := &Job{ID: uuid.New(), Type: JobTypeSEORescore, NotBefore: tt.notBefore}

			exchange, headers := q.publishTarget(job)
			if exchange != tt.wantExchange {
				t.Errorf("exchange = %q, want %q", exchange, tt.wantExchange)
			}
			if tt.wantDelayHeader {
				if headers == nil {
					t.Fatal("expected x-delay header, got none")
				}
				delay, ok := headers["x-delay"].(int)
				if !ok || delay <= 0 {
					t.Errorf("x-delay = %v, want positive int", headers["x-delay"])
				}
			} else if headers != nil {
				t.Errorf("headers = %v, want none", headers)
			}
		})
	}
}
