package consumer

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"testing"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/parshwa-io/adminconsole-backend/pkg/logger"
)

type stubImageRefRepo struct {
	removed  []string
	affected int64
	err      error
}

func (s *stubImageRefRepo) RemoveImageRef(ctx context.Context, url string) (int64, error) {
	s.removed = append(s.removed, url)
	return s.affected, s.err
}

type stubURLBuilder struct{}

func (stubURLBuilder) ObjectURL(object string) string {
	return "https://storage.googleapis.com/console-products/" + object
}

func encodePayload(payload gcsPayload) []byte {
	data, _ := json.Marshal(payload)
	return []byte(base64.StdEncoding.EncodeToString(data))
}

func buildMessage(name string) *pubsub.Message {
	return &pubsub.Message{
		Attributes: map[string]string{
			"eventType":     objectDeleteEvent,
			"payloadFormat": payloadFormatJSONAPI,
		},
		Data: encodePayload(gcsPayload{Name: name, Bucket: "console-products"}),
	}
}

func testConsumer(t *testing.T, repo *stubImageRefRepo) *DeletionConsumer {
	t.Helper()
	return &DeletionConsumer{
		repo: repo,
		urls: stubURLBuilder{},
		logg: logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	}
}

func TestDeletionConsumerPrunesReferences(t *testing.T) {
	t.Parallel()

	repo := &stubImageRefRepo{affected: 1}
	consumer := testConsumer(t, repo)

	result := consumer.process(context.Background(), buildMessage("products/obj1-a.png"))
	if !result.ack || result.nack {
		t.Fatalf("expected ack, got %+v", result)
	}
	if len(repo.removed) != 1 {
		t.Fatalf("expected one prune call, got %v", repo.removed)
	}
	if repo.removed[0] != "https://storage.googleapis.com/console-products/products/obj1-a.png" {
		t.Fatalf("unexpected pruned url: %s", repo.removed[0])
	}
}

func TestDeletionConsumerSkipsOtherEvents(t *testing.T) {
	t.Parallel()

	repo := &stubImageRefRepo{}
	consumer := testConsumer(t, repo)

	msg := buildMessage("products/a.png")
	msg.Attributes["eventType"] = "OBJECT_FINALIZE"

	result := consumer.process(context.Background(), msg)
	if !result.ack {
		t.Fatal("expected ack")
	}
	if len(repo.removed) != 0 {
		t.Fatal("non-delete event should not prune")
	}
}

func TestDeletionConsumerAcksMalformedPayload(t *testing.T) {
	t.Parallel()

	repo := &stubImageRefRepo{}
	consumer := testConsumer(t, repo)

	msg := buildMessage("products/a.png")
	msg.Data = []byte("not json at all {{")

	result := consumer.process(context.Background(), msg)
	if !result.ack {
		t.Fatal("malformed payload should ack, not redeliver")
	}
	if len(repo.removed) != 0 {
		t.Fatal("malformed payload should not prune")
	}
}

func TestDeletionConsumerNacksTransientDBError(t *testing.T) {
	t.Parallel()

	repo := &stubImageRefRepo{err: context.DeadlineExceeded}
	consumer := testConsumer(t, repo)

	result := consumer.process(context.Background(), buildMessage("products/a.png"))
	if !result.nack {
		t.Fatal("transient db error should nack for redelivery")
	}
}
