package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryDeliversInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewInMemory(4)
	require.NoError(t, q.Publish(ctx, Message{Type: "import", Body: []byte("a")}))
	require.NoError(t, q.Publish(ctx, Message{Type: "import", Body: []byte("b")}))

	msgs, err := q.Consume(ctx)
	require.NoError(t, err)
	for _, want := range []string{"a", "b"} {
		select {
		case m := <-msgs:
			assert.Equal(t, "import", m.Type)
			assert.Equal(t, want, string(m.Body))
		case <-time.After(time.Second):
			t.Fatal("message not delivered")
		}
	}

	cancel()
	select {
	case _, ok := <-msgs:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("consumer channel not closed")
	}
}

func TestInMemoryPublishHonoursContext(t *testing.T) {
	q := NewInMemory(1)
	require.NoError(t, q.Publish(context.Background(), Message{Type: "x"}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, q.Publish(ctx, Message{Type: "y"}), context.DeadlineExceeded)
}

func TestEncodeDecode(t *testing.T) {
	m := decode(encode(Message{Type: "import", Body: []byte(`{"session_id":"a|b"}`)}))
	assert.Equal(t, "import", m.Type)
	assert.Equal(t, `{"session_id":"a|b"}`, string(m.Body))

	assert.Equal(t, Message{Body: []byte("plain")}, decode("plain"))
}
