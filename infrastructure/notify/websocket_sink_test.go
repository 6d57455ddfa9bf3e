package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	apigwTypes "github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"medremind-backend/application/ports"
)

// connectionTable is an in-memory ports.ConnectionRepository
type connectionTable struct {
	conns map[string]ports.Connection
}

func newConnectionTable(emails ...string) *connectionTable {
	t := &connectionTable{conns: make(map[string]ports.Connection)}
	for i, email := range emails {
		id := string(rune('a'+i)) + "-conn"
		t.conns[id] = ports.Connection{
			ConnectionID: id,
			Email:        email,
			ConnectedAt:  time.Now(),
		}
	}
	return t
}

func (t *connectionTable) Save(_ context.Context, conn ports.Connection) error {
	t.conns[conn.ConnectionID] = conn
	return nil
}

func (t *connectionTable) Delete(_ context.Context, connectionID string) error {
	delete(t.conns, connectionID)
	return nil
}

func (t *connectionTable) ListByRecipient(_ context.Context, email string) ([]ports.Connection, error) {
	out := make([]ports.Connection, 0)
	for _, c := range t.conns {
		if c.Email == email {
			out = append(out, c)
		}
	}
	return out, nil
}

// posterFunc adapts a function to the management API surface the sink uses
type posterFunc func(connectionID string) error

func (f posterFunc) PostToConnection(_ context.Context, in *apigatewaymanagementapi.PostToConnectionInput, _ ...func(*apigatewaymanagementapi.Options)) (*apigatewaymanagementapi.PostToConnectionOutput, error) {
	if err := f(aws.ToString(in.ConnectionId)); err != nil {
		return nil, err
	}
	return &apigatewaymanagementapi.PostToConnectionOutput{}, nil
}

func newTestSink(poster posterFunc, table *connectionTable) *WebSocketSink {
	return &WebSocketSink{
		apiClient:   poster,
		connections: table,
		logger:      zap.NewNop(),
	}
}

func reminder() ports.Notification {
	return ports.Notification{
		ID:        "notif-1",
		Title:     "Time to take your medication",
		Body:      "Metformin, 500mg",
		Recipient: "alice@example.com",
	}
}

func TestEmitDeliversToLiveConnections(t *testing.T) {
	table := newConnectionTable("alice@example.com", "alice@example.com")
	var posted []string
	sink := newTestSink(func(id string) error {
		posted = append(posted, id)
		return nil
	}, table)

	require.NoError(t, sink.Emit(context.Background(), reminder()))
	assert.Len(t, posted, 2)
}

func TestEmitWithNoConnectionsIsNotAnError(t *testing.T) {
	sink := newTestSink(func(string) error {
		t.Fatal("nothing should be posted")
		return nil
	}, newConnectionTable())

	require.NoError(t, sink.Emit(context.Background(), reminder()))
}

func TestEmitPrunesGoneConnections(t *testing.T) {
	table := newConnectionTable("alice@example.com", "alice@example.com")
	gone := map[string]bool{"a-conn": true}
	sink := newTestSink(func(id string) error {
		if gone[id] {
			return &apigwTypes.GoneException{Message: aws.String("connection gone")}
		}
		return nil
	}, table)

	require.NoError(t, sink.Emit(context.Background(), reminder()))

	_, stillThere := table.conns["a-conn"]
	assert.False(t, stillThere)
	_, kept := table.conns["b-conn"]
	assert.True(t, kept)
}

func TestEmitAllConnectionsGone(t *testing.T) {
	table := newConnectionTable("alice@example.com", "alice@example.com")
	sink := newTestSink(func(string) error {
		return &apigwTypes.GoneException{Message: aws.String("connection gone")}
	}, table)

	// Every socket stale means the recipient is offline, which is the
	// same non-error as holding no connections at all
	require.NoError(t, sink.Emit(context.Background(), reminder()))
	assert.Empty(t, table.conns)
}

func TestEmitFailsWhenNothingDelivered(t *testing.T) {
	table := newConnectionTable("alice@example.com", "alice@example.com")
	sink := newTestSink(func(string) error {
		return errors.New("throttled")
	}, table)

	assert.Error(t, sink.Emit(context.Background(), reminder()))
}

func TestEmitPartialDeliveryCounts(t *testing.T) {
	table := newConnectionTable("alice@example.com", "alice@example.com")
	broken := map[string]bool{"a-conn": true}
	sink := newTestSink(func(id string) error {
		if broken[id] {
			return errors.New("throttled")
		}
		return nil
	}, table)

	require.NoError(t, sink.Emit(context.Background(), reminder()))
}

func TestEmitOneGoneOneBroken(t *testing.T) {
	table := newConnectionTable("alice@example.com", "alice@example.com")
	sink := newTestSink(func(id string) error {
		if id == "a-conn" {
			return &apigwTypes.GoneException{Message: aws.String("connection gone")}
		}
		return errors.New("throttled")
	}, table)

	// The only real attempt failed, so the emit failed
	assert.Error(t, sink.Emit(context.Background(), reminder()))
}
