package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/lubecatalog/internal/catalog"
	"github.com/dmitrijs2005/lubecatalog/internal/common"
	"github.com/dmitrijs2005/lubecatalog/internal/logging"
	pb "github.com/dmitrijs2005/lubecatalog/internal/proto"
	"github.com/dmitrijs2005/lubecatalog/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func startBufconn(t *testing.T, s *GRPCServer) pb.CatalogServiceClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		conn.Close()
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("server did not stop")
		}
	})
	return pb.NewCatalogServiceClient(conn)
}

func TestServer_RoundTrip(t *testing.T) {
	p := &fakeProducts{product: sampleProduct()}
	c := startBufconn(t, newTestServer(&fakeUsers{}, p, &fakeMedia{}))

	resp, err := c.Ping(context.Background(), &emptypb.Empty{})
	require.NoError(t, err)
	assert.Equal(t, "OK", resp.GetValue())

	_, err = c.GetProduct(context.Background(), wrapperspb.String("p-1"))
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	token, err := auth.GenerateToken("u-1", []byte(testSecret), time.Hour)
	require.NoError(t, err)
	ctx := metadata.AppendToOutgoingContext(context.Background(), common.AccessTokenHeaderName, token)

	out, err := c.GetProduct(ctx, wrapperspb.String("p-1"))
	require.NoError(t, err)
	got, err := pb.DecodeProduct(out)
	require.NoError(t, err)
	assert.Equal(t, "Oil X", got.Fields.String(catalog.FieldName))
	assert.Equal(t, "p-1", p.gotID)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	s := newTestServer(&fakeUsers{}, &fakeProducts{}, &fakeMedia{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	s := NewGRPCServer("127.0.0.1:99999", logging.Discard(), &fakeUsers{}, &fakeProducts{}, &fakeMedia{}, testSecret)

	err := s.Run(context.Background())
	require.Error(t, err)
}
