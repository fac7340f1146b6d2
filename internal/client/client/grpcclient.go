package client

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/dmitrijs2005/lubecatalog/internal/catalog"
	"github.com/dmitrijs2005/lubecatalog/internal/common"
	"github.com/dmitrijs2005/lubecatalog/internal/netx"
	pb "github.com/dmitrijs2005/lubecatalog/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.CatalogServiceClient
	httpClient  *http.Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string

	// refreshMu serialises token refreshes; the server accepts each refresh
	// token once.
	refreshMu sync.Mutex
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

func (s *GRPCClient) setTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = access
	s.refreshToken = refresh
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	access, refresh := s.tokens()
	err := invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)

	if err != nil {

		st, ok := status.FromError(err)
		if !ok {
			return err
		}

		if st.Code() != codes.Unauthenticated {
			return err
		}
		if st.Message() != common.ErrTokenExpired.Error() {
			return err
		}

		if refresh == "" {
			return err
		}

		access, err = s.refreshTokens(ctx, access)
		if err != nil {
			return err
		}

		return invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)
	}

	return nil
}

// refreshTokens exchanges the refresh token for a new pair unless another
// call already did so after stale was rejected. It returns the access token
// to retry with.
func (s *GRPCClient) refreshTokens(ctx context.Context, stale string) (string, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	access, refresh := s.tokens()
	if access != stale {
		return access, nil
	}
	if refresh == "" {
		return "", status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	}

	resp, err := s.client.RefreshToken(ctx, wrapperspb.String(refresh))
	if err != nil {
		return "", err
	}
	access, refresh, err = pb.DecodeTokens(resp)
	if err != nil {
		return "", err
	}
	s.setTokens(access, refresh)
	return access, nil
}

func NewCatalogClient(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, httpClient: http.DefaultClient}
	err := c.InitGRPCClient()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {

	conn, err := grpc.NewClient(s.endpointURL, grpc.WithTransportCredentials(insecure.NewCredentials()), grpc.WithUnaryInterceptor(s.accessTokenInterceptor))
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewCatalogServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) Login(ctx context.Context, userName string, password []byte) error {

	resp, err := s.client.Login(ctx, pb.NewLoginRequest(userName, string(password)))
	if err != nil {
		return s.mapError(err)
	}

	access, refresh, err := pb.DecodeTokens(resp)
	if err != nil {
		return err
	}
	s.setTokens(access, refresh)

	return nil
}

func (s *GRPCClient) Ping(ctx context.Context) error {

	resp, err := s.client.Ping(ctx, &emptypb.Empty{})
	if err != nil {
		return s.mapError(err)
	}

	if resp.GetValue() != "OK" {
		return ErrUnavailable
	}

	return nil
}

func (s *GRPCClient) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {

	resp, err := s.client.GetProduct(ctx, wrapperspb.String(id))
	if err != nil {
		return nil, s.mapError(err)
	}

	return pb.DecodeProduct(resp)
}

func (s *GRPCClient) CreateProduct(ctx context.Context, patch catalog.Patch) (*catalog.Product, error) {

	req, err := pb.EncodePatch(patch)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	resp, err := s.client.CreateProduct(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}

	return pb.DecodeProduct(resp)
}

func (s *GRPCClient) UpdateProduct(ctx context.Context, id string, patch catalog.Patch) (*catalog.Product, error) {

	req, err := pb.NewUpdateRequest(id, patch)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	resp, err := s.client.UpdateProduct(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}

	return pb.DecodeProduct(resp)
}

func (s *GRPCClient) ReplaceSubcollection(ctx context.Context, id string, kind catalog.Kind, items []string) error {

	_, err := s.client.ReplaceSubcollection(ctx, pb.NewReplaceRequest(id, kind, items))
	if err != nil {
		return s.mapError(err)
	}

	return nil
}

// UploadMedia presigns an upload for product id, PUTs data to the returned
// URL and confirms it. Every failure wraps ErrUpload.
func (s *GRPCClient) UploadMedia(ctx context.Context, id string, kind catalog.MediaKind, name, contentType string, data []byte) (*catalog.Media, error) {

	req := pb.NewPresignRequest(pb.PresignRequest{
		ProductID:   id,
		Kind:        kind,
		FileName:    name,
		ContentType: contentType,
		Size:        int64(len(data)),
	})

	resp, err := s.client.PresignMediaUpload(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: presign: %w", ErrUpload, s.mapError(err))
	}
	presigned, err := pb.DecodePresignReply(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpload, err)
	}

	if err := netx.UploadToPresignedURL(ctx, s.httpClient, presigned.UploadURL, contentType, data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpload, err)
	}

	done, err := s.client.CompleteMediaUpload(ctx, wrapperspb.String(presigned.MediaID))
	if err != nil {
		return nil, fmt.Errorf("%w: complete: %w", ErrUpload, s.mapError(err))
	}

	m, err := pb.DecodeMedia(done)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpload, err)
	}
	return m, nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.NotFound:
		return ErrNotFound
	case codes.InvalidArgument, codes.AlreadyExists, codes.FailedPrecondition:
		return fmt.Errorf("%w: %s", ErrInvalidArgument, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
