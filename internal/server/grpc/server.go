// Package grpc exposes the catalog services over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/lubecatalog/internal/catalog"
	"github.com/dmitrijs2005/lubecatalog/internal/logging"
	pb "github.com/dmitrijs2005/lubecatalog/internal/proto"
	"github.com/dmitrijs2005/lubecatalog/internal/server/services"
	"google.golang.org/grpc"
)

type userService interface {
	Login(ctx context.Context, userName string, password []byte) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
}

type productService interface {
	Get(ctx context.Context, id string) (*catalog.Product, error)
	Create(ctx context.Context, patch catalog.Patch) (*catalog.Product, error)
	Update(ctx context.Context, id string, patch catalog.Patch) (*catalog.Product, error)
	ReplaceSubcollection(ctx context.Context, id string, kind catalog.Kind, items []string) error
}

type mediaService interface {
	PresignUpload(ctx context.Context, u services.MediaUpload) (*services.UploadTicket, error)
	CompleteUpload(ctx context.Context, mediaID string) (*catalog.Media, error)
}

type GRPCServer struct {
	pb.UnimplementedCatalogServiceServer
	address   string
	users     userService
	products  productService
	media     mediaService
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(a string, l logging.Logger, us userService, ps productService, ms mediaService, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		products:  ps,
		media:     ms,
		jwtSecret: []byte(secretKey),
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis and stops gracefully when ctx is done.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	pb.RegisterCatalogServiceServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	return nil
}
