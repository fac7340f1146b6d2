package grpc

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/lubecatalog/internal/common"
	pb "github.com/dmitrijs2005/lubecatalog/internal/proto"
	"github.com/dmitrijs2005/lubecatalog/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// toStatus maps service errors onto gRPC codes. Unexpected errors are logged
// and reported as Internal without details.
func (s *GRPCServer) toStatus(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, pb.ErrMalformed), errors.Is(err, common.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, common.ErrAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, common.ErrRefreshTokenExpired):
		return status.Error(codes.Unauthenticated, common.ErrRefreshTokenExpired.Error())
	case errors.Is(err, common.ErrUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	}
	s.logger.Error(ctx, op+" failed", "error", err)
	return status.Error(codes.Internal, "internal error")
}

func requireID(v *wrapperspb.StringValue) (string, error) {
	id := strings.TrimSpace(v.GetValue())
	if id == "" {
		return "", status.Error(codes.InvalidArgument, "id required")
	}
	return id, nil
}

func (s *GRPCServer) Ping(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return wrapperspb.String("OK"), nil
}

func (s *GRPCServer) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userName, password, err := pb.DecodeLoginRequest(req)
	if err != nil {
		return nil, s.toStatus(ctx, "login", err)
	}

	tokens, err := s.users.Login(ctx, userName, []byte(password))
	if err != nil {
		return nil, s.toStatus(ctx, "login", err)
	}
	return pb.NewTokens(tokens.AccessToken, tokens.RefreshToken), nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	if req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "refresh token required")
	}

	tokens, err := s.users.RefreshToken(ctx, req.GetValue())
	if err != nil {
		return nil, s.toStatus(ctx, "refresh token", err)
	}
	return pb.NewTokens(tokens.AccessToken, tokens.RefreshToken), nil
}

func (s *GRPCServer) GetProduct(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	id, err := requireID(req)
	if err != nil {
		return nil, err
	}

	p, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, s.toStatus(ctx, "get product", err)
	}
	out, err := pb.EncodeProduct(p)
	if err != nil {
		return nil, s.toStatus(ctx, "encode product", err)
	}
	return out, nil
}

func (s *GRPCServer) CreateProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	patch, err := pb.DecodePatch(req)
	if err != nil {
		return nil, s.toStatus(ctx, "create product", err)
	}

	p, err := s.products.Create(ctx, patch)
	if err != nil {
		return nil, s.toStatus(ctx, "create product", err)
	}
	out, err := pb.EncodeProduct(p)
	if err != nil {
		return nil, s.toStatus(ctx, "encode product", err)
	}
	return out, nil
}

func (s *GRPCServer) UpdateProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, patch, err := pb.DecodeUpdateRequest(req)
	if err != nil {
		return nil, s.toStatus(ctx, "update product", err)
	}

	p, err := s.products.Update(ctx, id, patch)
	if err != nil {
		return nil, s.toStatus(ctx, "update product", err)
	}
	out, err := pb.EncodeProduct(p)
	if err != nil {
		return nil, s.toStatus(ctx, "encode product", err)
	}
	return out, nil
}

func (s *GRPCServer) ReplaceSubcollection(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	id, kind, items, err := pb.DecodeReplaceRequest(req)
	if err != nil {
		return nil, s.toStatus(ctx, "replace list", err)
	}

	if err := s.products.ReplaceSubcollection(ctx, id, kind, items); err != nil {
		return nil, s.toStatus(ctx, "replace list", err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) PresignMediaUpload(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r, err := pb.DecodePresignRequest(req)
	if err != nil {
		return nil, s.toStatus(ctx, "presign upload", err)
	}

	ticket, err := s.media.PresignUpload(ctx, services.MediaUpload{
		ProductID:   r.ProductID,
		Kind:        r.Kind,
		FileName:    r.FileName,
		ContentType: r.ContentType,
		Size:        r.Size,
	})
	if err != nil {
		return nil, s.toStatus(ctx, "presign upload", err)
	}

	userID, _ := UserIDFromContext(ctx)
	s.logger.Info(ctx, "upload requested", "user_id", userID, "media_id", ticket.MediaID)

	return pb.NewPresignReply(pb.PresignReply{
		MediaID:   ticket.MediaID,
		UploadURL: ticket.UploadURL,
		PublicURL: ticket.PublicURL,
	}), nil
}

func (s *GRPCServer) CompleteMediaUpload(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	id, err := requireID(req)
	if err != nil {
		return nil, err
	}

	m, err := s.media.CompleteUpload(ctx, id)
	if err != nil {
		return nil, s.toStatus(ctx, "complete upload", err)
	}
	return pb.NewMedia(m), nil
}
