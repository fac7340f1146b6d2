package grpc

import (
	"context"

	"github.com/dmitrijs2005/lubecatalog/internal/catalog"
	"github.com/dmitrijs2005/lubecatalog/internal/logging"
	"github.com/dmitrijs2005/lubecatalog/internal/server/services"
)

type fakeUsers struct {
	loginUser  string
	loginPass  string
	loginResp  *services.TokenPair
	loginErr   error
	refreshIn  string
	refreshOut *services.TokenPair
	refreshErr error
}

func (f *fakeUsers) Login(ctx context.Context, userName string, password []byte) (*services.TokenPair, error) {
	f.loginUser, f.loginPass = userName, string(password)
	return f.loginResp, f.loginErr
}

func (f *fakeUsers) RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
	f.refreshIn = refreshToken
	return f.refreshOut, f.refreshErr
}

type fakeProducts struct {
	product *catalog.Product
	err     error

	gotID    string
	gotPatch catalog.Patch
	gotKind  catalog.Kind
	gotItems []string
}

func (f *fakeProducts) Get(ctx context.Context, id string) (*catalog.Product, error) {
	f.gotID = id
	return f.product, f.err
}

func (f *fakeProducts) Create(ctx context.Context, patch catalog.Patch) (*catalog.Product, error) {
	f.gotPatch = patch
	return f.product, f.err
}

func (f *fakeProducts) Update(ctx context.Context, id string, patch catalog.Patch) (*catalog.Product, error) {
	f.gotID, f.gotPatch = id, patch
	return f.product, f.err
}

func (f *fakeProducts) ReplaceSubcollection(ctx context.Context, id string, kind catalog.Kind, items []string) error {
	f.gotID, f.gotKind, f.gotItems = id, kind, items
	return f.err
}

type fakeMedia struct {
	gotUpload services.MediaUpload
	ticket    *services.UploadTicket
	media     *catalog.Media
	err       error
}

func (f *fakeMedia) PresignUpload(ctx context.Context, u services.MediaUpload) (*services.UploadTicket, error) {
	f.gotUpload = u
	return f.ticket, f.err
}

func (f *fakeMedia) CompleteUpload(ctx context.Context, mediaID string) (*catalog.Media, error) {
	return f.media, f.err
}

const testSecret = "secret"

func newTestServer(u *fakeUsers, p *fakeProducts, m *fakeMedia) *GRPCServer {
	return NewGRPCServer("127.0.0.1:0", logging.Discard(), u, p, m, testSecret)
}
