package proto

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/lubecatalog/internal/catalog"
	structpb "google.golang.org/protobuf/types/known/structpb"
)

// ErrMalformed is returned when a message lacks a key or carries a value of
// the wrong type.
var ErrMalformed = errors.New("malformed message")

// Message keys.
const (
	KeyID           = "id"
	KeyFields       = "fields"
	KeyCreatedAt    = "createdAt"
	KeyUpdatedAt    = "updatedAt"
	KeyPatch        = "patch"
	KeyProductID    = "productId"
	KeyKind         = "kind"
	KeyItems        = "items"
	KeyUsername     = "username"
	KeyPassword     = "password"
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyFileName     = "fileName"
	KeyContentType  = "contentType"
	KeySize         = "size"
	KeyMediaID      = "mediaId"
	KeyUploadURL    = "uploadUrl"
	KeyPublicURL    = "publicUrl"
	KeyURL          = "url"
)

func EncodeFields(fields map[catalog.Field]any) (*structpb.Struct, error) {
	out := &structpb.Struct{Fields: make(map[string]*structpb.Value, len(fields))}
	for f, v := range fields {
		nv, err := catalog.NormalizeValue(f, v)
		if err != nil {
			return nil, err
		}

		switch x := nv.(type) {
		case string:
			out.Fields[string(f)] = structpb.NewStringValue(x)
		case bool:
			out.Fields[string(f)] = structpb.NewBoolValue(x)
		case *string:
			if x == nil {
				out.Fields[string(f)] = structpb.NewNullValue()
			} else {
				out.Fields[string(f)] = structpb.NewStringValue(*x)
			}
		}
	}
	return out, nil
}

func DecodeFields(s *structpb.Struct) (catalog.Fields, error) {
	out := make(catalog.Fields, len(s.GetFields()))
	for k, v := range s.GetFields() {
		var raw any
		switch x := v.GetKind().(type) {
		case *structpb.Value_StringValue:
			raw = x.StringValue
		case *structpb.Value_BoolValue:
			raw = x.BoolValue
		case *structpb.Value_NullValue:
			raw = nil
		default:
			return nil, fmt.Errorf("%w: field %q has unsupported type %T", ErrMalformed, k, x)
		}

		nv, err := catalog.NormalizeValue(catalog.Field(k), raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		out[catalog.Field(k)] = nv
	}
	return out, nil
}

// EncodePatch encodes a patch; NULL is kept as an explicit null value.
func EncodePatch(p catalog.Patch) (*structpb.Struct, error) {
	return EncodeFields(p)
}

func DecodePatch(s *structpb.Struct) (catalog.Patch, error) {
	f, err := DecodeFields(s)
	if err != nil {
		return nil, err
	}
	return catalog.Patch(f), nil
}

func EncodeProduct(p *catalog.Product) (*structpb.Struct, error) {
	fields, err := EncodeFields(p.Fields)
	if err != nil {
		return nil, err
	}

	out := &structpb.Struct{Fields: map[string]*structpb.Value{
		KeyID:     structpb.NewStringValue(p.ID),
		KeyFields: structpb.NewStructValue(fields),
	}}
	for _, k := range catalog.Kinds {
		out.Fields[string(k)] = stringList(p.Items(k))
	}
	if !p.CreatedAt.IsZero() {
		out.Fields[KeyCreatedAt] = structpb.NewStringValue(p.CreatedAt.UTC().Format(time.RFC3339Nano))
	}
	if !p.UpdatedAt.IsZero() {
		out.Fields[KeyUpdatedAt] = structpb.NewStringValue(p.UpdatedAt.UTC().Format(time.RFC3339Nano))
	}
	return out, nil
}

func DecodeProduct(s *structpb.Struct) (*catalog.Product, error) {
	id, err := String(s, KeyID)
	if err != nil {
		return nil, err
	}

	p := &catalog.Product{ID: id, Fields: catalog.Fields{}}

	if v, ok := s.GetFields()[KeyFields]; ok {
		fs := v.GetStructValue()
		if fs == nil {
			return nil, fmt.Errorf("%w: %q is not an object", ErrMalformed, KeyFields)
		}
		if p.Fields, err = DecodeFields(fs); err != nil {
			return nil, err
		}
	}

	for _, k := range catalog.Kinds {
		items, err := StringList(s, string(k))
		if err != nil {
			return nil, err
		}
		p.SetItems(k, items)
	}

	if p.CreatedAt, err = optTime(s, KeyCreatedAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = optTime(s, KeyUpdatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

func NewUpdateRequest(id string, patch catalog.Patch) (*structpb.Struct, error) {
	ps, err := EncodePatch(patch)
	if err != nil {
		return nil, err
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		KeyID:    structpb.NewStringValue(id),
		KeyPatch: structpb.NewStructValue(ps),
	}}, nil
}

func DecodeUpdateRequest(s *structpb.Struct) (string, catalog.Patch, error) {
	id, err := String(s, KeyID)
	if err != nil {
		return "", nil, err
	}
	ps := s.GetFields()[KeyPatch].GetStructValue()
	if ps == nil {
		return "", nil, fmt.Errorf("%w: missing %q", ErrMalformed, KeyPatch)
	}
	patch, err := DecodePatch(ps)
	if err != nil {
		return "", nil, err
	}
	return id, patch, nil
}

func NewReplaceRequest(id string, kind catalog.Kind, items []string) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		KeyProductID: structpb.NewStringValue(id),
		KeyKind:      structpb.NewStringValue(string(kind)),
		KeyItems:     stringList(items),
	}}
}

func DecodeReplaceRequest(s *structpb.Struct) (string, catalog.Kind, []string, error) {
	id, err := String(s, KeyProductID)
	if err != nil {
		return "", "", nil, err
	}
	k, err := String(s, KeyKind)
	if err != nil {
		return "", "", nil, err
	}
	kind := catalog.Kind(k)
	if !kind.Valid() {
		return "", "", nil, fmt.Errorf("%w: unknown kind %q", ErrMalformed, k)
	}
	items, err := StringList(s, KeyItems)
	if err != nil {
		return "", "", nil, err
	}
	return id, kind, items, nil
}

func NewLoginRequest(username, password string) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		KeyUsername: structpb.NewStringValue(username),
		KeyPassword: structpb.NewStringValue(password),
	}}
}

func DecodeLoginRequest(s *structpb.Struct) (username, password string, err error) {
	if username, err = String(s, KeyUsername); err != nil {
		return "", "", err
	}
	if password, err = String(s, KeyPassword); err != nil {
		return "", "", err
	}
	return username, password, nil
}

func NewTokens(access, refresh string) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		KeyAccessToken:  structpb.NewStringValue(access),
		KeyRefreshToken: structpb.NewStringValue(refresh),
	}}
}

func DecodeTokens(s *structpb.Struct) (access, refresh string, err error) {
	if access, err = String(s, KeyAccessToken); err != nil {
		return "", "", err
	}
	if refresh, err = String(s, KeyRefreshToken); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// PresignRequest asks for an upload URL for one media file.
type PresignRequest struct {
	ProductID   string
	Kind        catalog.MediaKind
	FileName    string
	ContentType string
	Size        int64
}

// PresignReply carries the presigned PUT URL and the URL the file will be
// served from once uploaded.
type PresignReply struct {
	MediaID   string
	UploadURL string
	PublicURL string
}

func NewPresignRequest(r PresignRequest) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		KeyProductID:   structpb.NewStringValue(r.ProductID),
		KeyKind:        structpb.NewStringValue(string(r.Kind)),
		KeyFileName:    structpb.NewStringValue(r.FileName),
		KeyContentType: structpb.NewStringValue(r.ContentType),
		KeySize:        structpb.NewNumberValue(float64(r.Size)),
	}}
}

func DecodePresignRequest(s *structpb.Struct) (PresignRequest, error) {
	var (
		r   PresignRequest
		err error
	)
	if r.ProductID, err = String(s, KeyProductID); err != nil {
		return r, err
	}
	k, err := String(s, KeyKind)
	if err != nil {
		return r, err
	}
	r.Kind = catalog.MediaKind(k)
	if !r.Kind.Valid() {
		return r, fmt.Errorf("%w: unknown media kind %q", ErrMalformed, k)
	}
	if r.FileName, err = String(s, KeyFileName); err != nil {
		return r, err
	}
	r.ContentType = s.GetFields()[KeyContentType].GetStringValue()
	r.Size = int64(s.GetFields()[KeySize].GetNumberValue())
	return r, nil
}

func NewPresignReply(r PresignReply) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		KeyMediaID:   structpb.NewStringValue(r.MediaID),
		KeyUploadURL: structpb.NewStringValue(r.UploadURL),
		KeyPublicURL: structpb.NewStringValue(r.PublicURL),
	}}
}

func DecodePresignReply(s *structpb.Struct) (PresignReply, error) {
	var (
		r   PresignReply
		err error
	)
	if r.MediaID, err = String(s, KeyMediaID); err != nil {
		return r, err
	}
	if r.UploadURL, err = String(s, KeyUploadURL); err != nil {
		return r, err
	}
	if r.PublicURL, err = String(s, KeyPublicURL); err != nil {
		return r, err
	}
	return r, nil
}

func NewMedia(m *catalog.Media) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		KeyID:  structpb.NewStringValue(m.ID),
		KeyURL: structpb.NewStringValue(m.URL),
	}}
}

func DecodeMedia(s *structpb.Struct) (*catalog.Media, error) {
	id, err := String(s, KeyID)
	if err != nil {
		return nil, err
	}
	url, err := String(s, KeyURL)
	if err != nil {
		return nil, err
	}
	return &catalog.Media{ID: id, URL: url}, nil
}

// String returns the required string under key.
func String(s *structpb.Struct, key string) (string, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return "", fmt.Errorf("%w: missing %q", ErrMalformed, key)
	}
	sv, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", fmt.Errorf("%w: %q is not a string", ErrMalformed, key)
	}
	return sv.StringValue, nil
}

// StringList returns the list of strings under key; a missing key is an
// empty list.
func StringList(s *structpb.Struct, key string) ([]string, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return nil, nil
	}
	lv := v.GetListValue()
	if lv == nil {
		return nil, fmt.Errorf("%w: %q is not a list", ErrMalformed, key)
	}

	out := make([]string, 0, len(lv.GetValues()))
	for i, item := range lv.GetValues() {
		sv, ok := item.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d] is not a string", ErrMalformed, key, i)
		}
		out = append(out, sv.StringValue)
	}
	return out, nil
}

func stringList(items []string) *structpb.Value {
	vals := make([]*structpb.Value, 0, len(items))
	for _, it := range items {
		vals = append(vals, structpb.NewStringValue(it))
	}
	return structpb.NewListValue(&structpb.ListValue{Values: vals})
}

func optTime(s *structpb.Struct, key string) (time.Time, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, v.GetStringValue())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %w", ErrMalformed, key, err)
	}
	return t, nil
}
