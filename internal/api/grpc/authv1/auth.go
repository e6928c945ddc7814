// Package authv1 defines the storeauth.v1.Auth gRPC service: messages,
// service descriptor and client.
package authv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "storeauth.v1.Auth"

// Full method names, as seen by interceptors.
const (
	Auth_SignIn_FullMethodName       = "/" + ServiceName + "/SignIn"
	Auth_RefreshToken_FullMethodName = "/" + ServiceName + "/RefreshToken"
	Auth_Me_FullMethodName           = "/" + ServiceName + "/Me"
	Auth_GetUser_FullMethodName      = "/" + ServiceName + "/GetUser"
)

// RefreshTokenMetadataKey carries the refresh token on RefreshToken calls.
const RefreshTokenMetadataKey = "x-refresh-token"

type SignInRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Recaptcha string `json:"recaptcha,omitempty"`
}

type Credentials struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// Empty is the request of the parameterless methods.
type Empty = emptypb.Empty

type GetUserRequest struct {
	ID string `json:"id"`
}

type User struct {
	ID               string   `json:"id"`
	Email            string   `json:"email"`
	Name             string   `json:"name"`
	Surname          string   `json:"surname"`
	Role             string   `json:"role"`
	OwnedResourceIDs []string `json:"unitsOwnedIds"`
}

// AuthServer is the server API for the Auth service.
type AuthServer interface {
	SignIn(context.Context, *SignInRequest) (*Credentials, error)
	RefreshToken(context.Context, *Empty) (*Credentials, error)
	Me(context.Context, *Empty) (*User, error)
	GetUser(context.Context, *GetUserRequest) (*User, error)
}

// UnimplementedAuthServer can be embedded to have forward compatible implementations.
type UnimplementedAuthServer struct{}

func (UnimplementedAuthServer) SignIn(context.Context, *SignInRequest) (*Credentials, error) {
	return nil, status.Error(codes.Unimplemented, "method SignIn not implemented")
}

func (UnimplementedAuthServer) RefreshToken(context.Context, *Empty) (*Credentials, error) {
	return nil, status.Error(codes.Unimplemented, "method RefreshToken not implemented")
}

func (UnimplementedAuthServer) Me(context.Context, *Empty) (*User, error) {
	return nil, status.Error(codes.Unimplemented, "method Me not implemented")
}

func (UnimplementedAuthServer) GetUser(context.Context, *GetUserRequest) (*User, error) {
	return nil, status.Error(codes.Unimplemented, "method GetUser not implemented")
}

// RegisterAuthServer registers srv on s.
func RegisterAuthServer(s grpc.ServiceRegistrar, srv AuthServer) {
	s.RegisterService(&Auth_ServiceDesc, srv)
}

func _Auth_SignIn_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(SignInRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AuthServer).SignIn(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Auth_SignIn_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AuthServer).SignIn(ctx, req.(*SignInRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Auth_RefreshToken_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AuthServer).RefreshToken(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Auth_RefreshToken_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AuthServer).RefreshToken(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _Auth_Me_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AuthServer).Me(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Auth_Me_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AuthServer).Me(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _Auth_GetUser_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetUserRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AuthServer).GetUser(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Auth_GetUser_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AuthServer).GetUser(ctx, req.(*GetUserRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// Auth_ServiceDesc is the grpc.ServiceDesc for the Auth service.
var Auth_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AuthServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SignIn", Handler: _Auth_SignIn_Handler},
		{MethodName: "RefreshToken", Handler: _Auth_RefreshToken_Handler},
		{MethodName: "Me", Handler: _Auth_Me_Handler},
		{MethodName: "GetUser", Handler: _Auth_GetUser_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "storeauth/v1/auth",
}

// AuthClient is the client API for the Auth service.
type AuthClient interface {
	SignIn(ctx context.Context, in *SignInRequest, opts ...grpc.CallOption) (*Credentials, error)
	RefreshToken(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Credentials, error)
	Me(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*User, error)
	GetUser(ctx context.Context, in *GetUserRequest, opts ...grpc.CallOption) (*User, error)
}

type authClient struct {
	cc grpc.ClientConnInterface
}

// NewAuthClient creates a client that always speaks the JSON codec.
func NewAuthClient(cc grpc.ClientConnInterface) AuthClient {
	return &authClient{cc: cc}
}

func (c *authClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

func (c *authClient) SignIn(ctx context.Context, in *SignInRequest, opts ...grpc.CallOption) (*Credentials, error) {
	out := new(Credentials)
	if err := c.invoke(ctx, Auth_SignIn_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *authClient) RefreshToken(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Credentials, error) {
	out := new(Credentials)
	if err := c.invoke(ctx, Auth_RefreshToken_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *authClient) Me(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*User, error) {
	out := new(User)
	if err := c.invoke(ctx, Auth_Me_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *authClient) GetUser(ctx context.Context, in *GetUserRequest, opts ...grpc.CallOption) (*User, error) {
	out := new(User)
	if err := c.invoke(ctx, Auth_GetUser_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}
