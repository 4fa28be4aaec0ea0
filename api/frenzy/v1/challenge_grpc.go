package frenzyv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ChallengeService_StartSession_FullMethodName = "/frenzy.v1.ChallengeService/StartSession"
	ChallengeService_NewRound_FullMethodName     = "/frenzy.v1.ChallengeService/NewRound"
	ChallengeService_GetHint_FullMethodName      = "/frenzy.v1.ChallengeService/GetHint"
	ChallengeService_SubmitGuess_FullMethodName  = "/frenzy.v1.ChallengeService/SubmitGuess"
	ChallengeService_GetSession_FullMethodName   = "/frenzy.v1.ChallengeService/GetSession"
)

// ChallengeServiceClient is the client API for ChallengeService. Every method
// except StartSession needs the session token as "authorization: Bearer <token>".
type ChallengeServiceClient interface {
	StartSession(ctx context.Context, in *StartSessionRequest, opts ...grpc.CallOption) (*StartSessionResponse, error)
	NewRound(ctx context.Context, in *NewRoundRequest, opts ...grpc.CallOption) (*NewRoundResponse, error)
	GetHint(ctx context.Context, in *GetHintRequest, opts ...grpc.CallOption) (*GetHintResponse, error)
	SubmitGuess(ctx context.Context, in *SubmitGuessRequest, opts ...grpc.CallOption) (*SubmitGuessResponse, error)
	GetSession(ctx context.Context, in *GetSessionRequest, opts ...grpc.CallOption) (*Session, error)
}

type challengeServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewChallengeServiceClient returns a client that always selects the JSON codec.
func NewChallengeServiceClient(cc grpc.ClientConnInterface) ChallengeServiceClient {
	return &challengeServiceClient{cc}
}

func (c *challengeServiceClient) StartSession(ctx context.Context, in *StartSessionRequest, opts ...grpc.CallOption) (*StartSessionResponse, error) {
	out := new(StartSessionResponse)
	if err := c.cc.Invoke(ctx, ChallengeService_StartSession_FullMethodName, in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *challengeServiceClient) NewRound(ctx context.Context, in *NewRoundRequest, opts ...grpc.CallOption) (*NewRoundResponse, error) {
	out := new(NewRoundResponse)
	if err := c.cc.Invoke(ctx, ChallengeService_NewRound_FullMethodName, in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *challengeServiceClient) GetHint(ctx context.Context, in *GetHintRequest, opts ...grpc.CallOption) (*GetHintResponse, error) {
	out := new(GetHintResponse)
	if err := c.cc.Invoke(ctx, ChallengeService_GetHint_FullMethodName, in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *challengeServiceClient) SubmitGuess(ctx context.Context, in *SubmitGuessRequest, opts ...grpc.CallOption) (*SubmitGuessResponse, error) {
	out := new(SubmitGuessResponse)
	if err := c.cc.Invoke(ctx, ChallengeService_SubmitGuess_FullMethodName, in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *challengeServiceClient) GetSession(ctx context.Context, in *GetSessionRequest, opts ...grpc.CallOption) (*Session, error) {
	out := new(Session)
	if err := c.cc.Invoke(ctx, ChallengeService_GetSession_FullMethodName, in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

// ChallengeServiceServer is the server API for ChallengeService.
type ChallengeServiceServer interface {
	StartSession(context.Context, *StartSessionRequest) (*StartSessionResponse, error)
	NewRound(context.Context, *NewRoundRequest) (*NewRoundResponse, error)
	GetHint(context.Context, *GetHintRequest) (*GetHintResponse, error)
	SubmitGuess(context.Context, *SubmitGuessRequest) (*SubmitGuessResponse, error)
	GetSession(context.Context, *GetSessionRequest) (*Session, error)
	mustEmbedUnimplementedChallengeServiceServer()
}

// UnimplementedChallengeServiceServer must be embedded for forward compatibility.
type UnimplementedChallengeServiceServer struct{}

func (UnimplementedChallengeServiceServer) StartSession(context.Context, *StartSessionRequest) (*StartSessionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method StartSession not implemented")
}
func (UnimplementedChallengeServiceServer) NewRound(context.Context, *NewRoundRequest) (*NewRoundResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method NewRound not implemented")
}
func (UnimplementedChallengeServiceServer) GetHint(context.Context, *GetHintRequest) (*GetHintResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetHint not implemented")
}
func (UnimplementedChallengeServiceServer) SubmitGuess(context.Context, *SubmitGuessRequest) (*SubmitGuessResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SubmitGuess not implemented")
}
func (UnimplementedChallengeServiceServer) GetSession(context.Context, *GetSessionRequest) (*Session, error) {
	return nil, status.Error(codes.Unimplemented, "method GetSession not implemented")
}
func (UnimplementedChallengeServiceServer) mustEmbedUnimplementedChallengeServiceServer() {}

func RegisterChallengeServiceServer(s grpc.ServiceRegistrar, srv ChallengeServiceServer) {
	s.RegisterService(&ChallengeService_ServiceDesc, srv)
}

func _ChallengeService_StartSession_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(StartSessionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChallengeServiceServer).StartSession(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ChallengeService_StartSession_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ChallengeServiceServer).StartSession(ctx, req.(*StartSessionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ChallengeService_NewRound_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(NewRoundRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChallengeServiceServer).NewRound(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ChallengeService_NewRound_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ChallengeServiceServer).NewRound(ctx, req.(*NewRoundRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ChallengeService_GetHint_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetHintRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChallengeServiceServer).GetHint(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ChallengeService_GetHint_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ChallengeServiceServer).GetHint(ctx, req.(*GetHintRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ChallengeService_SubmitGuess_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(SubmitGuessRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChallengeServiceServer).SubmitGuess(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ChallengeService_SubmitGuess_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ChallengeServiceServer).SubmitGuess(ctx, req.(*SubmitGuessRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ChallengeService_GetSession_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetSessionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChallengeServiceServer).GetSession(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ChallengeService_GetSession_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ChallengeServiceServer).GetSession(ctx, req.(*GetSessionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// ChallengeService_ServiceDesc is the grpc.ServiceDesc for ChallengeService.
var ChallengeService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "frenzy.v1.ChallengeService",
	HandlerType: (*ChallengeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "StartSession", Handler: _ChallengeService_StartSession_Handler},
		{MethodName: "NewRound", Handler: _ChallengeService_NewRound_Handler},
		{MethodName: "GetHint", Handler: _ChallengeService_GetHint_Handler},
		{MethodName: "SubmitGuess", Handler: _ChallengeService_SubmitGuess_Handler},
		{MethodName: "GetSession", Handler: _ChallengeService_GetSession_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "frenzy/v1/challenge",
}
