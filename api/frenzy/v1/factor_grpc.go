package frenzyv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	FactorService_Factorize_FullMethodName = "/frenzy.v1.FactorService/Factorize"
	FactorService_Batch_FullMethodName     = "/frenzy.v1.FactorService/Batch"
)

// FactorServiceClient is the client API for FactorService.
type FactorServiceClient interface {
	Factorize(ctx context.Context, in *FactorizeRequest, opts ...grpc.CallOption) (*FactorizeResponse, error)
	Batch(ctx context.Context, in *BatchRequest, opts ...grpc.CallOption) (*BatchResponse, error)
}

type factorServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewFactorServiceClient returns a client that always selects the JSON codec.
func NewFactorServiceClient(cc grpc.ClientConnInterface) FactorServiceClient {
	return &factorServiceClient{cc}
}

func (c *factorServiceClient) Factorize(ctx context.Context, in *FactorizeRequest, opts ...grpc.CallOption) (*FactorizeResponse, error) {
	out := new(FactorizeResponse)
	if err := c.cc.Invoke(ctx, FactorService_Factorize_FullMethodName, in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *factorServiceClient) Batch(ctx context.Context, in *BatchRequest, opts ...grpc.CallOption) (*BatchResponse, error) {
	out := new(BatchResponse)
	if err := c.cc.Invoke(ctx, FactorService_Batch_FullMethodName, in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

// FactorServiceServer is the server API for FactorService.
type FactorServiceServer interface {
	Factorize(context.Context, *FactorizeRequest) (*FactorizeResponse, error)
	Batch(context.Context, *BatchRequest) (*BatchResponse, error)
	mustEmbedUnimplementedFactorServiceServer()
}

// UnimplementedFactorServiceServer must be embedded for forward compatibility.
type UnimplementedFactorServiceServer struct{}

func (UnimplementedFactorServiceServer) Factorize(context.Context, *FactorizeRequest) (*FactorizeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Factorize not implemented")
}
func (UnimplementedFactorServiceServer) Batch(context.Context, *BatchRequest) (*BatchResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Batch not implemented")
}
func (UnimplementedFactorServiceServer) mustEmbedUnimplementedFactorServiceServer() {}

func RegisterFactorServiceServer(s grpc.ServiceRegistrar, srv FactorServiceServer) {
	s.RegisterService(&FactorService_ServiceDesc, srv)
}

func _FactorService_Factorize_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(FactorizeRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FactorServiceServer).Factorize(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FactorService_Factorize_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(FactorServiceServer).Factorize(ctx, req.(*FactorizeRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _FactorService_Batch_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(BatchRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FactorServiceServer).Batch(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FactorService_Batch_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(FactorServiceServer).Batch(ctx, req.(*BatchRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// FactorService_ServiceDesc is the grpc.ServiceDesc for FactorService.
var FactorService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "frenzy.v1.FactorService",
	HandlerType: (*FactorServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Factorize", Handler: _FactorService_Factorize_Handler},
		{MethodName: "Batch", Handler: _FactorService_Batch_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "frenzy/v1/factor",
}

// withJSON prepends the JSON content-subtype so callers' options can still override it.
func withJSON(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}
