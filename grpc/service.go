package abcigrpc

import (
	"context"
	"fmt"

	"github.com/blockberries/abci/types"

	"google.golang.org/grpc"
)

const serviceName = "github.com/blockberries/abci.v1.ABCIService"

// ABCIServiceServer is the server-side interface for the ABCI gRPC service.
type ABCIServiceServer interface {
	Echo(context.Context, *types.RequestEcho) (*types.ResponseEcho, error)
	Flush(context.Context, *types.RequestFlush) (*types.ResponseFlush, error)
	Info(context.Context, *types.RequestInfo) (*types.ResponseInfo, error)
	InitChain(context.Context, *types.RequestInitChain) (*types.ResponseInitChain, error)
	Query(context.Context, *types.RequestQuery) (*types.ResponseQuery, error)
	BeginBlock(context.Context, *types.RequestBeginBlock) (*types.ResponseBeginBlock, error)
	CheckTx(context.Context, *types.RequestCheckTx) (*types.ResponseCheckTx, error)
	DeliverTx(context.Context, *types.RequestDeliverTx) (*types.ResponseDeliverTx, error)
	EndBlock(context.Context, *types.RequestEndBlock) (*types.ResponseEndBlock, error)
	Commit(context.Context, *types.RequestCommit) (*types.ResponseCommit, error)
	ListSnapshots(context.Context, *types.RequestListSnapshots) (*types.ResponseListSnapshots, error)
	OfferSnapshot(context.Context, *types.RequestOfferSnapshot) (*types.ResponseOfferSnapshot, error)
	LoadSnapshotChunk(context.Context, *types.RequestLoadSnapshotChunk) (*types.ResponseLoadSnapshotChunk, error)
	ApplySnapshotChunk(context.Context, *types.RequestApplySnapshotChunk) (*types.ResponseApplySnapshotChunk, error)
}

// RegisterABCIServiceServer registers the ABCIServiceServer on a gRPC server.
func RegisterABCIServiceServer(s *grpc.Server, srv ABCIServiceServer) {
	s.RegisterService(&serviceDesc, srv)
}

// --- Handler functions ---

func handlerEcho(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(types.RequestEcho)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(ABCIServiceServer).Echo(ctx, req)
}

func handlerFlush(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(types.RequestFlush)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(ABCIServiceServer).Flush(ctx, req)
}

func handlerInfo(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(types.RequestInfo)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(ABCIServiceServer).Info(ctx, req)
}

func handlerInitChain(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(types.RequestInitChain)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(ABCIServiceServer).InitChain(ctx, req)
}

func handlerQuery(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(types.RequestQuery)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(ABCIServiceServer).Query(ctx, req)
}

func handlerBeginBlock(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(types.RequestBeginBlock)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(ABCIServiceServer).BeginBlock(ctx, req)
}

func handlerCheckTx(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(types.RequestCheckTx)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(ABCIServiceServer).CheckTx(ctx, req)
}

func handlerDeliverTx(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(types.RequestDeliverTx)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(ABCIServiceServer).DeliverTx(ctx, req)
}

func handlerEndBlock(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(types.RequestEndBlock)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(ABCIServiceServer).EndBlock(ctx, req)
}

func handlerCommit(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(types.RequestCommit)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(ABCIServiceServer).Commit(ctx, req)
}

func handlerListSnapshots(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(types.RequestListSnapshots)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(ABCIServiceServer).ListSnapshots(ctx, req)
}

func handlerOfferSnapshot(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(types.RequestOfferSnapshot)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(ABCIServiceServer).OfferSnapshot(ctx, req)
}

func handlerLoadSnapshotChunk(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(types.RequestLoadSnapshotChunk)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(ABCIServiceServer).LoadSnapshotChunk(ctx, req)
}

func handlerApplySnapshotChunk(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(types.RequestApplySnapshotChunk)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(ABCIServiceServer).ApplySnapshotChunk(ctx, req)
}

// fullMethod builds the full gRPC method path.
func fullMethod(method string) string {
	return fmt.Sprintf("/%s/%s", serviceName, method)
}

// serviceDesc is the manual gRPC service descriptor for ABCI.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*ABCIServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Echo", Handler: handlerEcho},
		{MethodName: "Flush", Handler: handlerFlush},
		{MethodName: "Info", Handler: handlerInfo},
		{MethodName: "InitChain", Handler: handlerInitChain},
		{MethodName: "Query", Handler: handlerQuery},
		{MethodName: "BeginBlock", Handler: handlerBeginBlock},
		{MethodName: "CheckTx", Handler: handlerCheckTx},
		{MethodName: "DeliverTx", Handler: handlerDeliverTx},
		{MethodName: "EndBlock", Handler: handlerEndBlock},
		{MethodName: "Commit", Handler: handlerCommit},
		{MethodName: "ListSnapshots", Handler: handlerListSnapshots},
		{MethodName: "OfferSnapshot", Handler: handlerOfferSnapshot},
		{MethodName: "LoadSnapshotChunk", Handler: handlerLoadSnapshotChunk},
		{MethodName: "ApplySnapshotChunk", Handler: handlerApplySnapshotChunk},
	},
	Metadata: "github.com/blockberries/abci/v1/service.cram",
}
