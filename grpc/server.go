package abcigrpc

import (
	"context"
	"net"

	"google.golang.org/grpc"

	"github.com/blockberries/abci"
	"github.com/blockberries/abci/dispatch"
	"github.com/blockberries/abci/types"
)

// Compile-time interface check.
var _ ABCIServiceServer = (*GRPCServer)(nil)

// GRPCServer exposes an ABCI application as a gRPC service. Every RPC
// goes through a dispatcher, so the per-category ordering and flush
// barrier hold for remote engines too. No type conversion is needed —
// domain types are serialized directly via cramberry.
type GRPCServer struct {
	d *dispatch.Dispatcher
}

// NewGRPCServer creates a gRPC server wrapping the given application.
func NewGRPCServer(app abci.Application, opts ...dispatch.Option) *GRPCServer {
	return &GRPCServer{
		d: dispatch.New(app, opts...),
	}
}

// Register adds the ABCI service to a gRPC server.
func (s *GRPCServer) Register(gs *grpc.Server) {
	RegisterABCIServiceServer(gs, s)
}

// Serve starts the gRPC server on the given listener.
func (s *GRPCServer) Serve(lis net.Listener, opts ...grpc.ServerOption) error {
	gs := grpc.NewServer(opts...)
	s.Register(gs)
	return gs.Serve(lis)
}

// Dispatcher returns the underlying dispatcher for advanced use.
func (s *GRPCServer) Dispatcher() *dispatch.Dispatcher {
	return s.d
}

// Close stops the underlying dispatcher.
func (s *GRPCServer) Close() error {
	return s.d.Close()
}

// submit routes a request through the dispatcher and waits for it.
func (s *GRPCServer) submit(ctx context.Context, req types.Request) (types.Response, error) {
	return s.d.Submit(ctx, req).Wait(ctx)
}

func (s *GRPCServer) Echo(ctx context.Context, req *types.RequestEcho) (*types.ResponseEcho, error) {
	resp, err := s.submit(ctx, types.ToRequestEcho(req.Message))
	if err != nil {
		return nil, err
	}
	return resp.Echo, nil
}

func (s *GRPCServer) Flush(ctx context.Context, _ *types.RequestFlush) (*types.ResponseFlush, error) {
	resp, err := s.submit(ctx, types.ToRequestFlush())
	if err != nil {
		return nil, err
	}
	return resp.Flush, nil
}

func (s *GRPCServer) Info(ctx context.Context, req *types.RequestInfo) (*types.ResponseInfo, error) {
	resp, err := s.submit(ctx, types.ToRequestInfo(*req))
	if err != nil {
		return nil, err
	}
	return resp.Info, nil
}

func (s *GRPCServer) InitChain(ctx context.Context, req *types.RequestInitChain) (*types.ResponseInitChain, error) {
	resp, err := s.submit(ctx, types.ToRequestInitChain(*req))
	if err != nil {
		return nil, err
	}
	return resp.InitChain, nil
}

func (s *GRPCServer) Query(ctx context.Context, req *types.RequestQuery) (*types.ResponseQuery, error) {
	resp, err := s.submit(ctx, types.ToRequestQuery(*req))
	if err != nil {
		return nil, err
	}
	return resp.Query, nil
}

func (s *GRPCServer) BeginBlock(ctx context.Context, req *types.RequestBeginBlock) (*types.ResponseBeginBlock, error) {
	resp, err := s.submit(ctx, types.ToRequestBeginBlock(*req))
	if err != nil {
		return nil, err
	}
	return resp.BeginBlock, nil
}

func (s *GRPCServer) CheckTx(ctx context.Context, req *types.RequestCheckTx) (*types.ResponseCheckTx, error) {
	resp, err := s.submit(ctx, types.ToRequestCheckTx(*req))
	if err != nil {
		return nil, err
	}
	return resp.CheckTx, nil
}

func (s *GRPCServer) DeliverTx(ctx context.Context, req *types.RequestDeliverTx) (*types.ResponseDeliverTx, error) {
	resp, err := s.submit(ctx, types.ToRequestDeliverTx(req.Tx))
	if err != nil {
		return nil, err
	}
	return resp.DeliverTx, nil
}

func (s *GRPCServer) EndBlock(ctx context.Context, req *types.RequestEndBlock) (*types.ResponseEndBlock, error) {
	resp, err := s.submit(ctx, types.ToRequestEndBlock(req.Height))
	if err != nil {
		return nil, err
	}
	return resp.EndBlock, nil
}

func (s *GRPCServer) Commit(ctx context.Context, _ *types.RequestCommit) (*types.ResponseCommit, error) {
	resp, err := s.submit(ctx, types.ToRequestCommit())
	if err != nil {
		return nil, err
	}
	return resp.Commit, nil
}

func (s *GRPCServer) ListSnapshots(ctx context.Context, _ *types.RequestListSnapshots) (*types.ResponseListSnapshots, error) {
	resp, err := s.submit(ctx, types.ToRequestListSnapshots())
	if err != nil {
		return nil, err
	}
	return resp.ListSnapshots, nil
}

func (s *GRPCServer) OfferSnapshot(ctx context.Context, req *types.RequestOfferSnapshot) (*types.ResponseOfferSnapshot, error) {
	if req.Snapshot == nil {
		return nil, abci.NewExceptionError("offer without snapshot")
	}
	resp, err := s.submit(ctx, types.ToRequestOfferSnapshot(*req.Snapshot, req.AppHash))
	if err != nil {
		return nil, err
	}
	return resp.OfferSnapshot, nil
}

func (s *GRPCServer) LoadSnapshotChunk(ctx context.Context, req *types.RequestLoadSnapshotChunk) (*types.ResponseLoadSnapshotChunk, error) {
	resp, err := s.submit(ctx, types.ToRequestLoadSnapshotChunk(*req))
	if err != nil {
		return nil, err
	}
	return resp.LoadSnapshotChunk, nil
}

func (s *GRPCServer) ApplySnapshotChunk(ctx context.Context, req *types.RequestApplySnapshotChunk) (*types.ResponseApplySnapshotChunk, error) {
	resp, err := s.submit(ctx, types.ToRequestApplySnapshotChunk(*req))
	if err != nil {
		return nil, err
	}
	return resp.ApplySnapshotChunk, nil
}
