package abcigrpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"

	"github.com/blockberries/abci"
	"github.com/blockberries/abci/types"
)

// Compile-time interface check.
var _ abci.Client = (*Client)(nil)

// Client implements abci.Client for remote applications over gRPC
// using cramberry serialization. No protobuf types or conversion
// layer required.
type Client struct {
	cc *grpc.ClientConn
}

// Dial connects to a remote ABCI application.
func Dial(ctx context.Context, addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append(opts, grpc.WithDefaultCallOptions(
		grpc.ForceCodec(CramberryCodec{}),
	))
	cc, err := grpc.DialContext(ctx, addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("abci client: dial %s: %w", addr, err)
	}
	return &Client{cc: cc}, nil
}

func (c *Client) Close() error {
	return c.cc.Close()
}

func (c *Client) Echo(ctx context.Context, req types.RequestEcho) (types.ResponseEcho, error) {
	resp := new(types.ResponseEcho)
	if err := c.cc.Invoke(ctx, fullMethod("Echo"), &req, resp); err != nil {
		return types.ResponseEcho{}, err
	}
	return *resp, nil
}

func (c *Client) Flush(ctx context.Context) error {
	req := &types.RequestFlush{}
	resp := new(types.ResponseFlush)
	return c.cc.Invoke(ctx, fullMethod("Flush"), req, resp)
}

func (c *Client) Info(ctx context.Context, req types.RequestInfo) (types.ResponseInfo, error) {
	resp := new(types.ResponseInfo)
	if err := c.cc.Invoke(ctx, fullMethod("Info"), &req, resp); err != nil {
		return types.ResponseInfo{}, err
	}
	return *resp, nil
}

func (c *Client) InitChain(ctx context.Context, req types.RequestInitChain) (types.ResponseInitChain, error) {
	resp := new(types.ResponseInitChain)
	if err := c.cc.Invoke(ctx, fullMethod("InitChain"), &req, resp); err != nil {
		return types.ResponseInitChain{}, err
	}
	return *resp, nil
}

func (c *Client) Query(ctx context.Context, req types.RequestQuery) (types.ResponseQuery, error) {
	resp := new(types.ResponseQuery)
	if err := c.cc.Invoke(ctx, fullMethod("Query"), &req, resp); err != nil {
		return types.ResponseQuery{}, err
	}
	return *resp, nil
}

func (c *Client) BeginBlock(ctx context.Context, req types.RequestBeginBlock) (types.ResponseBeginBlock, error) {
	resp := new(types.ResponseBeginBlock)
	if err := c.cc.Invoke(ctx, fullMethod("BeginBlock"), &req, resp); err != nil {
		return types.ResponseBeginBlock{}, err
	}
	return *resp, nil
}

func (c *Client) CheckTx(ctx context.Context, req types.RequestCheckTx) (types.ResponseCheckTx, error) {
	resp := new(types.ResponseCheckTx)
	if err := c.cc.Invoke(ctx, fullMethod("CheckTx"), &req, resp); err != nil {
		return types.ResponseCheckTx{}, err
	}
	return *resp, nil
}

func (c *Client) DeliverTx(ctx context.Context, req types.RequestDeliverTx) (types.ResponseDeliverTx, error) {
	resp := new(types.ResponseDeliverTx)
	if err := c.cc.Invoke(ctx, fullMethod("DeliverTx"), &req, resp); err != nil {
		return types.ResponseDeliverTx{}, err
	}
	return *resp, nil
}

func (c *Client) EndBlock(ctx context.Context, req types.RequestEndBlock) (types.ResponseEndBlock, error) {
	resp := new(types.ResponseEndBlock)
	if err := c.cc.Invoke(ctx, fullMethod("EndBlock"), &req, resp); err != nil {
		return types.ResponseEndBlock{}, err
	}
	return *resp, nil
}

func (c *Client) Commit(ctx context.Context, req types.RequestCommit) (types.ResponseCommit, error) {
	resp := new(types.ResponseCommit)
	if err := c.cc.Invoke(ctx, fullMethod("Commit"), &req, resp); err != nil {
		return types.ResponseCommit{}, err
	}
	return *resp, nil
}

func (c *Client) ListSnapshots(ctx context.Context, req types.RequestListSnapshots) (types.ResponseListSnapshots, error) {
	resp := new(types.ResponseListSnapshots)
	if err := c.cc.Invoke(ctx, fullMethod("ListSnapshots"), &req, resp); err != nil {
		return types.ResponseListSnapshots{}, err
	}
	return *resp, nil
}

func (c *Client) OfferSnapshot(ctx context.Context, req types.RequestOfferSnapshot) (types.ResponseOfferSnapshot, error) {
	resp := new(types.ResponseOfferSnapshot)
	if err := c.cc.Invoke(ctx, fullMethod("OfferSnapshot"), &req, resp); err != nil {
		return types.ResponseOfferSnapshot{}, err
	}
	return *resp, nil
}

func (c *Client) LoadSnapshotChunk(ctx context.Context, req types.RequestLoadSnapshotChunk) (types.ResponseLoadSnapshotChunk, error) {
	resp := new(types.ResponseLoadSnapshotChunk)
	if err := c.cc.Invoke(ctx, fullMethod("LoadSnapshotChunk"), &req, resp); err != nil {
		return types.ResponseLoadSnapshotChunk{}, err
	}
	return *resp, nil
}

func (c *Client) ApplySnapshotChunk(ctx context.Context, req types.RequestApplySnapshotChunk) (types.ResponseApplySnapshotChunk, error) {
	resp := new(types.ResponseApplySnapshotChunk)
	if err := c.cc.Invoke(ctx, fullMethod("ApplySnapshotChunk"), &req, resp); err != nil {
		return types.ResponseApplySnapshotChunk{}, err
	}
	return *resp, nil
}
