package rpcclient

import (
	"time"

	"github.com/btcsuite/btcd/rpcclient"
)

type (
	RPCMetrics interface {
		Observe(operation string, err error, started time.Time)
	}
	// Client is the subset of the btcd RPC client the settlement daemon reads.
	Client interface {
		GetBlockCount() (int64, error)
		GetDifficulty() (float64, error)
	}
)

var _ Client = (*rpcclient.Client)(nil)

type ObservedClient struct {
	client     Client
	rpcMetrics RPCMetrics
}

func NewObservedClient(client Client, rpcMetrics RPCMetrics) *ObservedClient {
	return &ObservedClient{
		client:     client,
		rpcMetrics: rpcMetrics,
	}
}

func (r *ObservedClient) GetBlockCount() (count int64, err error) {
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("get_block_count", err, started)
	}()
	return r.client.GetBlockCount()
}

func (r *ObservedClient) GetDifficulty() (difficulty float64, err error) {
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("get_difficulty", err, started)
	}()
	return r.client.GetDifficulty()
}
