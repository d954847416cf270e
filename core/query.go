package core

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/keroro520/solana-launchpad-sub001/pkg/logging"
)

var queryLog = logging.WithComponent("query")

// cacheEntry pairs a decoded value with the time it was fetched, so the
// facade can enforce its own TTL on top of the LRU's size eviction.
type cacheEntry struct {
	value     any
	fetchedAt time.Time
}

// QueryFacade is the read path every caller that is not already holding an
// AuctionMirror should use (spec §4.H): it wraps an RPCClient with an
// optional LRU+TTL cache and the retry policy applied to RPC reads.
type QueryFacade struct {
	ctx    *ProgramContext
	rpc    RPCClient
	policy RetryPolicy

	cacheEnabled bool
	cacheTTL     time.Duration
	cache        *lru.Cache[string, cacheEntry]
}

// QueryFacadeOption configures a QueryFacade at construction time.
type QueryFacadeOption func(*QueryFacade)

// WithRetryPolicy overrides the default (no-retry) policy applied to RPC
// reads.
func WithRetryPolicy(p RetryPolicy) QueryFacadeOption {
	return func(f *QueryFacade) { f.policy = p }
}

// WithCache enables an LRU cache of the given size with the given TTL. A
// size of 0 disables caching even if called.
func WithCache(size int, ttl time.Duration) QueryFacadeOption {
	return func(f *QueryFacade) {
		if size <= 0 {
			return
		}
		cache, err := lru.New[string, cacheEntry](size)
		if err != nil {
			queryLog.WithError(err).Warn("failed to construct query cache, continuing uncached")
			return
		}
		f.cache = cache
		f.cacheEnabled = true
		f.cacheTTL = ttl
	}
}

// NewQueryFacade constructs a facade with DefaultRetryPolicy and caching
// disabled unless overridden by opts.
func NewQueryFacade(ctx *ProgramContext, rpc RPCClient, opts ...QueryFacadeOption) *QueryFacade {
	f := &QueryFacade{ctx: ctx, rpc: rpc, policy: DefaultRetryPolicy}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *QueryFacade) cacheGet(key string) (any, bool) {
	if !f.cacheEnabled {
		return nil, false
	}
	entry, ok := f.cache.Get(key)
	if !ok {
		return nil, false
	}
	if time.Since(entry.fetchedAt) > f.cacheTTL {
		f.cache.Remove(key)
		return nil, false
	}
	return entry.value, true
}

func (f *QueryFacade) cachePut(key string, value any) {
	if !f.cacheEnabled {
		return
	}
	f.cache.Add(key, cacheEntry{value: value, fetchedAt: time.Now()})
}

// InvalidateAuction drops a cached auction snapshot, e.g. after the caller
// submits a transaction that is known to have mutated it.
func (f *QueryFacade) InvalidateAuction(address Address) {
	if f.cacheEnabled {
		f.cache.Remove(auctionCacheKey(address))
	}
}

func auctionCacheKey(addr Address) string   { return "auction:" + addr.String() }
func committedCacheKey(addr Address) string { return "committed:" + addr.String() }

// GetAuction fetches and decodes the Auction account at address, serving
// from cache when fresh.
func (f *QueryFacade) GetAuction(ctx context.Context, address Address) (*Auction, error) {
	key := auctionCacheKey(address)
	if v, ok := f.cacheGet(key); ok {
		return v.(*Auction), nil
	}

	var data []byte
	err := withRetry(ctx, f.policy, func() error {
		var e error
		data, e = f.rpc.GetAccountInfo(ctx, address)
		return e
	})
	if err != nil {
		return nil, Wrap(KindRPCError, "QueryFacade.GetAuction", err, "fetch auction %s", address)
	}
	auction, err := DecodeAuction(data)
	if err != nil {
		return nil, Wrap(KindInvalidAccountData, "QueryFacade.GetAuction", err, "decode auction %s", address)
	}
	f.cachePut(key, auction)
	return auction, nil
}

// GetCommitted fetches and decodes the Committed account for (auction,
// user). If the account no longer exists (it was closed after a full
// claim), it falls back to reconstructing the last known state from the
// CommittedAccountClosed event log (spec §4.H, §9).
func (f *QueryFacade) GetCommitted(ctx context.Context, auction, user Address) (*Committed, error) {
	addr, _, err := DeriveCommitted(f.ctx.ProgramID, auction, user)
	if err != nil {
		return nil, err
	}
	key := committedCacheKey(addr)
	if v, ok := f.cacheGet(key); ok {
		return v.(*Committed), nil
	}

	var data []byte
	fetchErr := withRetry(ctx, f.policy, func() error {
		var e error
		data, e = f.rpc.GetAccountInfo(ctx, addr)
		return e
	})
	if fetchErr == nil {
		committed, err := DecodeCommitted(data)
		if err != nil {
			return nil, Wrap(KindInvalidAccountData, "QueryFacade.GetCommitted", err, "decode committed %s", addr)
		}
		f.cachePut(key, committed)
		return committed, nil
	}

	if kind, ok := KindOf(fetchErr); !ok || kind != KindAccountNotFound {
		return nil, Wrap(KindRPCError, "QueryFacade.GetCommitted", fetchErr, "fetch committed %s", addr)
	}

	queryLog.WithField("committed", addr).Debug("account not found, searching closure event log")
	logLines, err := f.rpc.FindClosedCommittedEvent(ctx, addr)
	if err != nil {
		return nil, Wrap(KindAccountNotFound, "QueryFacade.GetCommitted", err, "committed %s not found and no closure event", addr)
	}
	committed, err := ParseClosedCommittedEvent(logLines)
	if err != nil {
		return nil, err
	}
	return committed, nil
}

// GetUserCommitments enumerates every Committed account belonging to user
// across all auctions, using a memcmp-style filter at the account's user
// field offset (spec §4.H).
func (f *QueryFacade) GetUserCommitments(ctx context.Context, user Address) ([]*Committed, error) {
	var raw []RawAccount
	err := withRetry(ctx, f.policy, func() error {
		var e error
		raw, e = f.rpc.GetProgramAccountsFiltered(ctx, f.ctx.ProgramID, CommittedUserOffset, user.Bytes())
		return e
	})
	if err != nil {
		return nil, Wrap(KindRPCError, "QueryFacade.GetUserCommitments", err, "scan committed accounts for user %s", user)
	}

	out := make([]*Committed, 0, len(raw))
	for _, acc := range raw {
		c, err := DecodeCommitted(acc.Data)
		if err != nil {
			queryLog.WithField("account", acc.Address).WithError(err).Warn("skipping undecodable committed account")
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// GetAllAuctions enumerates every Auction account the program owns.
func (f *QueryFacade) GetAllAuctions(ctx context.Context) ([]*Auction, error) {
	var raw []RawAccount
	err := withRetry(ctx, f.policy, func() error {
		var e error
		raw, e = f.rpc.GetAllProgramAccounts(ctx, f.ctx.ProgramID)
		return e
	})
	if err != nil {
		return nil, Wrap(KindRPCError, "QueryFacade.GetAllAuctions", err, "scan all program accounts")
	}

	out := make([]*Auction, 0, len(raw))
	for _, acc := range raw {
		// Account-type discriminator distinguishes Auction from Committed
		// in a mixed scan; skip anything that isn't an Auction header.
		if len(acc.Data) < 8 {
			continue
		}
		var disc [8]byte
		copy(disc[:], acc.Data[:8])
		if disc != discAccountAuction {
			continue
		}
		a, err := DecodeAuction(acc.Data)
		if err != nil {
			queryLog.WithField("account", acc.Address).WithError(err).Warn("skipping undecodable auction account")
			continue
		}
		out = append(out, a)
	}
	return out, nil
}
