package repository

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/meritworks/ampgsti/internal/domain/model"
	"github.com/meritworks/ampgsti/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering: base score DESC, then handle ASC (deterministic). The BST
// comparator treats "less" as "ranks earlier", so an in-order traversal
// yields the pool from strongest to weakest candidate.

// scoreScale controls fixed-point scaling from float64. Base scores live in
// [0, 100], so twelve decimal places fit comfortably in an int64.
const scoreScale = 1_000_000_000_000

type scoreFP int64

func toFixedPoint(x float64) scoreFP {
	if math.IsNaN(x) {
		return 0
	}
	scaled := x * scoreScale
	if scaled > float64(math.MaxInt64) {
		return scoreFP(math.MaxInt64)
	}
	if scaled < float64(math.MinInt64) {
		return scoreFP(math.MinInt64)
	}
	return scoreFP(math.Round(scaled))
}

func toFloat(x scoreFP) float64 {
	return float64(x) / scoreScale
}

// Snapshot is an immutable view of the pool published periodically for cheap
// aggregate reads.
type Snapshot struct {
	TopCache    []Entry // rank-ordered, up to the configured cache size
	Stats       model.CredentialStats
	PublishedAt time.Time
}

// treap node
type node struct {
	handle string
	score  scoreFP
	prio   uint64
	left   *node
	right  *node
	size   int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less returns true if (aScore, aHandle) ranks earlier than (bScore, bHandle).
func less(aScore scoreFP, aHandle string, bScore scoreFP, bHandle string) bool {
	if aScore != bScore {
		return aScore > bScore // higher score ranks earlier
	}
	return aHandle < bHandle // tie-breaker by handle asc
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

// scoreToPriority keeps higher scores nearer the treap root.
func scoreToPriority(score scoreFP) uint64 {
	const offset = uint64(1) << 63 // shift into the positive range
	return uint64(score) + offset
}

func insert(n *node, handle string, score scoreFP) *node {
	if n == nil {
		return &node{handle: handle, score: score, prio: scoreToPriority(score), size: 1}
	}
	if less(score, handle, n.score, n.handle) {
		n.left = insert(n.left, handle, score)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, handle, score)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

// collectTopN appends up to limit handles in rank order.
func collectTopN(n *node, limit int, out *[]string) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTopN(n.left, limit, out)
	if len(*out) < limit {
		*out = append(*out, n.handle)
	}
	if len(*out) < limit {
		collectTopN(n.right, limit, out)
	}
}

// collectAll appends every handle in rank order.
func collectAll(n *node, out *[]string) {
	if n == nil {
		return
	}
	collectAll(n.left, out)
	*out = append(*out, n.handle)
	collectAll(n.right, out)
}

// TreapStore implements Store with an in-memory treap plus a handle index.
type TreapStore struct {
	mu       sync.RWMutex
	root     *node
	byHandle map[string]model.Profile

	snapshotInterval time.Duration
	topCacheSize     int
	snapshot         atomic.Pointer[Snapshot]

	wg       sync.WaitGroup
	stopChan chan struct{}
}

// NewTreapStore constructs a treap store with configuration options.
func NewTreapStore(ctx context.Context, opts ...Option) *TreapStore {
	s := &TreapStore{
		snapshotInterval: 1 * time.Second,
		topCacheSize:     500,
		byHandle:         make(map[string]model.Profile),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.stopChan = make(chan struct{})
	s.startPeriodicSnapshots(ctx)

	return s
}

// startPeriodicSnapshots publishes snapshots at the configured interval.
func (s *TreapStore) startPeriodicSnapshots(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.snapshotInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.publishSnapshot()
			}
		}
	}()
}

// publishSnapshot rebuilds and publishes a new snapshot.
func (s *TreapStore) publishSnapshot() {
	start := time.Now()

	s.mu.RLock()
	handles := make([]string, 0, s.topCacheSize)
	collectTopN(s.root, s.topCacheSize, &handles)
	top := s.entriesForLocked(handles)
	stats := s.statsLocked()
	s.mu.RUnlock()

	s.snapshot.Store(&Snapshot{
		TopCache:    top,
		Stats:       stats,
		PublishedAt: time.Now(),
	})

	ms := float64(time.Since(start).Milliseconds())
	metrics.RecordRepositorySnapshotRebuildDuration(ms)
	metrics.UpdateRepositorySnapshotLastUnix(float64(time.Now().Unix()))
	metrics.IncrementRepositorySnapshotCount()
}

// LatestSnapshot returns the last published snapshot, or nil before the
// first publication.
func (s *TreapStore) LatestSnapshot() *Snapshot {
	return s.snapshot.Load()
}

// Close stops the background snapshot goroutine.
func (s *TreapStore) Close() error {
	select {
	case <-s.stopChan:
		// already closed
	default:
		close(s.stopChan)
	}
	s.wg.Wait()
	return nil
}

// Insert implements Store.Insert with O(log n) expected time.
func (s *TreapStore) Insert(ctx context.Context, p model.Profile) error {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.Lock()
	if _, ok := s.byHandle[p.Handle]; ok {
		s.mu.Unlock()
		metrics.RecordErrorByComponent("repository", "duplicate_handle")
		return ErrDuplicateHandle
	}
	s.byHandle[p.Handle] = p
	s.root = insert(s.root, p.Handle, toFixedPoint(p.BaseScore))
	total := len(s.byHandle)
	s.mu.Unlock()

	metrics.UpdateRepositoryRecordsTotal(total)
	return nil
}

// Get implements Store.Get.
func (s *TreapStore) Get(ctx context.Context, handle string) (model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byHandle[handle]
	if !ok {
		return model.Profile{}, ErrNotFound
	}
	return p, nil
}

// All implements Store.All: every profile, rank-ordered.
func (s *TreapStore) All(ctx context.Context) []model.Profile {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	handles := make([]string, 0, len(s.byHandle))
	collectAll(s.root, &handles)
	out := make([]model.Profile, 0, len(handles))
	for _, h := range handles {
		out = append(out, s.byHandle[h])
	}
	return out
}

// TopN implements Store.TopN.
func (s *TreapStore) TopN(ctx context.Context, n int) ([]Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	handles := make([]string, 0, n)
	collectTopN(s.root, n, &handles)
	return s.entriesForLocked(handles), nil
}

// Rank implements Store.Rank in O(n); the pool is small enough that a
// traversal beats maintaining a second index.
func (s *TreapStore) Rank(ctx context.Context, handle string) (Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.byHandle[handle]; !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return Entry{}, ErrNotFound
	}

	handles := make([]string, 0, len(s.byHandle))
	collectAll(s.root, &handles)
	entries := s.entriesForLocked(handles)
	for _, e := range entries {
		if e.Handle == handle {
			return e, nil
		}
	}
	return Entry{}, ErrNotFound
}

// Count implements Store.Count.
func (s *TreapStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byHandle)
}

// CredentialStats implements Store.CredentialStats.
func (s *TreapStore) CredentialStats(ctx context.Context) model.CredentialStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.statsLocked()
}

// statsLocked aggregates pool statistics. Callers hold at least a read lock.
func (s *TreapStore) statsLocked() model.CredentialStats {
	stats := model.CredentialStats{
		Candidates: len(s.byHandle),
		ByCategory: make(map[model.CredentialCategory]int),
	}
	if stats.Candidates == 0 {
		return stats
	}

	var scoreSum, tenureSum float64
	var credentialCount int
	for _, p := range s.byHandle {
		scoreSum += p.BaseScore
		tenureSum += float64(p.TenureYears)
		credentialCount += len(p.Credentials)
		for _, c := range p.Credentials {
			stats.ByCategory[c.Category]++
		}
	}

	n := float64(stats.Candidates)
	stats.AvgBaseScore = scoreSum / n
	stats.AvgTenureYears = tenureSum / n
	stats.AvgCredentialsPerProfile = float64(credentialCount) / n
	return stats
}

// entriesForLocked builds ranked entries for rank-ordered handles, assigning
// equal ranks to equal scores. Callers hold at least a read lock.
func (s *TreapStore) entriesForLocked(handles []string) []Entry {
	out := make([]Entry, 0, len(handles))
	currentRank := 0
	var prevScore float64
	for i, h := range handles {
		p, ok := s.byHandle[h]
		if !ok {
			continue
		}
		if i == 0 || p.BaseScore != prevScore {
			currentRank++
			prevScore = p.BaseScore
		}
		out = append(out, Entry{
			Rank:        currentRank,
			Handle:      p.Handle,
			BaseScore:   toFloat(toFixedPoint(p.BaseScore)),
			TenureYears: p.TenureYears,
			Credentials: len(p.Credentials),
		})
	}
	return out
}
