package combat

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/participant"
)

// ExperienceGranter persists an experience award. Implemented by the
// progression repository; reason is a short audit label such as "combat-kill".
type ExperienceGranter interface {
	GrantExperience(ctx context.Context, playerID string, amount int, reason string) error
}

// RewardSource resolves the experience value of a defeated NPC.
type RewardSource interface {
	XPReward(npcID string) (int, bool)
}

const (
	rewardQueueSize   = 256
	rewardMaxAttempts = 3
	rewardRetryDelay  = 500 * time.Millisecond
)

type rewardGrant struct {
	playerID string
	victimID string
	amount   int
	attempt  int
}

// RewardPipeline grants experience for combat kills. Grants run on a worker
// goroutine so a slow or failing persistence layer never stalls round
// execution. Each kill is claimed exactly once, keyed by victim ID, before
// the grant is attempted; retries of a failed grant reuse the claim, so a
// kill is never awarded twice and a transient failure is never silently
// dropped.
type RewardPipeline struct {
	granter ExperienceGranter
	rewards RewardSource
	logger  *zap.Logger
	timeout time.Duration

	mu      sync.Mutex
	claimed map[string]struct{}

	pending  chan rewardGrant
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewRewardPipeline creates a stopped pipeline. Run it through the server
// lifecycle so grants drain before shutdown.
//
// Precondition: granter, rewards, and logger must be non-nil; timeout > 0.
func NewRewardPipeline(granter ExperienceGranter, rewards RewardSource, timeout time.Duration, logger *zap.Logger) *RewardPipeline {
	return &RewardPipeline{
		granter: granter,
		rewards: rewards,
		logger:  logger,
		timeout: timeout,
		claimed: make(map[string]struct{}),
		pending: make(chan rewardGrant, rewardQueueSize),
		done:    make(chan struct{}),
	}
}

// Start launches the grant worker and blocks until Stop is called.
// Implements the server Service interface.
func (p *RewardPipeline) Start() error {
	p.wg.Add(1)
	go p.worker()
	<-p.done
	return nil
}

// Stop signals the worker to drain queued grants and exit, then waits for it.
func (p *RewardPipeline) Stop() {
	p.stopOnce.Do(func() { close(p.done) })
	p.wg.Wait()
}

// OnDeath processes a killing blow. Only a player killing an NPC yields
// experience; every other pairing is ignored. The victim is claimed under
// the lock before the grant is queued, so duplicate death reports for the
// same victim award nothing.
//
// Postcondition: at most one grant is ever queued per victim ID.
func (p *RewardPipeline) OnDeath(d Death) {
	if d.KillerKind != participant.KindPlayer || d.VictimKind != participant.KindNPC {
		return
	}

	p.mu.Lock()
	if _, dup := p.claimed[d.VictimID]; dup {
		p.mu.Unlock()
		p.logger.Warn("duplicate death report for victim; reward already claimed",
			zap.String("victim_id", d.VictimID),
			zap.String("killer_id", d.KillerID),
		)
		return
	}
	p.claimed[d.VictimID] = struct{}{}
	p.mu.Unlock()

	amount, ok := p.rewards.XPReward(d.VictimID)
	if !ok || amount <= 0 {
		// Zero or missing rewards point at a content mistake, not a code
		// path worth failing on.
		p.logger.Warn("defeated npc has no experience reward configured",
			zap.String("victim_id", d.VictimID),
			zap.Int("amount", amount),
		)
		return
	}

	p.enqueue(rewardGrant{
		playerID: d.KillerID,
		victimID: d.VictimID,
		amount:   amount,
		attempt:  1,
	})
}

func (p *RewardPipeline) enqueue(g rewardGrant) {
	select {
	case p.pending <- g:
	default:
		p.logger.Error("reward queue full; dropping grant for later reconciliation",
			zap.String("player_id", g.playerID),
			zap.String("victim_id", g.victimID),
			zap.Int("amount", g.amount),
		)
	}
}

func (p *RewardPipeline) worker() {
	defer p.wg.Done()
	for {
		select {
		case g := <-p.pending:
			p.grant(g)
		case <-p.done:
			// Drain what is already queued before exiting.
			for {
				select {
				case g := <-p.pending:
					p.grant(g)
				default:
					return
				}
			}
		}
	}
}

// grant attempts one persistence call with a bounded timeout. Failures are
// retried a fixed number of times; a grant that exhausts its attempts is
// logged at error level for out-of-band reconciliation rather than blocking
// the worker.
func (p *RewardPipeline) grant(g rewardGrant) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	err := p.granter.GrantExperience(ctx, g.playerID, g.amount, "combat-kill")
	if err == nil {
		p.logger.Info("experience granted",
			zap.String("player_id", g.playerID),
			zap.String("victim_id", g.victimID),
			zap.Int("amount", g.amount),
		)
		return
	}

	if g.attempt >= rewardMaxAttempts {
		p.logger.Error("experience grant failed after retries; manual reconciliation required",
			zap.String("player_id", g.playerID),
			zap.String("victim_id", g.victimID),
			zap.Int("amount", g.amount),
			zap.Error(err),
		)
		return
	}

	p.logger.Warn("experience grant failed; retrying",
		zap.String("player_id", g.playerID),
		zap.Int("attempt", g.attempt),
		zap.Error(err),
	)
	g.attempt++
	next := g
	time.AfterFunc(rewardRetryDelay, func() {
		select {
		case <-p.done:
		default:
			p.enqueue(next)
		}
	})
}
