package gameserver

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/combat"
	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/npc"
	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/participant"
	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/world"
)

// Console is a line-based local play surface: it reads commands from in,
// dispatches them to the combat and movement services for a single player,
// and prints combat notifications as they arrive on the bus.
type Console struct {
	playerID string
	registry *participant.Registry
	world    *world.Manager
	npcs     *npc.Manager
	combat   *CombatService
	movement *MovementService
	bus      *combat.Bus
	in       io.Reader
	out      io.Writer
	logger   *zap.Logger

	notices  chan combat.Notification
	done     chan struct{}
	stopOnce sync.Once
}

// NewConsole wires a console for playerID.
//
// Precondition: the player must already be registered and located in a room.
func NewConsole(playerID string, registry *participant.Registry, worldMgr *world.Manager, npcs *npc.Manager, combatSvc *CombatService, movementSvc *MovementService, bus *combat.Bus, in io.Reader, out io.Writer, logger *zap.Logger) *Console {
	return &Console{
		playerID: playerID,
		registry: registry,
		world:    worldMgr,
		npcs:     npcs,
		combat:   combatSvc,
		movement: movementSvc,
		bus:      bus,
		in:       in,
		out:      out,
		logger:   logger,
		notices:  make(chan combat.Notification, 64),
		done:     make(chan struct{}),
	}
}

// Start reads commands until EOF or Stop. Implements the server Service
// interface.
func (c *Console) Start() error {
	c.bus.Subscribe(c.notices)
	defer c.bus.Unsubscribe(c.notices)

	go c.printNotices()

	scanner := bufio.NewScanner(c.in)
	fmt.Fprintln(c.out, "connected. commands: look, move <dir>, attack <name>, cast <ability>, pass, flee, quit")
	for scanner.Scan() {
		select {
		case <-c.done:
			return nil
		default:
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" {
			return nil
		}
		c.dispatch(line)
	}
	return scanner.Err()
}

// Stop terminates the console. Idempotent.
func (c *Console) Stop() {
	c.stopOnce.Do(func() { close(c.done) })
}

func (c *Console) dispatch(line string) {
	verb, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	var err error
	switch verb {
	case "look":
		c.look()
	case "move":
		var dest string
		dest, err = c.movement.Move(c.playerID, world.Direction(arg))
		if err == nil {
			fmt.Fprintf(c.out, "you move %s.\n", arg)
			if room, ok := c.world.GetRoom(dest); ok {
				fmt.Fprintln(c.out, room.Title)
			}
		}
	case "attack":
		_, err = c.combat.Attack(c.playerID, arg)
		if err == nil {
			fmt.Fprintf(c.out, "you square up against %s.\n", arg)
		}
	case "cast":
		err = c.combat.QueueAbility(c.playerID, arg)
		if err == nil {
			fmt.Fprintf(c.out, "you prepare %s for the next round.\n", arg)
		}
	case "pass":
		err = c.combat.Pass(c.playerID)
	case "flee":
		err = c.combat.Flee(c.playerID)
		if err == nil {
			fmt.Fprintln(c.out, "you flee!")
		}
	default:
		fmt.Fprintf(c.out, "unknown command %q\n", verb)
	}

	if err != nil {
		fmt.Fprintf(c.out, "%v\n", err)
	}
}

func (c *Console) look() {
	roomID, ok := c.world.CurrentRoom(c.playerID)
	if !ok {
		fmt.Fprintln(c.out, "you are nowhere.")
		return
	}
	room, ok := c.world.GetRoom(roomID)
	if !ok {
		return
	}
	fmt.Fprintln(c.out, room.Title)
	fmt.Fprintln(c.out, room.Description)
	for _, occupant := range c.world.OccupantsOf(roomID) {
		if occupant == c.playerID {
			continue
		}
		if inst, found := c.npcs.Get(occupant); found {
			fmt.Fprintf(c.out, "  %s is here.\n", inst.Name)
		}
	}
	for _, exit := range room.Exits {
		fmt.Fprintf(c.out, "  exit: %s\n", exit.Direction)
	}
}

func (c *Console) printNotices() {
	for {
		select {
		case <-c.done:
			return
		case n := <-c.notices:
			c.printNotice(n)
		}
	}
}

func (c *Console) printNotice(n combat.Notification) {
	switch n.Type {
	case combat.NoticeStarted:
		fmt.Fprintln(c.out, "* combat begins!")
	case combat.NoticeRound:
		for _, ev := range n.Events {
			c.printEvent(ev)
		}
	case combat.NoticeDeath:
		fmt.Fprintf(c.out, "* %s has been slain!\n", c.displayName(n.VictimID))
	case combat.NoticeTerminated:
		fmt.Fprintf(c.out, "* combat ends (%s).\n", n.Reason)
	}
}

func (c *Console) printEvent(ev combat.RoundEvent) {
	actor := c.displayName(ev.ActorID)
	target := c.displayName(ev.TargetID)
	switch ev.Type {
	case combat.EventHit:
		fmt.Fprintf(c.out, "* %s hits %s for %d.\n", actor, target, ev.Damage)
	case combat.EventMiss:
		fmt.Fprintf(c.out, "* %s swings at nothing.\n", actor)
	case combat.EventPass:
		fmt.Fprintf(c.out, "* %s holds back.\n", actor)
	case combat.EventIncapacitated:
		fmt.Fprintf(c.out, "* %s hits %s for %d, and %s collapses!\n", actor, target, ev.Damage, target)
	case combat.EventDeath:
		fmt.Fprintf(c.out, "* %s strikes %s down!\n", actor, target)
	}
}

func (c *Console) displayName(id string) string {
	if snap, ok := c.registry.Get(id); ok && snap.Name != "" {
		return snap.Name
	}
	return id
}
