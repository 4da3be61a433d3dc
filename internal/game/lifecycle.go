package game

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/tandemly/wordpair/internal"
	"github.com/tandemly/wordpair/internal/config"
	"github.com/tandemly/wordpair/internal/logger"
	"github.com/tandemly/wordpair/internal/utils"
)

// =============================================================================
// LIFECYCLE CONTROLLER
// =============================================================================

// Controller turns room-level transport events into session manager and
// round state machine calls, and owns the close handshake. It also holds
// the waiting-room state (partner matchmaking timer, issued waiting
// codes), scoped here instead of living in process-wide globals.
type Controller struct {
	cfg      *config.Config
	chat     Chat
	manager  *SessionManager
	source   []internal.Item
	words    map[string]struct{}
	greeting []string
	limiter  Limiter

	mu           sync.Mutex
	waitingTimer *time.Timer
	codeIssued   map[string]bool
}

// NewController wires the engine together. The guessable-word set is
// extended with every item target up front so each target is always a
// legal guess.
func NewController(cfg *config.Config, chat Chat, manager *SessionManager,
	source []internal.Item, words map[string]struct{}, greeting []string, limiter Limiter) *Controller {

	merged := make(map[string]struct{}, len(words)+len(source))
	for w := range words {
		merged[w] = struct{}{}
	}
	for _, item := range source {
		merged[item.Target] = struct{}{}
	}

	return &Controller{
		cfg:        cfg,
		chat:       chat,
		manager:    manager,
		source:     source,
		words:      merged,
		greeting:   greeting,
		limiter:    limiter,
		codeIssued: make(map[string]bool),
	}
}

// Manager exposes the session manager for the status endpoints.
func (c *Controller) Manager() *SessionManager {
	return c.manager
}

// HandleEvent is the single entry point for inbound transport events.
// The caller delivers events one at a time; only timer callbacks enter
// the engine concurrently with this path.
func (c *Controller) HandleEvent(ev internal.Event) {
	switch ev.Kind {
	case internal.EventRoomCreated:
		if ev.TaskID != c.cfg.TaskID {
			logger.Debugf("[HandleEvent] room %s belongs to task %s, not ours (%s)",
				ev.RoomID, ev.TaskID, c.cfg.TaskID)
			return
		}
		c.startSession(ev.RoomID, ev.Users)

	case internal.EventJoined:
		if ev.RoomID == c.cfg.WaitingRoomID {
			c.waitingRoomJoin(ev.RoomID, ev.User)
			return
		}
		c.participantJoined(ev.RoomID, ev.User)

	case internal.EventLeft:
		if ev.RoomID == c.cfg.WaitingRoomID {
			c.waitingRoomLeave()
			return
		}
		c.participantLeft(ev.RoomID, ev.User)

	case internal.EventText:
		c.countMessage(ev.RoomID, ev.User.ID)

	case internal.EventCommand:
		switch cmd := ev.Command.(type) {
		case internal.GuessCommand:
			c.HandleGuess(ev.RoomID, ev.User.ID, cmd.Guess)
		case internal.UnknownCommand:
			feedback(c.chat.SendTextTo(ev.RoomID, ev.User.ID,
				"Sorry, but I do not understand this command.", internal.StandardColor),
				"reply to unknown command")
		}
	}
}

// =============================================================================
// SESSION START
// =============================================================================

// startSession creates and boots the session for a freshly created task
// room: greeting, first item, round timer.
func (c *Controller) startSession(roomID string, users []internal.UserRef) {
	if len(users) != internal.ParticipantsPerSession {
		logger.Criticalf("[startSession] room=%s expected %d users, got %d",
			roomID, internal.ParticipantsPerSession, len(users))
		return
	}

	items := NewItemSequence(c.source, c.cfg.Rounds, c.cfg.Order, c.cfg.Seed)
	s, err := c.manager.Create(roomID, items, c.cfg.GameMode)
	if err != nil {
		logger.Criticalf("[startSession] room=%s: %v", roomID, err)
		return
	}

	// Players fresh out of the waiting room start over.
	c.mu.Lock()
	if c.waitingTimer != nil {
		c.waitingTimer.Stop()
		c.waitingTimer = nil
	}
	for _, user := range users {
		delete(c.codeIssued, user.ID)
	}
	c.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Slot order decides which payload side each player sees; in the
	// asymmetric mode it doubles as the one-time role assignment.
	if rand.Intn(2) == 1 {
		users[0], users[1] = users[1], users[0]
	}
	for _, user := range users {
		if err := s.addParticipant(user); err != nil {
			logger.Criticalf("[startSession] room=%s add participant %s: %v", roomID, user.ID, err)
			return
		}
	}
	if c.cfg.GameMode == internal.ModeOneBlind {
		s.participants[0].Role = internal.RoleDescriber
		s.participants[1].Role = internal.RoleGuesser
	}

	feedback(c.chat.JoinRoom(roomID), "join task room")

	// Widen the task area; the board needs the space.
	feedback(c.chat.SetAttribute(roomID, "sidebar", "style", "width: 80%", ""), "resize sidebar")
	feedback(c.chat.SetAttribute(roomID, "content", "style", "width: 20%", ""), "resize content area")

	s.state = internal.StateGreeting
	feedback(c.chat.SetRoomText(roomID, "mode", c.modeExplanation()), "set mode explanation")
	for _, line := range c.greeting {
		feedback(c.chat.SendText(roomID, line, internal.StandardColor), "send greeting")
	}
	feedback(c.chat.SendText(roomID,
		fmt.Sprintf("Let's start with the first of %d puzzles.", s.items.Remaining()),
		internal.StandardColor), "announce first round")

	feedback(c.chat.SendCommand(roomID, internal.ClientCommand{Command: internal.CommandBoardInit}),
		"initialise game board")

	s.state = internal.StateInProgress
	for _, p := range s.participants {
		p.Status = internal.StatusReady
	}

	c.presentItem(s)
	c.updateScoreDisplay(s)
	c.armRoundTimer(s)

	logger.Infof("[startSession] room=%s running with %s and %s",
		roomID, s.participants[0].Name, s.participants[1].Name)
}

func (c *Controller) modeExplanation() string {
	switch c.cfg.GameMode {
	case internal.ModeSame:
		return "In this game mode, both of you see the same picture."
	case internal.ModeDifferent:
		return "In this game mode, each of you sees a different picture. " +
			"Both pictures are connected to the same word."
	default:
		return "In this game mode, only one of you sees the picture and " +
			"needs to describe it to the other person."
	}
}

// =============================================================================
// PRESENCE
// =============================================================================

// participantJoined covers both the initial join and a mid-game rejoin:
// cancel the grace timer, bring the client back in sync, replay the open
// round's guesses.
func (c *Controller) participantJoined(roomID string, user internal.UserRef) {
	s := c.manager.Get(roomID)
	if s == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.terminated {
		return
	}
	self, peer, err := s.pair(user.ID)
	if err != nil {
		return
	}

	s.timers.OnParticipantJoined(self.ID)
	self.Present = true

	feedback(c.chat.SendTextTo(roomID, peer.ID,
		fmt.Sprintf("%s has joined the game.", self.Name), internal.StandardColor),
		"notify partner of join")

	// Rebuild the joining client's board to match the authoritative
	// session: fresh board, current item, then the round so far.
	feedback(c.chat.SendCommandTo(roomID, self.ID,
		internal.ClientCommand{Command: internal.CommandBoardInit}), "re-initialise board")
	c.presentItem(s)

	if item, ok := s.items.Current(); ok {
		for _, guess := range s.history[s.roundStart:] {
			feedback(c.chat.SendCommandTo(roomID, self.ID, internal.ClientCommand{
				Command: internal.CommandShowGuess,
				Guess:   guess,
				Target:  item.Target,
			}), "replay guess history")
		}
	}

	logger.Infof("[participantJoined] room=%s %s is back, %d guess(es) replayed",
		roomID, self.Name, len(s.history)-s.roundStart)
}

// participantLeft notifies the remaining player and starts the
// disconnect-grace countdown. Repeated leave signals for the same
// participant do not restart a running grace timer.
func (c *Controller) participantLeft(roomID string, user internal.UserRef) {
	s := c.manager.Get(roomID)
	if s == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.terminated {
		return
	}
	self, peer, err := s.pair(user.ID)
	if err != nil {
		return
	}

	self.Present = false

	feedback(c.chat.SendTextTo(roomID, peer.ID,
		fmt.Sprintf("%s has left the game. They have a few minutes to come back before the room closes.",
			self.Name), internal.StandardColor), "notify partner of leave")

	leaverID := self.ID
	s.timers.OnParticipantLeft(leaverID, c.cfg.GraceTimeout, func() {
		c.graceExpired(roomID, leaverID)
	})

	logger.Infof("[participantLeft] room=%s %s left, grace timer running", roomID, self.Name)
}

// graceExpired fires when a participant stayed away past the grace
// period: the session closes, the absentee recorded as disconnected, the
// partner as successful.
func (c *Controller) graceExpired(roomID, participantID string) {
	s := c.manager.Get(roomID)
	if s == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.terminated {
		return
	}
	self, peer, err := s.pair(participantID)
	if err != nil {
		return
	}
	if self.Present {
		// Rejoined in the window between timer fire and lock
		// acquisition; the session carries on.
		return
	}

	logger.Infof("[graceExpired] room=%s %s did not return, closing session", roomID, self.Name)

	feedback(c.chat.SendTextTo(roomID, peer.ID,
		fmt.Sprintf("%s did not come back. The game ends here, but you still get your completion code.",
			self.Name), internal.StandardColor), "notify partner of abandonment")

	c.closeSessionLocked(s, internal.StateClosingDisconnect, map[string]internal.CloseStatus{
		self.ID: internal.CloseDisconnection,
		peer.ID: internal.CloseSuccess,
	})
}

// countMessage tracks discussion activity for the open round.
func (c *Controller) countMessage(roomID, participantID string) {
	if participantID == c.cfg.BotUser {
		return
	}
	s := c.manager.Get(roomID)
	if s == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.terminated {
		return
	}
	self, _, err := s.pair(participantID)
	if err != nil {
		return
	}
	if self.Status == internal.StatusReady {
		self.MessageCount++
		s.roundMessages++
	}
}

// =============================================================================
// WAITING ROOM
// =============================================================================

// waitingRoomJoin (re)arms the no-partner timer. Unlike the grace timers
// this one is always replaced on a new join.
func (c *Controller) waitingRoomJoin(roomID string, user internal.UserRef) {
	c.mu.Lock()
	if c.waitingTimer != nil {
		c.waitingTimer.Stop()
	}
	userID := user.ID
	c.waitingTimer = time.AfterFunc(c.cfg.WaitingTimeout, func() {
		c.noPartner(roomID, userID)
	})
	c.mu.Unlock()

	feedback(c.chat.SendTextTo(roomID, user.ID,
		fmt.Sprintf("If nobody shows up within %d minutes, I will give you a "+
			"confirmation code, so that you can get paid for your waiting time.",
			int(c.cfg.WaitingTimeout.Minutes())), internal.StandardColor),
		"send waiting notice")
}

func (c *Controller) waitingRoomLeave() {
	c.mu.Lock()
	if c.waitingTimer != nil {
		c.waitingTimer.Stop()
		c.waitingTimer = nil
	}
	c.mu.Unlock()
}

// noPartner handles a participant who waited in vain: one code, then
// only polite refusals on every further expiry.
func (c *Controller) noPartner(roomID, participantID string) {
	c.mu.Lock()
	issued := c.codeIssued[participantID]
	if !issued {
		c.codeIssued[participantID] = true
		c.waitingTimer = time.AfterFunc(c.cfg.WaitingTimeout, func() {
			c.noPartner(roomID, participantID)
		})
	}
	c.mu.Unlock()

	if issued {
		feedback(c.chat.SendTextTo(roomID, participantID,
			"You won't be remunerated for further waiting time.", internal.StandardColor),
			"send repeat-waiting notice")
		return
	}

	feedback(c.chat.SendTextTo(roomID, participantID,
		"Unfortunately we could not find a partner for you!", internal.StandardColor),
		"send no-partner notice")
	c.issueCode(roomID, participantID, internal.CloseNoPartner)
	feedback(c.chat.SendTextTo(roomID, participantID,
		"You may also wait some more :)", internal.StandardColor),
		"send keep-waiting notice")
}

// =============================================================================
// CLOSE HANDSHAKE
// =============================================================================

// closeSessionLocked drives Closing-* to Closed exactly once: codes (or
// the public share message), closing notice, read-only room, timer
// cancellation, eviction, manager removal. Callers hold the session lock;
// the terminated flag makes a second invocation a no-op.
func (c *Controller) closeSessionLocked(s *Session, closing internal.MacroState,
	statuses map[string]internal.CloseStatus) {

	if s.terminated {
		return
	}
	s.state = closing

	logger.Infof("[closeSession] room=%s closing (%s)", s.roomID, closing)

	if c.cfg.Public {
		self, peer := s.participants[0], s.participants[1]
		c.socialMessage(s, self.ID, peer.Name)
		c.socialMessage(s, peer.ID, self.Name)
	} else {
		for _, p := range s.participants {
			status, ok := statuses[p.ID]
			if !ok {
				status = internal.CloseSuccess
			}
			c.issueCode(s.roomID, p.ID, status)
		}
	}

	feedback(c.chat.SendText(s.roomID, "This room is closing now.", internal.StandardColor),
		"announce room closure")

	feedback(c.chat.SetAttribute(s.roomID, "text", "readonly", "True", ""),
		"set room to read-only")
	feedback(c.chat.SetAttribute(s.roomID, "text", "placeholder", "This room is read-only", ""),
		"set read-only placeholder")

	// Flips terminated and cancels all timers before anyone is moved
	// out, so no callback can fire into a half-closed room.
	s.closeLocked()
	c.manager.remove(s.roomID)

	for _, p := range s.participants {
		feedback(c.chat.RemoveFromRoom(s.roomID, p.ID), "remove participant from room")
	}
}

// issueCode generates, logs and delivers one confirmation code.
func (c *Controller) issueCode(roomID, participantID string, status internal.CloseStatus) string {
	code := utils.GenerateCode(internal.CodeLength)

	feedback(c.chat.LogEvent(roomID, "confirmation_log", map[string]any{
		"status_txt":         string(status),
		"confirmation_token": code,
	}, participantID), "log confirmation code")

	feedback(c.chat.SendTextTo(roomID, participantID,
		"Please enter the following token into the field on the survey page, "+
			"and close this browser window.", internal.StandardColor),
		"explain confirmation code")
	feedback(c.chat.SendTextTo(roomID, participantID,
		fmt.Sprintf("Here's your token: %s", code), internal.StandardColor),
		"send confirmation code")

	return code
}

// socialMessage replaces codes in public deployments with a shareable
// text naming the partner and the score.
func (c *Controller) socialMessage(s *Session, receiverID, partnerName string) {
	feedback(c.chat.SendTextTo(s.roomID, receiverID,
		fmt.Sprintf("Please share the following text on social media: "+
			"I played wordpair and helped science! Together with %s I scored %d points. "+
			"#wordpair", partnerName, s.points),
		internal.StandardColor), "send social message")
}

// =============================================================================
// PRESENTATION
// =============================================================================

// presentItem pushes the current item's payloads to their respective
// sides. A side without a payload gets the written hint area instead.
// Callers hold the session lock.
func (c *Controller) presentItem(s *Session) {
	item, ok := s.items.Current()
	if !ok {
		return
	}

	feedback(c.chat.AddClass(s.roomID, "image-area", "dis-area", ""), "hide image area")
	feedback(c.chat.AddClass(s.roomID, "image-desc", "dis-area", ""), "hide image description")

	sides := []struct {
		participant *internal.Participant
		payload     string
	}{
		{s.participants[0], item.PayloadA},
		{s.participants[1], item.PayloadB},
	}
	for _, side := range sides {
		if side.payload != "" {
			feedback(c.chat.SetAttribute(s.roomID, "current-image", "src", side.payload,
				side.participant.ID), "set item payload")
			feedback(c.chat.RemoveClass(s.roomID, "image-area", "dis-area",
				side.participant.ID), "show image area")
		} else {
			feedback(c.chat.RemoveClass(s.roomID, "image-desc", "dis-area",
				side.participant.ID), "show written hint")
		}
	}

	feedback(c.chat.SetRoomText(s.roomID, "instr_title",
		fmt.Sprintf("Find the word: %s", utils.MaskTarget(item.Target))), "set task title")
}

// updateScoreDisplay refreshes the score line. Callers hold the session
// lock.
func (c *Controller) updateScoreDisplay(s *Session) {
	feedback(c.chat.SetRoomText(s.roomID, "subtitle",
		fmt.Sprintf("Your score is %d – You have %d puzzle(s) to go.",
			s.points, s.items.Remaining())), "update score display")
}

// =============================================================================
// SHUTDOWN
// =============================================================================

// Shutdown tears every live session down without the close handshake;
// used on process exit.
func (c *Controller) Shutdown() {
	c.mu.Lock()
	if c.waitingTimer != nil {
		c.waitingTimer.Stop()
		c.waitingTimer = nil
	}
	c.mu.Unlock()

	for _, roomID := range c.manager.RoomIDs() {
		c.manager.Destroy(roomID)
	}
	logger.Info("[Shutdown] all sessions destroyed")
}

// feedback logs a failed collaborator call. The failure aborts only the
// current action, never the session.
func feedback(err error, action string) {
	if err != nil {
		logger.Criticalf("[chat] could not %s: %v", action, err)
	}
}
