package game

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tandemly/wordpair/internal"
	"github.com/tandemly/wordpair/internal/logger"
)

// =============================================================================
// TURN / ROUND STATE MACHINE
// =============================================================================

// HandleGuess runs one submission through the round state machine. The
// whole transition happens under the session lock so that a concurrently
// firing round timer and a last-moment matching guess cannot both win the
// same round.
func (c *Controller) HandleGuess(roomID, participantID, guess string) {
	s := c.manager.Get(roomID)
	if s == nil {
		logger.Debugf("[HandleGuess] no session for room %s, ignoring", roomID)
		return
	}

	if c.limiter != nil && !c.limiter.Allow(participantID) {
		feedback(c.chat.SendTextTo(roomID, participantID,
			"You are sending guesses too quickly. Take a breath and discuss with your partner.",
			internal.WarningColor), "send rate-limit notice")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureActive(); err != nil {
		logger.Debugf("[HandleGuess] room=%s: %v", roomID, err)
		return
	}
	if s.state != internal.StateInProgress {
		logger.Debugf("[HandleGuess] room=%s not accepting guesses (state=%s)", roomID, s.state)
		return
	}

	self, peer, err := s.pair(participantID)
	if err != nil {
		logger.Warningf("[HandleGuess] room=%s unknown participant %s", roomID, participantID)
		return
	}

	item, ok := s.items.Current()
	if !ok {
		logger.Criticalf("[HandleGuess] room=%s guess received with exhausted item sequence", roomID)
		return
	}

	guess = strings.ToLower(strings.TrimSpace(guess))

	// Per-attempt validation failures go to the sender only and leave
	// the round untouched.
	if guess == "" {
		feedback(c.chat.SendTextTo(roomID, self.ID,
			"**You need to provide a guess!**", internal.WarningColor),
			"send empty-guess notice")
		return
	}
	if utf8.RuneCountInString(guess) != utf8.RuneCountInString(item.Target) {
		feedback(c.chat.SendTextTo(roomID, self.ID,
			fmt.Sprintf("Unfortunately this word is not valid. Your guess needs to have %d letters.",
				utf8.RuneCountInString(item.Target)), internal.StandardColor),
			"send wrong-length notice")
		c.retract(roomID, self.ID)
		return
	}
	if _, known := c.words[guess]; !known {
		feedback(c.chat.SendTextTo(roomID, self.ID,
			"**Unfortunately this word is not valid. Make sure that there aren't any typos**",
			internal.WarningColor), "send unknown-word notice")
		c.retract(roomID, self.ID)
		return
	}

	// Duplicate submission is absorbed, never overwritten.
	if previous, already := s.pending[self.ID]; already {
		feedback(c.chat.SendTextTo(roomID, self.ID,
			fmt.Sprintf("**You already entered the guess: %s, let's wait for your partner to also enter a guess.**",
				previous), internal.WarningColor), "send duplicate notice")
		return
	}

	s.pending[self.ID] = guess

	if len(s.pending) == 1 {
		feedback(c.chat.SendTextTo(roomID, self.ID,
			"Let's wait for your partner to also enter a guess.", internal.StandardColor),
			"send wait notice")
		feedback(c.chat.SendTextTo(roomID, peer.ID,
			"Your partner thinks that you have found the right word. Enter your guess.",
			internal.StandardColor), "prompt partner")
		return
	}

	// Both slots filled: either a mismatch to talk over, or the
	// authoritative guess for this round.
	if s.pending[self.ID] != s.pending[peer.ID] {
		logger.Infof("[HandleGuess] room=%s mismatch (%s vs %s), round stays open",
			roomID, s.pending[self.ID], s.pending[peer.ID])
		s.pending = make(map[string]string)
		feedback(c.chat.SendText(roomID,
			"You and your partner sent a different word, please discuss and enter the same guess.",
			internal.StandardColor), "send mismatch notice")
		c.retract(roomID, "")
		return
	}

	s.pending = make(map[string]string)
	s.history = append(s.history, guess)

	// Letter-by-letter feedback is rendered client side.
	feedback(c.chat.SendCommand(roomID, internal.ClientCommand{
		Command: internal.CommandShowGuess,
		Guess:   guess,
		Target:  item.Target,
	}), "broadcast guess feedback")

	if guess != item.Target && s.attempts > 1 {
		s.attempts--
		logger.Infof("[HandleGuess] room=%s wrong guess %q, %d attempts left",
			roomID, guess, s.attempts)
		return
	}

	outcome := internal.RoundOutcome{Won: guess == item.Target}
	result := "LOST"
	if outcome.Won {
		result = "WON"
		outcome.PointsAwarded = PointsForRemaining(s.attempts)
	}
	s.addPoints(outcome.PointsAwarded)

	logger.Infof("[HandleGuess] room=%s round %s (guess=%q target=%q points=%d score=%d)",
		roomID, result, guess, item.Target, outcome.PointsAwarded, s.points)

	feedback(c.chat.SendText(roomID,
		fmt.Sprintf("**YOU %s! For this round you get %d points. Your total score is: %d**",
			result, outcome.PointsAwarded, s.points), internal.StandardColor),
		"announce round result")

	c.advanceRound(s)
}

// retract tells the front end to reopen the input row. Empty receiver
// means everyone in the room.
func (c *Controller) retract(roomID, receiverID string) {
	cmd := internal.ClientCommand{Command: internal.CommandUnsubmit}
	if receiverID == "" {
		feedback(c.chat.SendCommand(roomID, cmd), "retract submissions")
		return
	}
	feedback(c.chat.SendCommandTo(roomID, receiverID, cmd), "retract submission")
}

// advanceRound resolves the transition after a won, lost or timed-out
// round: drop the item, and either open the next round or end the game.
// Callers hold the session lock.
func (c *Controller) advanceRound(s *Session) {
	s.items.PopFront()
	s.pending = make(map[string]string)

	if s.items.Remaining() == 0 {
		feedback(c.chat.SendText(s.roomID,
			"The game is over! Thank you for participating!", internal.StandardColor),
			"announce game over")
		c.updateScoreDisplay(s)
		c.closeSessionLocked(s, internal.StateClosingSuccess, c.uniformStatuses(s, internal.CloseSuccess))
		return
	}

	feedback(c.chat.SendText(s.roomID,
		fmt.Sprintf("Ok, let's move on to the next round. %d rounds to go!", s.items.Remaining()),
		internal.StandardColor), "announce next round")
	c.updateScoreDisplay(s)

	feedback(c.chat.SendCommand(s.roomID, internal.ClientCommand{Command: internal.CommandBoardInit}),
		"reset game board")

	s.attempts = internal.MaxAttempts
	s.roundStart = len(s.history)
	s.roundMessages = 0
	s.round++
	for _, p := range s.participants {
		p.Status = internal.StatusReady
		p.MessageCount = 0
	}

	c.presentItem(s)
	c.armRoundTimer(s)
}

// timeOutRound is the round timer callback for the given round number. A
// round with partial input is resolved as a timeout loss and the game
// moves on; a round in which the pair did nothing at all closes the
// session as timed out. A callback whose round the session has already
// resolved (it fired, then lost the lock race against a winning pair)
// must leave no trace.
func (c *Controller) timeOutRound(roomID string, round int) {
	s := c.manager.Get(roomID)
	if s == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.terminated || round != s.round {
		return
	}

	idle := len(s.pending) == 0 && s.roundMessages == 0 && len(s.history) == s.roundStart
	if idle {
		logger.Infof("[timeOutRound] room=%s idle round, closing session", roomID)
		feedback(c.chat.SendText(roomID,
			"**The room was inactive for too long and is closing now.**", internal.WarningColor),
			"announce inactivity closure")
		c.closeSessionLocked(s, internal.StateClosingTimeout, c.uniformStatuses(s, internal.CloseTimeout))
		return
	}

	logger.Infof("[timeOutRound] room=%s round timed out, %d partial submission(s) discarded",
		roomID, len(s.pending))
	s.pending = make(map[string]string)

	feedback(c.chat.SendText(roomID,
		"**Your time is up! Unfortunately you get no points for this round.**",
		internal.WarningColor), "announce round timeout")

	c.advanceRound(s)
}

// armRoundTimer restarts the single round timer; the previous one is
// always cancelled first. Callers hold the session lock.
func (c *Controller) armRoundTimer(s *Session) {
	roomID := s.roomID
	round := s.round
	s.timers.StartRoundTimer(c.cfg.RoundTimeout, func() {
		c.timeOutRound(roomID, round)
	})
}

func (c *Controller) uniformStatuses(s *Session, status internal.CloseStatus) map[string]internal.CloseStatus {
	statuses := make(map[string]internal.CloseStatus, len(s.participants))
	for _, p := range s.participants {
		statuses[p.ID] = status
	}
	return statuses
}
