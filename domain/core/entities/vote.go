package entities

// VoteDirection is the direction of a vote on a question or answer
type VoteDirection string

const (
	Upvote   VoteDirection = "upvote"
	Downvote VoteDirection = "downvote"
)

// ValidDirection reports whether d is a known vote direction
func ValidDirection(d VoteDirection) bool {
	return d == Upvote || d == Downvote
}

// Vote is a single (voter, direction) entry in a target's vote ledger.
// The voter is a weak reference; deleting the user does not remove the vote.
type Vote struct {
	UserID    string        `json:"userId"`
	Direction VoteDirection `json:"direction"`
}

// VoteLedger is the per-target collection of votes. The target's score is
// derived from it and must be kept equal to Score() after every mutation.
type VoteLedger []Vote

// DirectionFor returns the voter's current direction, or nil if the voter
// has no vote on this target
func (l VoteLedger) DirectionFor(userID string) *VoteDirection {
	for _, v := range l {
		if v.UserID == userID {
			d := v.Direction
			return &d
		}
	}
	return nil
}

// Score derives the target's score: upvotes minus downvotes
func (l VoteLedger) Score() int {
	score := 0
	for _, v := range l {
		if v.Direction == Upvote {
			score++
		} else {
			score--
		}
	}
	return score
}

// Apply applies toggle semantics for a voter requesting a direction:
// no existing vote appends it, the same direction removes it, the opposite
// direction flips it. It returns the score delta and the voter's resulting
// direction (nil when the vote was removed).
func (l *VoteLedger) Apply(userID string, direction VoteDirection) (int, *VoteDirection) {
	ledger := *l
	for i, v := range ledger {
		if v.UserID != userID {
			continue
		}
		if v.Direction == direction {
			// Toggle off: reverse the original delta.
			*l = append(ledger[:i], ledger[i+1:]...)
			if direction == Upvote {
				return -1, nil
			}
			return 1, nil
		}
		// Switch direction: two steps on the score.
		ledger[i].Direction = direction
		d := direction
		if direction == Upvote {
			return 2, &d
		}
		return -2, &d
	}

	*l = append(ledger, Vote{UserID: userID, Direction: direction})
	d := direction
	if direction == Upvote {
		return 1, &d
	}
	return -1, &d
}
