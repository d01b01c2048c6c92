package events

import "time"

// SourceForum identifies this service as the source of published events
const SourceForum = "qaforum.backend"

// DomainEvent is the base interface for all domain events.
// Events represent something that has already happened; publishing them is
// best-effort and never blocks the write that produced them.
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }

// QuestionCreated is raised when a new question is posted
type QuestionCreated struct {
	BaseEvent
	QuestionID string   `json:"question_id"`
	AuthorID   string   `json:"author_id"`
	Tags       []string `json:"tags"`
}

// NewQuestionCreated creates a QuestionCreated event
func NewQuestionCreated(questionID, authorID string, tags []string) QuestionCreated {
	return QuestionCreated{
		BaseEvent: BaseEvent{
			AggregateID: questionID,
			EventType:   "question.created",
			Timestamp:   time.Now().UTC(),
		},
		QuestionID: questionID,
		AuthorID:   authorID,
		Tags:       tags,
	}
}

// AnswerCreated is raised when a question receives a new answer
type AnswerCreated struct {
	BaseEvent
	QuestionID string `json:"question_id"`
	AnswerID   string `json:"answer_id"`
	AuthorID   string `json:"author_id"`
}

// NewAnswerCreated creates an AnswerCreated event
func NewAnswerCreated(questionID, answerID, authorID string) AnswerCreated {
	return AnswerCreated{
		BaseEvent: BaseEvent{
			AggregateID: answerID,
			EventType:   "answer.created",
			Timestamp:   time.Now().UTC(),
		},
		QuestionID: questionID,
		AnswerID:   answerID,
		AuthorID:   authorID,
	}
}

// AnswerAccepted is raised when a question author accepts or unaccepts an answer
type AnswerAccepted struct {
	BaseEvent
	QuestionID string `json:"question_id"`
	AnswerID   string `json:"answer_id"`
	Accepted   bool   `json:"accepted"`
}

// NewAnswerAccepted creates an AnswerAccepted event
func NewAnswerAccepted(questionID, answerID string, accepted bool) AnswerAccepted {
	return AnswerAccepted{
		BaseEvent: BaseEvent{
			AggregateID: answerID,
			EventType:   "answer.accepted",
			Timestamp:   time.Now().UTC(),
		},
		QuestionID: questionID,
		AnswerID:   answerID,
		Accepted:   accepted,
	}
}

// VoteCast is raised after a vote mutates a target's ledger. Vote events do
// not generate notification records; they exist for downstream consumers.
type VoteCast struct {
	BaseEvent
	TargetType string `json:"target_type"`
	TargetID   string `json:"target_id"`
	VoterID    string `json:"voter_id"`
	Direction  string `json:"direction,omitempty"`
	NewScore   int    `json:"new_score"`
}

// NewVoteCast creates a VoteCast event. Direction is empty when the vote
// was removed by toggling.
func NewVoteCast(targetType, targetID, voterID, direction string, newScore int) VoteCast {
	return VoteCast{
		BaseEvent: BaseEvent{
			AggregateID: targetID,
			EventType:   "vote.cast",
			Timestamp:   time.Now().UTC(),
		},
		TargetType: targetType,
		TargetID:   targetID,
		VoterID:    voterID,
		Direction:  direction,
		NewScore:   newScore,
	}
}
