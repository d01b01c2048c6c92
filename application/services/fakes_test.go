package services

import (
	"context"
	"sort"

	"qaforum/domain/core/entities"
	"qaforum/domain/events"
	pkgerrors "qaforum/pkg/errors"
)

// In-memory repository fakes. They mirror the persistence contracts closely
// enough to exercise service semantics, including vote write conflicts.

type memUserRepo struct {
	users map[string]*entities.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*entities.User)}
}

func (m *memUserRepo) Create(_ context.Context, user *entities.User) error {
	for _, u := range m.users {
		if u.Username == user.Username || u.Email == user.Email {
			return pkgerrors.NewConflictError("username or email already exists")
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*entities.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("user")
	}
	return u, nil
}

func (m *memUserRepo) GetByUsername(_ context.Context, username string) (*entities.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, pkgerrors.NewNotFoundError("user")
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*entities.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, pkgerrors.NewNotFoundError("user")
}

func (m *memUserRepo) Update(_ context.Context, user *entities.User, _, _ string) error {
	for id, u := range m.users {
		if id == user.ID {
			continue
		}
		if u.Username == user.Username || u.Email == user.Email {
			return pkgerrors.NewConflictError("username or email already exists")
		}
	}
	m.users[user.ID] = user
	return nil
}

type memQuestionRepo struct {
	questions     map[string]*entities.Question
	voteConflicts int
}

func newMemQuestionRepo() *memQuestionRepo {
	return &memQuestionRepo{questions: make(map[string]*entities.Question)}
}

func copyQuestion(q *entities.Question) *entities.Question {
	c := *q
	c.Votes = append(entities.VoteLedger{}, q.Votes...)
	c.Tags = append([]string{}, q.Tags...)
	return &c
}

func (m *memQuestionRepo) Create(_ context.Context, question *entities.Question) error {
	m.questions[question.ID] = copyQuestion(question)
	return nil
}

func (m *memQuestionRepo) GetByID(_ context.Context, id string) (*entities.Question, error) {
	q, ok := m.questions[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("question")
	}
	return copyQuestion(q), nil
}

func (m *memQuestionRepo) List(_ context.Context) ([]*entities.Question, error) {
	out := make([]*entities.Question, 0, len(m.questions))
	for _, q := range m.questions {
		out = append(out, copyQuestion(q))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memQuestionRepo) ListByAuthor(ctx context.Context, authorID string) ([]*entities.Question, error) {
	all, _ := m.List(ctx)
	out := make([]*entities.Question, 0)
	for _, q := range all {
		if q.AuthorID == authorID {
			out = append(out, q)
		}
	}
	return out, nil
}

// Update and UpdateVotes mirror the field-scoped store contract: counters
// maintained by atomic adds are never written back from the entity.
func (m *memQuestionRepo) Update(_ context.Context, question *entities.Question) error {
	stored, ok := m.questions[question.ID]
	if !ok {
		return pkgerrors.NewNotFoundError("question")
	}
	next := copyQuestion(question)
	next.ViewCount = stored.ViewCount
	next.AnswerCount = stored.AnswerCount
	m.questions[question.ID] = next
	return nil
}

func (m *memQuestionRepo) UpdateVotes(_ context.Context, question *entities.Question) error {
	if m.voteConflicts > 0 {
		m.voteConflicts--
		return pkgerrors.NewConflictError("question was modified concurrently")
	}
	stored, ok := m.questions[question.ID]
	if !ok {
		return pkgerrors.NewNotFoundError("question")
	}
	next := copyQuestion(question)
	next.ViewCount = stored.ViewCount
	next.AnswerCount = stored.AnswerCount
	m.questions[question.ID] = next
	return nil
}

func (m *memQuestionRepo) IncrementViewCount(_ context.Context, id string) error {
	q, ok := m.questions[id]
	if !ok {
		return pkgerrors.NewNotFoundError("question")
	}
	q.ViewCount++
	return nil
}

func (m *memQuestionRepo) AdjustAnswerCount(_ context.Context, id string, delta int) error {
	q, ok := m.questions[id]
	if !ok {
		return pkgerrors.NewNotFoundError("question")
	}
	q.AnswerCount += delta
	return nil
}

func (m *memQuestionRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.questions[id]; !ok {
		return pkgerrors.NewNotFoundError("question")
	}
	delete(m.questions, id)
	return nil
}

type memAnswerRepo struct {
	answers       map[string]*entities.Answer
	voteConflicts int
}

func newMemAnswerRepo() *memAnswerRepo {
	return &memAnswerRepo{answers: make(map[string]*entities.Answer)}
}

func copyAnswer(a *entities.Answer) *entities.Answer {
	c := *a
	c.Votes = append(entities.VoteLedger{}, a.Votes...)
	c.Comments = append([]entities.Comment{}, a.Comments...)
	return &c
}

func (m *memAnswerRepo) Create(_ context.Context, answer *entities.Answer) error {
	m.answers[answer.ID] = copyAnswer(answer)
	return nil
}

func (m *memAnswerRepo) GetByID(_ context.Context, id string) (*entities.Answer, error) {
	a, ok := m.answers[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("answer")
	}
	return copyAnswer(a), nil
}

func (m *memAnswerRepo) ListByQuestion(_ context.Context, questionID string) ([]*entities.Answer, error) {
	out := make([]*entities.Answer, 0)
	for _, a := range m.answers {
		if a.QuestionID == questionID {
			out = append(out, copyAnswer(a))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memAnswerRepo) ListByAuthor(_ context.Context, authorID string) ([]*entities.Answer, error) {
	out := make([]*entities.Answer, 0)
	for _, a := range m.answers {
		if a.AuthorID == authorID {
			out = append(out, copyAnswer(a))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Update and UpdateVotes mirror the field-scoped store contract: the
// accepted flag is owned by the acceptance operations and never written
// back from the entity.
func (m *memAnswerRepo) Update(_ context.Context, answer *entities.Answer) error {
	stored, ok := m.answers[answer.ID]
	if !ok {
		return pkgerrors.NewNotFoundError("answer")
	}
	next := copyAnswer(answer)
	next.IsAccepted = stored.IsAccepted
	m.answers[answer.ID] = next
	return nil
}

func (m *memAnswerRepo) UpdateVotes(_ context.Context, answer *entities.Answer) error {
	if m.voteConflicts > 0 {
		m.voteConflicts--
		return pkgerrors.NewConflictError("answer was modified concurrently")
	}
	return m.Update(context.Background(), answer)
}

func (m *memAnswerRepo) AcceptExclusive(_ context.Context, questionID, answerID string) error {
	target, ok := m.answers[answerID]
	if !ok || target.QuestionID != questionID {
		return pkgerrors.NewNotFoundError("answer")
	}
	for _, a := range m.answers {
		if a.QuestionID == questionID {
			a.IsAccepted = a.ID == answerID
		}
	}
	return nil
}

func (m *memAnswerRepo) SetAccepted(_ context.Context, questionID, answerID string, accepted bool) error {
	a, ok := m.answers[answerID]
	if !ok || a.QuestionID != questionID {
		return pkgerrors.NewNotFoundError("answer")
	}
	a.IsAccepted = accepted
	return nil
}

func (m *memAnswerRepo) Delete(_ context.Context, questionID, answerID string) error {
	a, ok := m.answers[answerID]
	if !ok || a.QuestionID != questionID {
		return pkgerrors.NewNotFoundError("answer")
	}
	delete(m.answers, answerID)
	return nil
}

func (m *memAnswerRepo) DeleteByQuestion(_ context.Context, questionID string) error {
	for id, a := range m.answers {
		if a.QuestionID == questionID {
			delete(m.answers, id)
		}
	}
	return nil
}

type memNotificationRepo struct {
	notifications []*entities.Notification
	failCreate    bool
}

func newMemNotificationRepo() *memNotificationRepo {
	return &memNotificationRepo{}
}

func (m *memNotificationRepo) Create(_ context.Context, notification *entities.Notification) error {
	if m.failCreate {
		return pkgerrors.NewDatabaseError("create notification", nil)
	}
	m.notifications = append(m.notifications, notification)
	return nil
}

func (m *memNotificationRepo) ListByRecipient(_ context.Context, recipientID string, unreadOnly bool) ([]*entities.Notification, error) {
	out := make([]*entities.Notification, 0)
	for _, n := range m.notifications {
		if n.RecipientID != recipientID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memNotificationRepo) MarkRead(_ context.Context, recipientID, notificationID string) error {
	for _, n := range m.notifications {
		if n.ID == notificationID && n.RecipientID == recipientID {
			n.IsRead = true
			return nil
		}
	}
	return pkgerrors.NewNotFoundError("notification")
}

func (m *memNotificationRepo) MarkAllRead(_ context.Context, recipientID string) error {
	for _, n := range m.notifications {
		if n.RecipientID == recipientID {
			n.IsRead = true
		}
	}
	return nil
}

func (m *memNotificationRepo) Delete(_ context.Context, recipientID, notificationID string) error {
	for i, n := range m.notifications {
		if n.ID == notificationID && n.RecipientID == recipientID {
			m.notifications = append(m.notifications[:i], m.notifications[i+1:]...)
			return nil
		}
	}
	return pkgerrors.NewNotFoundError("notification")
}

type fakeEventPublisher struct {
	published []events.DomainEvent
	fail      bool
}

func (f *fakeEventPublisher) Publish(_ context.Context, event events.DomainEvent) error {
	if f.fail {
		return pkgerrors.NewInternalError("event bus unavailable")
	}
	f.published = append(f.published, event)
	return nil
}

func (f *fakeEventPublisher) eventTypes() []string {
	out := make([]string, 0, len(f.published))
	for _, e := range f.published {
		out = append(out, e.GetEventType())
	}
	return out
}
