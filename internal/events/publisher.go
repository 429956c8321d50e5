package events

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"course-service/internal/model"
)

const (
	SubjectUserRegistered = "user.registered"
	SubjectCourseCreated  = "course.created"
	SubjectCourseUpdated  = "course.updated"
	SubjectCourseDeleted  = "course.deleted"
)

type EventPublisher interface {
	PublishUserRegistered(user *model.User) error
	PublishCourseEvent(subject string, course *model.Course) error
	Close()
}

type NatsPublisher struct {
	conn *nats.Conn
}

func NewNatsPublisher(natsURL string) (EventPublisher, error) {
	nc, err := nats.Connect(natsURL, nats.Name("course-service"))

	if err != nil {
		return nil, err
	}

	return &NatsPublisher{conn: nc}, nil
}

type UserRegisteredEvent struct {
	EventType    string    `json:"event_type"`
	UserID       uuid.UUID `json:"user_id"`
	EmailAddress string    `json:"email_address"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type CourseEvent struct {
	EventType  string    `json:"event_type"`
	CourseID   uuid.UUID `json:"course_id"`
	UserID     uuid.UUID `json:"user_id"`
	Title      string    `json:"title"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewUserRegisteredEvent(user *model.User) UserRegisteredEvent {
	return UserRegisteredEvent{
		EventType:    SubjectUserRegistered,
		UserID:       user.ID,
		EmailAddress: user.EmailAddress,
		OccurredAt:   time.Now().UTC(),
	}
}

func NewCourseEvent(subject string, course *model.Course) CourseEvent {
	return CourseEvent{
		EventType:  subject,
		CourseID:   course.ID,
		UserID:     course.UserID,
		Title:      course.Title,
		OccurredAt: time.Now().UTC(),
	}
}

func (p *NatsPublisher) PublishUserRegistered(user *model.User) error {
	return p.publish(SubjectUserRegistered, NewUserRegisteredEvent(user))
}

func (p *NatsPublisher) PublishCourseEvent(subject string, course *model.Course) error {
	return p.publish(subject, NewCourseEvent(subject, course))
}

func (p *NatsPublisher) publish(subject string, event any) error {
	eventJSON, err := json.Marshal(event)

	if err != nil {
		slog.Error("Error marshalling event JSON", slog.String("subject", subject), slog.String("error", err.Error()))
		return err
	}

	err = p.conn.Publish(subject, eventJSON)

	if err != nil {
		slog.Error("Error publishing to NATS", slog.String("subject", subject), slog.String("error", err.Error()))
		return err
	}

	slog.Debug("Published event to NATS", slog.String("subject", subject))

	return nil
}

func (p *NatsPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		slog.Warn("Error draining NATS connection", slog.String("error", err.Error()))
	}
}

// NopPublisher drops every event. It is used when no NATS_URL is configured.
type NopPublisher struct{}

func (NopPublisher) PublishUserRegistered(*model.User) error {
	return nil
}

func (NopPublisher) PublishCourseEvent(string, *model.Course) error {
	return nil
}

func (NopPublisher) Close() {}
