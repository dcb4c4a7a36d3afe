package chat

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// ReplyQueue enqueues AI reply jobs. A nil queue disables the reply pipeline
// entirely; message creation is unaffected.
type ReplyQueue interface {
	PublishJob(ctx context.Context, jobID string) error
}

type Service struct {
	repo  *Repo
	queue ReplyQueue
}

func NewService(repo *Repo, queue ReplyQueue) *Service {
	return &Service{repo: repo, queue: queue}
}

type CreateSessionInput struct {
	UserID           *string
	WebsocketURL     string
	APIToken         string
	ConnectionStatus ConnectionStatus // empty means StatusConnecting
}

func (s *Service) CreateSession(ctx context.Context, in CreateSessionInput) (*Session, error) {
	id, err := NewSessionID()
	if err != nil {
		return nil, err
	}

	status := in.ConnectionStatus
	if status == "" {
		status = StatusConnecting
	}

	now := time.Now()
	session := &Session{
		ID:               id,
		UserID:           in.UserID,
		WebsocketURL:     in.WebsocketURL,
		APIToken:         in.APIToken,
		ConnectionStatus: status,
		CreatedAt:        now,
		LastActivity:     now,
	}

	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession returns nil when the id matches no session.
func (s *Service) GetSession(ctx context.Context, id string) (*Session, error) {
	return s.repo.GetSession(ctx, id)
}

// UpdateSessionInput carries partial-update fields: a nil pointer means
// "leave unchanged", never "clear".
type UpdateSessionInput struct {
	ID               string
	ConnectionStatus *ConnectionStatus
	LastActivity     *time.Time
}

func (s *Service) UpdateSession(ctx context.Context, in UpdateSessionInput) (*Session, error) {
	updates := map[string]any{}
	if in.ConnectionStatus != nil {
		updates["connection_status"] = *in.ConnectionStatus
	}
	if in.LastActivity != nil {
		updates["last_activity"] = *in.LastActivity
	}
	return s.repo.UpdateSession(ctx, in.ID, updates)
}

// DeleteSession cascades over the session's recordings and messages before
// removing the session row. It reports whether the session existed, and never
// fails just because the id was unknown.
func (s *Service) DeleteSession(ctx context.Context, id string) (bool, error) {
	return s.repo.DeleteSessionCascade(ctx, id)
}

type CreateMessageInput struct {
	SessionID     string
	MessageType   MessageType
	Content       *string
	Transcription *string
	AudioDuration *float64
}

// CreateMessage inserts immediately. The session_id is not checked against
// chat_sessions: messages may legally arrive before their session row does.
func (s *Service) CreateMessage(ctx context.Context, in CreateMessageInput) (*Message, error) {
	var duration *Seconds
	if in.AudioDuration != nil {
		d := Seconds(*in.AudioDuration)
		duration = &d
	}

	msg := &Message{
		SessionID:     in.SessionID,
		MessageType:   in.MessageType,
		Content:       in.Content,
		Transcription: in.Transcription,
		AudioDuration: duration,
		CreatedAt:     time.Now(),
	}

	if err := s.repo.InsertMessage(ctx, msg); err != nil {
		return nil, err
	}

	if s.queue != nil && (msg.MessageType == MessageUserText || msg.MessageType == MessageUserAudio) {
		if err := s.enqueueReply(ctx, msg); err != nil {
			// The reply pipeline is best-effort; the message itself is already stored.
			log.Warn().Err(err).Str("session_id", msg.SessionID).Uint64("message_id", msg.ID).
				Msg("failed to enqueue reply job")
		}
	}

	return msg, nil
}

func (s *Service) enqueueReply(ctx context.Context, msg *Message) error {
	jobID, err := NewJobID()
	if err != nil {
		return err
	}
	job := &Job{
		ID:        jobID,
		SessionID: msg.SessionID,
		MessageID: msg.ID,
		Status:    JobQueued,
	}
	if err := s.repo.CreateJob(ctx, job); err != nil {
		return err
	}
	return s.queue.PublishJob(ctx, jobID)
}

func (s *Service) ListMessages(ctx context.Context, sessionID string) ([]Message, error) {
	return s.repo.ListMessages(ctx, sessionID)
}

type CreateRecordingInput struct {
	SessionID  string
	FilePath   string
	Duration   float64
	SampleRate int
	Channels   int
	Format     string
	FileSize   int64
}

// CreateRecording inserts immediately, with the same loose session reference
// as CreateMessage.
func (s *Service) CreateRecording(ctx context.Context, in CreateRecordingInput) (*Recording, error) {
	rec := &Recording{
		SessionID:  in.SessionID,
		FilePath:   in.FilePath,
		Duration:   Seconds(in.Duration),
		SampleRate: in.SampleRate,
		Channels:   in.Channels,
		Format:     in.Format,
		FileSize:   in.FileSize,
		CreatedAt:  time.Now(),
	}
	if err := s.repo.InsertRecording(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) ListRecordings(ctx context.Context, sessionID string) ([]Recording, error) {
	return s.repo.ListRecordings(ctx, sessionID)
}

func (s *Service) GetJob(ctx context.Context, jobID string) (*Job, error) {
	return s.repo.GetJobByID(ctx, jobID)
}
